package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Pos", "Driver", "Points"}
	rows := [][]string{
		{"1", "Max Verstappen", "69"},
		{"12", "Sergio Pérez", "8.5"},
	}

	lines := FormatTable(headers, rows, map[int]bool{0: true, 2: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "Pos  Driver          Points", lines[0])
	assert.Equal(t, "  1  Max Verstappen      69", lines[1])
	assert.Equal(t, " 12  Sergio Pérez       8.5", lines[2])
}

func TestFormatTableWithoutColumns(t *testing.T) {
	assert.Nil(t, FormatTable(nil, nil, nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Bahrain", Truncate("Bahrain", 10))
	assert.Equal(t, "Bahrain...", Truncate("Bahrain International", 10))
	assert.Equal(t, "Bah", Truncate("Bahrain", 3))
}

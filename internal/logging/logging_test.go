package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	logger.Info().Int("races", 3).Msg("loaded")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loaded", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 3, entry["races"])
	assert.Contains(t, entry, "time")

	buf.Reset()
	dbg := New(&buf, true)
	dbg.Debug().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "f1dash.log")

	lf, err := Open(path, false)
	require.NoError(t, err)
	lf.Logger.Info().Msg("first")
	require.NoError(t, lf.Close())

	lf, err = Open(path, false)
	require.NoError(t, err)
	lf.Logger.Info().Msg("second")
	require.NoError(t, lf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("\n")))
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestNilFileClose(t *testing.T) {
	var lf *File
	assert.NoError(t, lf.Close())
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/f1dash/internal/model"
)

func TestSeasonsNewestFirstWithinBounds(t *testing.T) {
	races := []model.Race{
		{ID: 1, Year: 2008}, {ID: 2, Year: 2012}, {ID: 3, Year: 2024},
		{ID: 4, Year: 2012}, {ID: 5, Year: 2026}, {ID: 6, Year: 2010},
	}
	assert.Equal(t, []int{2024, 2012, 2010}, Seasons(races, DefaultMinSeason, DefaultMaxSeason))
	assert.Equal(t, []int{2026, 2024, 2012, 2010, 2008}, Seasons(races, 0, 0))
	assert.Empty(t, Seasons(nil, DefaultMinSeason, DefaultMaxSeason))
}

func TestCircuitAndDriverOptionsSortedByName(t *testing.T) {
	st := fixtureStore()
	races, results := seasonFixture(t, 2022)

	circuits := CircuitOptions(st, races)
	assert.Equal(t, []Option{
		{ID: int(sakhir), Label: "Bahrain International Circuit"},
		{ID: int(jeddah), Label: "Jeddah Corniche Circuit"},
	}, circuits)

	drivers := DriverOptions(st, results)
	labels := make([]string, 0, len(drivers))
	for _, o := range drivers {
		labels = append(labels, o.Label)
	}
	assert.Equal(t, []string{"Charles Leclerc", "Lando Norris", "Lewis Hamilton", "Max Verstappen", "Sergio Pérez"}, labels)
}

func TestFindOption(t *testing.T) {
	options := []Option{
		{ID: 1, Label: "Red Bull Ring"},
		{ID: 2, Label: "Bahrain International Circuit"},
		{ID: 3, Label: "Bahrain"},
	}

	got, ok := FindOption(options, "bahrain")
	require.True(t, ok)
	assert.Equal(t, 3, got.ID)

	got, ok = FindOption(options, " international ")
	require.True(t, ok)
	assert.Equal(t, 2, got.ID)

	_, ok = FindOption(options, "monza")
	assert.False(t, ok)
	_, ok = FindOption(options, "")
	assert.False(t, ok)
}

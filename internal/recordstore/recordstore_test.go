package recordstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/f1dash/internal/model"
)

func TestNewBuildsIndices(t *testing.T) {
	st := New(model.Tables{
		Races:    []model.Race{{ID: 10, Year: 2023, Round: 1, CircuitID: 3, Name: "Bahrain Grand Prix"}},
		Drivers:  []model.Driver{{ID: 1, Forename: "Lewis", Surname: "Hamilton", Code: "HAM"}},
		Circuits: []model.Circuit{{ID: 3, Name: "Bahrain International Circuit"}},
		Statuses: []model.Status{{ID: 4, Label: "Collision"}},
	})

	race, ok := st.Race(10)
	require.True(t, ok)
	assert.Equal(t, "Bahrain Grand Prix", race.Name)

	driver, ok := st.Driver(1)
	require.True(t, ok)
	assert.Equal(t, "Lewis Hamilton", driver.FullName())

	_, ok = st.Circuit(99)
	assert.False(t, ok)

	label, ok := st.StatusLabel(4)
	require.True(t, ok)
	assert.Equal(t, "Collision", label)
}

func TestAccessorsReturnCopies(t *testing.T) {
	input := []model.Race{{ID: 1, Round: 2}, {ID: 2, Round: 1}}
	st := New(model.Tables{Races: input})

	input[0].Round = 99
	races := st.Races()
	assert.Equal(t, 2, races[0].Round)

	races[0].Round = 42
	assert.Equal(t, 2, st.Races()[0].Round)
}

func TestCounts(t *testing.T) {
	st := New(model.Tables{
		Results:  []model.Result{{RaceID: 1}, {RaceID: 2}},
		PitStops: []model.PitStop{{RaceID: 1}},
	})
	counts := st.Counts()
	assert.Equal(t, 2, counts["results"])
	assert.Equal(t, 1, counts["pit_stops"])
	assert.Equal(t, 0, counts["races"])
}

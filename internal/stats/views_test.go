package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/recordstore"
	"github.com/verte-zerg/f1dash/internal/selection"
)

func TestBuildIsIdempotent(t *testing.T) {
	st := fixtureStore()
	sel := selection.New(2022)
	sel.SetCircuit(sakhir)

	first := Build(st, sel)
	second := Build(st, sel)
	require.Equal(t, first, second)
	assert.Equal(t, fixtureTables().Races, st.Races())
}

func TestBuildDefaultSelection(t *testing.T) {
	views := Build(fixtureStore(), selection.New(2022))
	require.False(t, views.Empty())
	assert.Len(t, views.Races, 3)
	assert.Len(t, views.Circuits.Markers, 2)
	assert.Equal(t, model.RaceID(103), views.Standings.Race.ID)
	assert.Len(t, views.Trajectory.Drivers, TrajectoryTop)
	assert.Equal(t, ModeSeason, views.Matrix.Mode())
	assert.Len(t, views.Insights.Overtakers, 5)
	assert.Len(t, views.DriverOptions, 5)
	assert.Zero(t, views.Skipped)
}

func TestBuildDriverAndCircuitSelection(t *testing.T) {
	sel := selection.New(2022)
	sel.SetCircuit(sakhir)
	sel.SetDriver(ham)

	views := Build(fixtureStore(), sel)
	history, ok := views.Matrix.(CircuitHistory)
	require.True(t, ok)
	assert.Len(t, history.Points, 3)

	require.Len(t, views.Insights.Overtakers, 1)
	assert.Equal(t, ham, views.Insights.Overtakers[0].DriverID)
	assert.Equal(t, 2, views.Insights.Overtakers[0].Races)
	assert.Equal(t, 0, views.Insights.Overtakers[0].PitStops)

	assert.Len(t, views.DriverOptions, 5)
}

func TestBuildYearWithoutRaces(t *testing.T) {
	views := Build(fixtureStore(), selection.New(1999))
	assert.True(t, views.Empty())
	assert.True(t, views.Standings.Empty())
	assert.True(t, views.Trajectory.Empty())
	assert.True(t, views.Matrix.Empty())
	assert.True(t, views.Insights.Empty())
	assert.True(t, views.Circuits.Empty())
	assert.Empty(t, views.DriverOptions)
}

func TestBuildCountsSkippedReferences(t *testing.T) {
	tables := fixtureTables()
	tables.Results = append(tables.Results, model.Result{RaceID: 103, DriverID: 404, Grid: 6, PositionOrder: 6, FastestLapSpeed: speed(199)})
	tables.Races = append(tables.Races, model.Race{ID: 104, Year: 2022, Round: 4, CircuitID: unknown, Name: "Mystery Grand Prix"})

	views := Build(recordstore.New(tables), selection.New(2022))
	assert.Positive(t, views.Skipped)
	assert.Equal(t, 1, views.Circuits.Skipped)
}

func TestBuildCountsUnknownSelectedDriverInMatrix(t *testing.T) {
	tables := fixtureTables()
	tables.Results = append(tables.Results, model.Result{RaceID: 103, DriverID: 404, Grid: 6, PositionOrder: 6})
	st := recordstore.New(tables)

	sel := selection.New(2022)
	sel.SetDriver(404)
	views := Build(st, sel)
	delta, ok := views.Matrix.(DriverDelta)
	require.True(t, ok)
	assert.Equal(t, 1, delta.Skipped)
	assert.Empty(t, delta.Points)

	sel.SetCircuit(sakhir)
	views = Build(st, sel)
	history, ok := views.Matrix.(CircuitHistory)
	require.True(t, ok)
	assert.Equal(t, 1, history.Skipped)
	assert.Equal(t, 1, history.SeasonGrid.Skipped)
	assert.GreaterOrEqual(t, views.Skipped, 2)
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/f1dash/internal/model"
)

func seasonFixture(t *testing.T, year int) ([]model.Race, []model.Result) {
	t.Helper()
	tables := fixtureTables()
	races := RacesOfYear(tables.Races, year)
	return races, ResultsOfRaces(tables.Results, races)
}

func TestBuildTrajectorySeriesAreDenseAndMonotonic(t *testing.T) {
	st := fixtureStore()
	races, results := seasonFixture(t, 2022)

	traj := BuildTrajectory(st, races, results, model.AllCircuits, per)
	require.False(t, traj.Empty())
	assert.Equal(t, []int{1, 2, 3}, traj.Rounds)
	for _, d := range traj.Drivers {
		require.Len(t, d.Series, len(traj.Rounds))
		for i := 1; i < len(d.Series); i++ {
			assert.GreaterOrEqual(t, d.Series[i].Points, d.Series[i-1].Points)
			assert.Equal(t, traj.Rounds[i], d.Series[i].Round)
		}
		assert.Equal(t, d.Total, d.Series[len(d.Series)-1].Points)
	}
}

func TestBuildTrajectoryTopThreePlusSelected(t *testing.T) {
	st := fixtureStore()
	races, results := seasonFixture(t, 2022)

	traj := BuildTrajectory(st, races, results, model.AllCircuits, model.AllDrivers)
	require.Len(t, traj.Drivers, 3)
	assert.Equal(t, []model.DriverID{ver, lec, ham}, trajectoryIDs(traj))
	assert.Equal(t, 69.0, traj.Drivers[0].Total)

	traj = BuildTrajectory(st, races, results, model.AllCircuits, per)
	require.Len(t, traj.Drivers, 4)
	last := traj.Drivers[3]
	assert.Equal(t, per, last.DriverID)
	assert.True(t, last.Selected)
	assert.Equal(t, "PER", last.Code)

	traj = BuildTrajectory(st, races, results, model.AllCircuits, lec)
	assert.Len(t, traj.Drivers, 3)
	assert.True(t, traj.Drivers[1].Selected)
}

func TestBuildTrajectoryCarriesForwardMissedRounds(t *testing.T) {
	st := fixtureStore()
	races, results := seasonFixture(t, 2022)

	traj := BuildTrajectory(st, races, results, model.AllCircuits, per)
	perSeries := traj.Drivers[3].Series
	assert.Equal(t, []TrajectoryPoint{{Round: 1, Points: 0}, {Round: 2, Points: 0}, {Round: 3, Points: 12}}, perSeries)
}

func TestBuildTrajectoryHighlightsCircuitRounds(t *testing.T) {
	st := fixtureStore()
	races, results := seasonFixture(t, 2022)

	traj := BuildTrajectory(st, races, results, sakhir, model.AllDrivers)
	assert.Equal(t, []int{1, 3}, traj.HighlightRounds)
}

func TestBuildTrajectoryEmptySeason(t *testing.T) {
	traj := BuildTrajectory(fixtureStore(), nil, nil, model.AllCircuits, model.AllDrivers)
	assert.True(t, traj.Empty())
	assert.NotNil(t, traj.Drivers)
}

func trajectoryIDs(traj Trajectory) []model.DriverID {
	ids := make([]model.DriverID, 0, len(traj.Drivers))
	for _, d := range traj.Drivers {
		ids = append(ids, d.DriverID)
	}
	return ids
}

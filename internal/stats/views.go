package stats

import (
	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/selection"
)

// Views contains every dataset the dashboard renders for a selection.
type Views struct {
	Selection      selection.State
	Races          []model.Race
	Circuits       CircuitMap
	Standings      Standings
	Trajectory     Trajectory
	Matrix         MatrixView
	Insights       Insights
	CircuitOptions []Option
	DriverOptions  []Option
	// Skipped counts records dropped for unresolved cross-references.
	Skipped int
}

// Empty reports whether the selected season has no races.
func (v Views) Empty() bool {
	return len(v.Races) == 0
}

// Build derives every view from the source for the selection. It reads the
// source only and may be called repeatedly.
func Build(src Source, sel selection.State) Views {
	allRaces := src.Races()
	allResults := src.Results()

	seasonRaces := RacesOfYear(allRaces, sel.Year)
	seasonResults := ResultsOfRaces(allResults, seasonRaces)
	circuitResults := FilterByCircuit(seasonResults, seasonRaces, sel.Circuit)
	overviewResults := FilterByDriver(circuitResults, sel.Driver)
	stops := FilterPitStops(src.PitStops(), overviewResults, sel.Driver)

	v := Views{
		Selection:      sel,
		Races:          seasonRaces,
		Circuits:       BuildCircuitMap(src, seasonRaces, seasonResults, sel.Circuit, sel.Driver),
		Standings:      ResolveStandings(src, seasonRaces, src.DriverStandings(), sel.Circuit, sel.Driver),
		Trajectory:     BuildTrajectory(src, seasonRaces, seasonResults, sel.Circuit, sel.Driver),
		Insights:       BuildInsights(src, overviewResults, stops),
		CircuitOptions: CircuitOptions(src, seasonRaces),
		DriverOptions:  DriverOptions(src, seasonResults),
	}
	v.Matrix = BuildMatrix(src, MatrixInput{
		SeasonRaces:   seasonRaces,
		SeasonResults: seasonResults,
		AllRaces:      allRaces,
		AllResults:    allResults,
		Circuit:       sel.Circuit,
		Driver:        sel.Driver,
	})
	v.Skipped = v.Circuits.Skipped + v.Standings.Skipped + v.Trajectory.Skipped + v.Insights.Skipped + matrixSkipped(v.Matrix)
	return v
}

func matrixSkipped(m MatrixView) int {
	switch mv := m.(type) {
	case SeasonScatter:
		return mv.Skipped
	case CircuitGrid:
		return mv.Skipped
	case DriverDelta:
		return mv.Skipped
	case CircuitHistory:
		return mv.Skipped + mv.SeasonGrid.Skipped
	default:
		return 0
	}
}

// Package stats contains the filter and aggregation engine behind every
// dashboard view. Functions never modify their inputs; every returned slice
// is freshly allocated.
package stats

import (
	"sort"

	"github.com/verte-zerg/f1dash/internal/model"
)

// Lookup resolves ids to display records.
type Lookup interface {
	Race(id model.RaceID) (model.Race, bool)
	Driver(id model.DriverID) (model.Driver, bool)
	Circuit(id model.CircuitID) (model.Circuit, bool)
	StatusLabel(id model.StatusID) (string, bool)
}

// Source is the full dataset as consumed by Build.
type Source interface {
	Lookup
	Races() []model.Race
	Results() []model.Result
	DriverStandings() []model.DriverStanding
	PitStops() []model.PitStop
}

// RacesOfYear returns the races of a season ordered by round.
func RacesOfYear(races []model.Race, year int) []model.Race {
	out := make([]model.Race, 0)
	for _, r := range races {
		if r.Year == year {
			out = append(out, r)
		}
	}
	sortByRound(out)
	return out
}

// SortByRound returns a copy of races ordered by round.
func SortByRound(races []model.Race) []model.Race {
	out := make([]model.Race, len(races))
	copy(out, races)
	sortByRound(out)
	return out
}

func sortByRound(races []model.Race) {
	sort.SliceStable(races, func(i, j int) bool {
		if races[i].Year != races[j].Year {
			return races[i].Year < races[j].Year
		}
		return races[i].Round < races[j].Round
	})
}

// ResultsOfRaces keeps results whose race is in races.
func ResultsOfRaces(results []model.Result, races []model.Race) []model.Result {
	ids := raceIDSet(races)
	out := make([]model.Result, 0)
	for _, r := range results {
		if _, ok := ids[r.RaceID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FilterByCircuit keeps results of races held at the circuit.
// model.AllCircuits returns every result.
func FilterByCircuit(results []model.Result, races []model.Race, circuit model.CircuitID) []model.Result {
	if circuit == model.AllCircuits {
		return append(make([]model.Result, 0, len(results)), results...)
	}
	return ResultsOfRaces(results, RacesAtCircuit(races, circuit))
}

// FilterByDriver keeps results of one driver. model.AllDrivers returns every result.
func FilterByDriver(results []model.Result, driver model.DriverID) []model.Result {
	out := make([]model.Result, 0, len(results))
	for _, r := range results {
		if driver == model.AllDrivers || r.DriverID == driver {
			out = append(out, r)
		}
	}
	return out
}

// FilterPitStops keeps pit stops made in the races covered by results,
// restricted to one driver unless driver is model.AllDrivers.
func FilterPitStops(stops []model.PitStop, results []model.Result, driver model.DriverID) []model.PitStop {
	raceIDs := make(map[model.RaceID]struct{}, len(results))
	for _, r := range results {
		raceIDs[r.RaceID] = struct{}{}
	}
	out := make([]model.PitStop, 0)
	for _, p := range stops {
		if _, ok := raceIDs[p.RaceID]; !ok {
			continue
		}
		if driver != model.AllDrivers && p.DriverID != driver {
			continue
		}
		out = append(out, p)
	}
	return out
}

// RacesAtCircuit returns the races held at a circuit ordered by year and round.
func RacesAtCircuit(races []model.Race, circuit model.CircuitID) []model.Race {
	out := make([]model.Race, 0)
	for _, r := range races {
		if r.CircuitID == circuit {
			out = append(out, r)
		}
	}
	sortByRound(out)
	return out
}

// LastRace returns the race with the highest round.
func LastRace(races []model.Race) (model.Race, bool) {
	if len(races) == 0 {
		return model.Race{}, false
	}
	last := races[0]
	for _, r := range races[1:] {
		if r.Year > last.Year || (r.Year == last.Year && r.Round > last.Round) {
			last = r
		}
	}
	return last, true
}

// Rounds returns the distinct rounds of races in ascending order.
func Rounds(races []model.Race) []int {
	seen := make(map[int]struct{}, len(races))
	out := make([]int, 0, len(races))
	for _, r := range races {
		if _, ok := seen[r.Round]; ok {
			continue
		}
		seen[r.Round] = struct{}{}
		out = append(out, r.Round)
	}
	sort.Ints(out)
	return out
}

func raceIDSet(races []model.Race) map[model.RaceID]struct{} {
	ids := make(map[model.RaceID]struct{}, len(races))
	for _, r := range races {
		ids[r.ID] = struct{}{}
	}
	return ids
}

func roundByRace(races []model.Race) map[model.RaceID]int {
	rounds := make(map[model.RaceID]int, len(races))
	for _, r := range races {
		rounds[r.ID] = r.Round
	}
	return rounds
}

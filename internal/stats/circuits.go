package stats

import (
	"github.com/verte-zerg/f1dash/internal/model"
)

// CircuitMarker is a circuit visited during the season.
type CircuitMarker struct {
	Circuit  model.Circuit
	Rounds   []int
	Selected bool
	// Dimmed is set for every other circuit while one is selected.
	Dimmed bool
	// Scored is set when the selected driver scored points there.
	Scored bool
}

// CircuitMap lists the season's circuits in calendar order.
type CircuitMap struct {
	Markers []CircuitMarker
	Skipped int
}

// Empty reports whether there is nothing to show.
func (c CircuitMap) Empty() bool {
	return len(c.Markers) == 0
}

// BuildCircuitMap returns one marker per distinct circuit of the season.
func BuildCircuitMap(lk Lookup, seasonRaces []model.Race, seasonResults []model.Result, circuit model.CircuitID, driver model.DriverID) CircuitMap {
	scoring := map[model.RaceID]struct{}{}
	if driver != model.AllDrivers {
		for _, r := range seasonResults {
			if r.DriverID == driver && r.Points > 0 {
				scoring[r.RaceID] = struct{}{}
			}
		}
	}

	out := CircuitMap{Markers: []CircuitMarker{}}
	index := map[model.CircuitID]int{}
	for _, race := range SortByRound(seasonRaces) {
		i, ok := index[race.CircuitID]
		if !ok {
			c, found := lk.Circuit(race.CircuitID)
			if !found {
				out.Skipped++
				continue
			}
			out.Markers = append(out.Markers, CircuitMarker{
				Circuit:  c,
				Rounds:   []int{},
				Selected: circuit != model.AllCircuits && c.ID == circuit,
				Dimmed:   circuit != model.AllCircuits && c.ID != circuit,
			})
			i = len(out.Markers) - 1
			index[race.CircuitID] = i
		}
		out.Markers[i].Rounds = append(out.Markers[i].Rounds, race.Round)
		if _, ok := scoring[race.ID]; ok {
			out.Markers[i].Scored = true
		}
	}
	return out
}

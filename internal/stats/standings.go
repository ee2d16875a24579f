package stats

import (
	"sort"

	"github.com/verte-zerg/f1dash/internal/model"
)

// StandingRow is one line of the championship table.
type StandingRow struct {
	Position    int
	DriverID    model.DriverID
	DriverName  string
	Code        string
	Points      float64
	Wins        int
	Highlighted bool
}

// Standings is the championship table as of a snapshot race.
type Standings struct {
	Race    model.Race
	Found   bool
	Rows    []StandingRow
	Skipped int
}

// Empty reports whether there is nothing to show.
func (s Standings) Empty() bool {
	return !s.Found || len(s.Rows) == 0
}

// ResolveSnapshotRace picks the race whose standings are shown: the last
// race at the selected circuit, or the last race of the season.
func ResolveSnapshotRace(seasonRaces []model.Race, circuit model.CircuitID) (model.Race, bool) {
	if circuit != model.AllCircuits {
		return LastRace(RacesAtCircuit(seasonRaces, circuit))
	}
	return LastRace(seasonRaces)
}

// ResolveStandings returns the standings after the snapshot race ordered by
// position. Rows of drivers missing from the lookup are skipped.
func ResolveStandings(lk Lookup, seasonRaces []model.Race, rows []model.DriverStanding, circuit model.CircuitID, driver model.DriverID) Standings {
	race, ok := ResolveSnapshotRace(seasonRaces, circuit)
	if !ok {
		return Standings{Rows: []StandingRow{}}
	}
	out := Standings{Race: race, Found: true, Rows: make([]StandingRow, 0)}
	for _, s := range rows {
		if s.RaceID != race.ID {
			continue
		}
		d, ok := lk.Driver(s.DriverID)
		if !ok {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, StandingRow{
			Position:    s.Position,
			DriverID:    s.DriverID,
			DriverName:  d.FullName(),
			Code:        d.DisplayCode(),
			Points:      s.Points,
			Wins:        s.Wins,
			Highlighted: driver != model.AllDrivers && s.DriverID == driver,
		})
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Position < out.Rows[j].Position
	})
	return out
}

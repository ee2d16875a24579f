package stats

import (
	"sort"

	"github.com/verte-zerg/f1dash/internal/model"
)

// TrajectoryTop is the number of season leaders always plotted.
const TrajectoryTop = 3

// TrajectoryPoint is the running points total after a round.
type TrajectoryPoint struct {
	Round  int
	Points float64
}

// DriverTrajectory is a dense cumulative points series for one driver.
type DriverTrajectory struct {
	DriverID model.DriverID
	Code     string
	Name     string
	Series   []TrajectoryPoint
	Total    float64
	Selected bool
}

// Trajectory holds the plotted drivers of a season.
type Trajectory struct {
	Rounds []int
	// HighlightRounds are the rounds held at the selected circuit.
	HighlightRounds []int
	Drivers         []DriverTrajectory
	Skipped         int
}

// Empty reports whether there is nothing to plot.
func (t Trajectory) Empty() bool {
	return len(t.Rounds) == 0 || len(t.Drivers) == 0
}

// BuildTrajectory accumulates points per round for every driver of the
// season and keeps the leaders plus the selected driver.
func BuildTrajectory(lk Lookup, seasonRaces []model.Race, seasonResults []model.Result, circuit model.CircuitID, driver model.DriverID) Trajectory {
	rounds := Rounds(seasonRaces)
	out := Trajectory{
		Rounds:          rounds,
		HighlightRounds: []int{},
		Drivers:         []DriverTrajectory{},
	}
	if circuit != model.AllCircuits {
		out.HighlightRounds = Rounds(RacesAtCircuit(seasonRaces, circuit))
	}
	if len(rounds) == 0 {
		return out
	}

	roundOf := roundByRace(seasonRaces)
	perDriver := map[model.DriverID]map[int]float64{}
	order := []model.DriverID{}
	for _, r := range seasonResults {
		round, ok := roundOf[r.RaceID]
		if !ok {
			continue
		}
		points, ok := perDriver[r.DriverID]
		if !ok {
			points = map[int]float64{}
			perDriver[r.DriverID] = points
			order = append(order, r.DriverID)
		}
		points[round] += r.Points
	}

	all := make([]DriverTrajectory, 0, len(order))
	for _, id := range order {
		d, ok := lk.Driver(id)
		if !ok {
			out.Skipped++
			continue
		}
		byRound := perDriver[id]
		series := make([]TrajectoryPoint, 0, len(rounds))
		total := 0.0
		for _, rnd := range rounds {
			total += byRound[rnd]
			series = append(series, TrajectoryPoint{Round: rnd, Points: total})
		}
		all = append(all, DriverTrajectory{
			DriverID: id,
			Code:     d.DisplayCode(),
			Name:     d.FullName(),
			Series:   series,
			Total:    total,
			Selected: driver != model.AllDrivers && id == driver,
		})
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Total == all[j].Total {
			return all[i].DriverID < all[j].DriverID
		}
		return all[i].Total > all[j].Total
	})

	n := TrajectoryTop
	if n > len(all) {
		n = len(all)
	}
	out.Drivers = append(out.Drivers, all[:n]...)
	if driver != model.AllDrivers {
		included := false
		for _, d := range out.Drivers {
			if d.DriverID == driver {
				included = true
				break
			}
		}
		if !included {
			for _, d := range all[n:] {
				if d.DriverID == driver {
					out.Drivers = append(out.Drivers, d)
					break
				}
			}
		}
	}
	return out
}

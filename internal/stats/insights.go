package stats

import (
	"slices"
	"sort"
	"strings"

	"github.com/verte-zerg/f1dash/internal/model"
)

// InsightListSize is the length of every ranked insight list.
const InsightListSize = 10

// DriverInsight aggregates a driver's results over the current selection.
type DriverInsight struct {
	DriverID        model.DriverID
	Name            string
	Surname         string
	Code            string
	Races           int
	Gained          int
	Lost            int
	Crashes         int
	FastestLapCount int
	PitStops        int
	// IncidentCauses lists the distinct status labels of the incidents.
	IncidentCauses []string
}

// FastestLap is a single recorded fastest lap.
type FastestLap struct {
	DriverID model.DriverID
	Code     string
	RaceID   model.RaceID
	RaceName string
	Speed    float64
	Time     string
}

// Insights holds the ranked lists.
type Insights struct {
	Overtakers      []DriverInsight
	PositionsLost   []DriverInsight
	Crashes         []DriverInsight
	MostFastestLaps []DriverInsight
	FastestLaps     []FastestLap
	Skipped         int
}

// Empty reports whether every list is empty.
func (in Insights) Empty() bool {
	return len(in.Overtakers) == 0 && len(in.FastestLaps) == 0
}

// AggregateDrivers folds results into per-driver insight counters in first
// appearance order. Pit-lane starts count for neither gained nor lost.
func AggregateDrivers(lk Lookup, results []model.Result, stops []model.PitStop) ([]DriverInsight, int) {
	byDriver := map[model.DriverID]*DriverInsight{}
	order := []model.DriverID{}
	skipped := 0
	for _, r := range results {
		agg, ok := byDriver[r.DriverID]
		if !ok {
			d, found := lk.Driver(r.DriverID)
			if !found {
				skipped++
				continue
			}
			agg = &DriverInsight{
				DriverID: r.DriverID,
				Name:     d.FullName(),
				Surname:  d.Surname,
				Code:     d.DisplayCode(),
			}
			byDriver[r.DriverID] = agg
			order = append(order, r.DriverID)
		}
		agg.Races++
		if !r.PitLaneStart() {
			diff := r.Grid - r.PositionOrder
			if diff > 0 {
				agg.Gained += diff
			} else {
				agg.Lost -= diff
			}
		}
		if model.IsIncident(r.StatusID) {
			agg.Crashes++
			if label, ok := lk.StatusLabel(r.StatusID); ok && !slices.Contains(agg.IncidentCauses, label) {
				agg.IncidentCauses = append(agg.IncidentCauses, label)
			}
		}
		if r.FastestLapRank == 1 {
			agg.FastestLapCount++
		}
	}
	for _, p := range stops {
		if agg, ok := byDriver[p.DriverID]; ok {
			agg.PitStops++
		}
	}
	out := make([]DriverInsight, 0, len(order))
	for _, id := range order {
		out = append(out, *byDriver[id])
	}
	return out, skipped
}

// BuildInsights ranks the selection's results into top lists. Ties are
// broken by ascending driver id.
func BuildInsights(lk Lookup, results []model.Result, stops []model.PitStop) Insights {
	drivers, skipped := AggregateDrivers(lk, results, stops)
	laps, lapSkipped := TopFastestLaps(lk, results, InsightListSize)
	return Insights{
		Overtakers:      TopDrivers(drivers, func(d DriverInsight) int { return d.Gained }, InsightListSize),
		PositionsLost:   TopDrivers(drivers, func(d DriverInsight) int { return d.Lost }, InsightListSize),
		Crashes:         TopDrivers(drivers, func(d DriverInsight) int { return d.Crashes }, InsightListSize),
		MostFastestLaps: TopDrivers(drivers, func(d DriverInsight) int { return d.FastestLapCount }, InsightListSize),
		FastestLaps:     laps,
		Skipped:         skipped + lapSkipped,
	}
}

// TopDrivers returns the n drivers with the highest key.
func TopDrivers(drivers []DriverInsight, key func(DriverInsight) int, n int) []DriverInsight {
	if n <= 0 || len(drivers) == 0 {
		return []DriverInsight{}
	}
	sorted := make([]DriverInsight, len(drivers))
	copy(sorted, drivers)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki == kj {
			return sorted[i].DriverID < sorted[j].DriverID
		}
		return ki > kj
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// TopFastestLaps returns the n fastest recorded laps by speed. Results
// without a recorded speed are ignored.
func TopFastestLaps(lk Lookup, results []model.Result, n int) ([]FastestLap, int) {
	laps := make([]FastestLap, 0)
	skipped := 0
	for _, r := range results {
		if !r.FastestLapSpeed.Valid {
			continue
		}
		d, ok := lk.Driver(r.DriverID)
		if !ok {
			skipped++
			continue
		}
		race, ok := lk.Race(r.RaceID)
		if !ok {
			skipped++
			continue
		}
		laps = append(laps, FastestLap{
			DriverID: r.DriverID,
			Code:     d.DisplayCode(),
			RaceID:   r.RaceID,
			RaceName: ShortRaceName(race.Name),
			Speed:    r.FastestLapSpeed.Float64,
			Time:     r.FastestLapTime,
		})
	}
	sort.SliceStable(laps, func(i, j int) bool {
		if laps[i].Speed != laps[j].Speed {
			return laps[i].Speed > laps[j].Speed
		}
		if laps[i].RaceID != laps[j].RaceID {
			return laps[i].RaceID < laps[j].RaceID
		}
		return laps[i].DriverID < laps[j].DriverID
	})
	if n < 0 {
		n = 0
	}
	if n > len(laps) {
		n = len(laps)
	}
	return laps[:n], skipped
}

// ShortRaceName drops the " Grand Prix" suffix.
func ShortRaceName(name string) string {
	return strings.TrimSpace(strings.Replace(name, " Grand Prix", "", 1))
}

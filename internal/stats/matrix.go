package stats

import (
	"sort"

	"github.com/verte-zerg/f1dash/internal/model"
)

// BackOfGrid stands in for a pit-lane start when a start slot must be plotted.
const BackOfGrid = 20

// MatrixMode selects the analysis shown by the performance matrix.
type MatrixMode int

// Matrix modes keyed by which filters are active.
const (
	ModeSeason MatrixMode = iota
	ModeCircuit
	ModeDriver
	ModeDriverCircuit
)

// String implements fmt.Stringer.
func (m MatrixMode) String() string {
	switch m {
	case ModeSeason:
		return "SEASON"
	case ModeCircuit:
		return "CIRCUIT"
	case ModeDriver:
		return "DRIVER"
	case ModeDriverCircuit:
		return "DRIVER_CIRCUIT"
	default:
		return "UNKNOWN"
	}
}

// SelectMode maps the active filters to a matrix mode.
func SelectMode(driverSelected, circuitSelected bool) MatrixMode {
	switch {
	case driverSelected && circuitSelected:
		return ModeDriverCircuit
	case driverSelected:
		return ModeDriver
	case circuitSelected:
		return ModeCircuit
	default:
		return ModeSeason
	}
}

// MatrixView is the dataset of one matrix mode. The concrete types are
// SeasonScatter, CircuitGrid, DriverDelta and CircuitHistory.
type MatrixView interface {
	Mode() MatrixMode
	Empty() bool
	isMatrixView()
}

// ScatterPoint is a driver's average start and finish over a season.
type ScatterPoint struct {
	DriverID  model.DriverID
	Code      string
	Name      string
	AvgStart  float64
	AvgFinish float64
	Races     int
	// ValidStarts counts the grid starts behind AvgStart; pit-lane starts are excluded.
	ValidStarts int
}

// SeasonScatter compares average start and finish for every driver.
type SeasonScatter struct {
	Points  []ScatterPoint
	Skipped int
}

// Mode implements MatrixView.
func (SeasonScatter) Mode() MatrixMode { return ModeSeason }

// Empty implements MatrixView.
func (s SeasonScatter) Empty() bool { return len(s.Points) == 0 }

func (SeasonScatter) isMatrixView() {}

// GridRow is one driver's start and finish in a race.
type GridRow struct {
	DriverID     model.DriverID
	Name         string
	Code         string
	Start        int
	PitLaneStart bool
	Finish       int
	// Delta is Start-Finish; positive means places gained. Zero for pit-lane starts.
	Delta       int
	Highlighted bool
}

// CircuitGrid is the classification of the race resolved at a circuit.
type CircuitGrid struct {
	Race    model.Race
	Circuit model.Circuit
	Found   bool
	Rows    []GridRow
	Skipped int
}

// Mode implements MatrixView.
func (CircuitGrid) Mode() MatrixMode { return ModeCircuit }

// Empty implements MatrixView.
func (c CircuitGrid) Empty() bool { return !c.Found || len(c.Rows) == 0 }

func (CircuitGrid) isMatrixView() {}

// DeltaPoint is one race of a driver's season.
type DeltaPoint struct {
	Round        int
	RaceID       model.RaceID
	RaceName     string
	Start        int
	PitLaneStart bool
	Finish       int
	Delta        int
}

// DriverDelta is a driver's per-round start versus finish series.
type DriverDelta struct {
	DriverID model.DriverID
	Name     string
	Code     string
	Rounds   []int
	Points   []DeltaPoint
	Skipped  int
}

// Mode implements MatrixView.
func (DriverDelta) Mode() MatrixMode { return ModeDriver }

// Empty implements MatrixView.
func (d DriverDelta) Empty() bool { return len(d.Points) == 0 }

func (DriverDelta) isMatrixView() {}

// HistoryPoint is a driver's start and finish at a circuit in one year.
type HistoryPoint struct {
	Year     int
	Round    int
	RaceName string
	Start    int
	Finish   int
}

// CircuitHistory is a driver's record at one circuit across every season.
type CircuitHistory struct {
	DriverID model.DriverID
	Name     string
	Circuit  model.Circuit
	Points   []HistoryPoint
	// SeasonGrid is the selected season's race at the circuit with the
	// driver's row highlighted.
	SeasonGrid CircuitGrid
	Skipped    int
}

// Mode implements MatrixView.
func (CircuitHistory) Mode() MatrixMode { return ModeDriverCircuit }

// Empty implements MatrixView.
func (h CircuitHistory) Empty() bool { return len(h.Points) == 0 }

func (CircuitHistory) isMatrixView() {}

// MatrixInput carries the data each matrix mode may need.
type MatrixInput struct {
	SeasonRaces   []model.Race
	SeasonResults []model.Result
	// AllRaces and AllResults span every season; only ModeDriverCircuit reads them.
	AllRaces   []model.Race
	AllResults []model.Result
	Circuit    model.CircuitID
	Driver     model.DriverID
}

// BuildMatrix computes the dataset for the mode implied by the filters.
func BuildMatrix(lk Lookup, in MatrixInput) MatrixView {
	mode := SelectMode(in.Driver != model.AllDrivers, in.Circuit != model.AllCircuits)
	switch mode {
	case ModeDriverCircuit:
		h := BuildCircuitHistory(lk, in.AllRaces, in.AllResults, in.Driver, in.Circuit)
		h.SeasonGrid = BuildCircuitGrid(lk, in.SeasonRaces, in.SeasonResults, in.Circuit, in.Driver)
		return h
	case ModeDriver:
		return BuildDriverDelta(lk, in.SeasonRaces, in.SeasonResults, in.Driver)
	case ModeCircuit:
		return BuildCircuitGrid(lk, in.SeasonRaces, in.SeasonResults, in.Circuit, in.Driver)
	default:
		return BuildSeasonScatter(lk, in.SeasonResults)
	}
}

// BuildSeasonScatter averages start and finish per driver. Pit-lane starts
// are left out of the start average; a driver with no grid start falls back
// to BackOfGrid.
func BuildSeasonScatter(lk Lookup, results []model.Result) SeasonScatter {
	type acc struct {
		gridSum, finishSum   int
		gridCount, finishCnt int
		races                int
	}
	accs := map[model.DriverID]*acc{}
	order := []model.DriverID{}
	for _, r := range results {
		a, ok := accs[r.DriverID]
		if !ok {
			a = &acc{}
			accs[r.DriverID] = a
			order = append(order, r.DriverID)
		}
		a.races++
		if r.Grid > 0 {
			a.gridSum += r.Grid
			a.gridCount++
		}
		if r.PositionOrder > 0 {
			a.finishSum += r.PositionOrder
			a.finishCnt++
		}
	}

	out := SeasonScatter{Points: make([]ScatterPoint, 0, len(order))}
	for _, id := range order {
		d, ok := lk.Driver(id)
		if !ok {
			out.Skipped++
			continue
		}
		a := accs[id]
		p := ScatterPoint{
			DriverID:    id,
			Code:        d.DisplayCode(),
			Name:        d.FullName(),
			AvgStart:    BackOfGrid,
			AvgFinish:   BackOfGrid,
			Races:       a.races,
			ValidStarts: a.gridCount,
		}
		if a.gridCount > 0 {
			p.AvgStart = float64(a.gridSum) / float64(a.gridCount)
		}
		if a.finishCnt > 0 {
			p.AvgFinish = float64(a.finishSum) / float64(a.finishCnt)
		}
		out.Points = append(out.Points, p)
	}
	sort.SliceStable(out.Points, func(i, j int) bool {
		if out.Points[i].AvgFinish == out.Points[j].AvgFinish {
			return out.Points[i].DriverID < out.Points[j].DriverID
		}
		return out.Points[i].AvgFinish < out.Points[j].AvgFinish
	})
	return out
}

// BuildCircuitGrid lists every driver's start, finish and delta for the last
// race of the season held at the circuit.
func BuildCircuitGrid(lk Lookup, seasonRaces []model.Race, seasonResults []model.Result, circuit model.CircuitID, highlight model.DriverID) CircuitGrid {
	out := CircuitGrid{Rows: []GridRow{}}
	if c, ok := lk.Circuit(circuit); ok {
		out.Circuit = c
	}
	race, ok := LastRace(RacesAtCircuit(seasonRaces, circuit))
	if !ok {
		return out
	}
	out.Race = race
	out.Found = true
	for _, r := range seasonResults {
		if r.RaceID != race.ID {
			continue
		}
		d, ok := lk.Driver(r.DriverID)
		if !ok {
			out.Skipped++
			continue
		}
		row := GridRow{
			DriverID:     r.DriverID,
			Name:         d.FullName(),
			Code:         d.DisplayCode(),
			Start:        r.Grid,
			PitLaneStart: r.PitLaneStart(),
			Finish:       r.PositionOrder,
			Highlighted:  highlight != model.AllDrivers && r.DriverID == highlight,
		}
		if !row.PitLaneStart {
			row.Delta = r.Grid - r.PositionOrder
		}
		out.Rows = append(out.Rows, row)
	}
	sort.SliceStable(out.Rows, func(i, j int) bool {
		return out.Rows[i].Finish < out.Rows[j].Finish
	})
	return out
}

// BuildDriverDelta lists a driver's start and finish per round. Pit-lane
// starts are plotted at BackOfGrid.
func BuildDriverDelta(lk Lookup, seasonRaces []model.Race, seasonResults []model.Result, driver model.DriverID) DriverDelta {
	out := DriverDelta{
		DriverID: driver,
		Rounds:   Rounds(seasonRaces),
		Points:   []DeltaPoint{},
	}
	races := make(map[model.RaceID]model.Race, len(seasonRaces))
	for _, r := range seasonRaces {
		races[r.ID] = r
	}
	d, known := lk.Driver(driver)
	if known {
		out.Name = d.FullName()
		out.Code = d.DisplayCode()
	}
	for _, r := range seasonResults {
		if r.DriverID != driver {
			continue
		}
		race, ok := races[r.RaceID]
		if !ok {
			continue
		}
		if !known {
			out.Skipped++
			continue
		}
		start := r.Grid
		if r.PitLaneStart() {
			start = BackOfGrid
		}
		out.Points = append(out.Points, DeltaPoint{
			Round:        race.Round,
			RaceID:       race.ID,
			RaceName:     race.Name,
			Start:        start,
			PitLaneStart: r.PitLaneStart(),
			Finish:       r.PositionOrder,
			Delta:        start - r.PositionOrder,
		})
	}
	sort.SliceStable(out.Points, func(i, j int) bool {
		return out.Points[i].Round < out.Points[j].Round
	})
	return out
}

// BuildCircuitHistory lists a driver's results at a circuit over all seasons.
func BuildCircuitHistory(lk Lookup, allRaces []model.Race, allResults []model.Result, driver model.DriverID, circuit model.CircuitID) CircuitHistory {
	out := CircuitHistory{DriverID: driver, Points: []HistoryPoint{}, SeasonGrid: CircuitGrid{Rows: []GridRow{}}}
	d, known := lk.Driver(driver)
	if known {
		out.Name = d.FullName()
	}
	if c, ok := lk.Circuit(circuit); ok {
		out.Circuit = c
	}
	races := map[model.RaceID]model.Race{}
	for _, r := range RacesAtCircuit(allRaces, circuit) {
		races[r.ID] = r
	}
	for _, r := range allResults {
		if r.DriverID != driver {
			continue
		}
		race, ok := races[r.RaceID]
		if !ok {
			continue
		}
		if !known {
			out.Skipped++
			continue
		}
		out.Points = append(out.Points, HistoryPoint{
			Year:     race.Year,
			Round:    race.Round,
			RaceName: race.Name,
			Start:    r.Grid,
			Finish:   r.PositionOrder,
		})
	}
	sort.SliceStable(out.Points, func(i, j int) bool {
		if out.Points[i].Year == out.Points[j].Year {
			return out.Points[i].Round < out.Points[j].Round
		}
		return out.Points[i].Year < out.Points[j].Year
	})
	return out
}

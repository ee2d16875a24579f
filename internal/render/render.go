// Package render writes dashboard views as plain text tables and plots.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/f1dash/internal/selection"
	"github.com/verte-zerg/f1dash/internal/stats"
)

// Options sizes the output.
type Options struct {
	Width      int
	PlotHeight int
	Color      bool
}

const sparkChars = " .:-=+*#%@"

// Report writes every section of the views.
func Report(w io.Writer, v stats.Views, opts Options) error {
	if err := Header(w, v); err != nil {
		return err
	}
	if v.Empty() {
		return writeLines(w, fmt.Sprintf("No races found for season %d.", v.Selection.Year))
	}
	sections := []func() error{
		func() error { return Circuits(w, v.Circuits) },
		func() error { return Standings(w, v.Standings) },
		func() error { return Trajectory(w, v.Trajectory, opts) },
		func() error { return Matrix(w, v.Matrix, opts) },
		func() error { return Insights(w, v.Insights) },
	}
	for _, section := range sections {
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

// Header writes the selection summary line.
func Header(w io.Writer, v stats.Views) error {
	return writeLines(w, HeaderLine(v), "")
}

// HeaderLine summarises the selection with resolved names.
func HeaderLine(v stats.Views) string {
	circuit := optionLabel(v.CircuitOptions, int(v.Selection.Circuit))
	driver := optionLabel(v.DriverOptions, int(v.Selection.Driver))
	return fmt.Sprintf("Season %d  Circuit: %s  Driver: %s  Races: %d", v.Selection.Year, circuit, driver, len(v.Races))
}

func optionLabel(options []stats.Option, id int) string {
	if id == 0 {
		return selection.AllToken
	}
	for _, o := range options {
		if o.ID == id {
			return o.Label
		}
	}
	return "#" + strconv.Itoa(id)
}

// Circuits writes the season's circuits in calendar order.
func Circuits(w io.Writer, m stats.CircuitMap) error {
	if m.Empty() {
		return writeLines(w, "No circuits this season.", "")
	}
	rows := make([][]string, 0, len(m.Markers))
	for _, marker := range m.Markers {
		rows = append(rows, []string{
			joinInts(marker.Rounds),
			marker.Circuit.Name,
			marker.Circuit.Location,
			marker.Circuit.Country,
			fmt.Sprintf("%.3f, %.3f", marker.Circuit.Lat, marker.Circuit.Lng),
			markerFlags(marker),
		})
	}
	return writeTable(w, "Circuits", []string{"Round", "Circuit", "Location", "Country", "Lat/Lng", ""}, rows, nil)
}

func markerFlags(m stats.CircuitMarker) string {
	flags := []string{}
	if m.Selected {
		flags = append(flags, "selected")
	}
	if m.Dimmed {
		flags = append(flags, "dimmed")
	}
	if m.Scored {
		flags = append(flags, "scored")
	}
	return strings.Join(flags, ",")
}

// Standings writes the championship table as of the snapshot race.
func Standings(w io.Writer, s stats.Standings) error {
	if s.Empty() {
		return writeLines(w, "Standings", "No standings available.", "")
	}
	rows := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, []string{
			highlight(r.Highlighted) + strconv.Itoa(r.Position),
			r.DriverName,
			r.Code,
			formatPoints(r.Points),
			strconv.Itoa(r.Wins),
		})
	}
	title := fmt.Sprintf("Standings after round %d (%s)", s.Race.Round, s.Race.Name)
	return writeTable(w, title, []string{"Pos", "Driver", "Code", "Points", "Wins"}, rows, map[int]bool{0: true, 3: true, 4: true})
}

// Trajectory plots cumulative points per round and lists the totals.
func Trajectory(w io.Writer, t stats.Trajectory, opts Options) error {
	if t.Empty() {
		return writeLines(w, "Points Trajectory", "No points scored this season.", "")
	}
	series := make([]Series, 0, len(t.Drivers))
	for _, d := range t.Drivers {
		values := make([]float64, len(d.Series))
		for i, p := range d.Series {
			values[i] = p.Points
		}
		series = append(series, Series{Name: d.Code, Values: values, Emphasis: d.Selected})
	}
	labels := make([]string, len(t.Rounds))
	roundIndex := map[int]int{}
	for i, r := range t.Rounds {
		labels[i] = "R" + strconv.Itoa(r)
		roundIndex[r] = i
	}
	marks := make([]int, 0, len(t.HighlightRounds))
	for _, r := range t.HighlightRounds {
		if i, ok := roundIndex[r]; ok {
			marks = append(marks, i)
		}
	}
	err := WritePlot(w, Plot{
		Title:  "Points Trajectory",
		Series: series,
		Labels: labels,
		Marks:  marks,
		Width:  plotWidth(opts),
		Height: opts.PlotHeight,
		Color:  opts.Color,
	})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(t.Drivers))
	for _, d := range t.Drivers {
		rows = append(rows, []string{highlight(d.Selected) + d.Code, d.Name, formatPoints(d.Total)})
	}
	return writeTable(w, "", []string{"Code", "Driver", "Total"}, rows, map[int]bool{2: true})
}

// Matrix writes the performance matrix of whichever mode is active.
func Matrix(w io.Writer, mv stats.MatrixView, opts Options) error {
	if mv == nil || mv.Empty() {
		return writeLines(w, "Performance Matrix", "No data for the current selection.", "")
	}
	switch view := mv.(type) {
	case stats.SeasonScatter:
		return seasonScatter(w, view)
	case stats.CircuitGrid:
		return circuitGrid(w, view)
	case stats.DriverDelta:
		return driverDelta(w, view, opts)
	case stats.CircuitHistory:
		return circuitHistory(w, view)
	default:
		return fmt.Errorf("unsupported matrix view %T", mv)
	}
}

func seasonScatter(w io.Writer, s stats.SeasonScatter) error {
	rows := make([][]string, 0, len(s.Points))
	for _, p := range s.Points {
		rows = append(rows, []string{
			p.Code,
			p.Name,
			fmt.Sprintf("%.2f", p.AvgStart),
			fmt.Sprintf("%.2f", p.AvgFinish),
			strconv.Itoa(p.Races),
			strconv.Itoa(p.ValidStarts),
		})
	}
	return writeTable(w, "Average Start vs Finish", []string{"Code", "Driver", "Avg Start", "Avg Finish", "Races", "Starts"}, rows, map[int]bool{2: true, 3: true, 4: true, 5: true})
}

func circuitGrid(w io.Writer, g stats.CircuitGrid) error {
	rows := make([][]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		start := strconv.Itoa(r.Start)
		delta := formatDelta(r.Delta)
		if r.PitLaneStart {
			start = "PL"
			delta = "-"
		}
		rows = append(rows, []string{
			highlight(r.Highlighted) + strconv.Itoa(r.Finish),
			r.Name,
			r.Code,
			start,
			delta,
		})
	}
	title := fmt.Sprintf("%d %s at %s", g.Race.Year, g.Race.Name, g.Circuit.Name)
	return writeTable(w, title, []string{"Finish", "Driver", "Code", "Start", "Delta"}, rows, map[int]bool{0: true, 3: true, 4: true})
}

func driverDelta(w io.Writer, d stats.DriverDelta, opts Options) error {
	rows := make([][]string, 0, len(d.Points))
	deltas := make([]float64, 0, len(d.Points))
	for _, p := range d.Points {
		start := strconv.Itoa(p.Start)
		if p.PitLaneStart {
			start += " (PL)"
		}
		rows = append(rows, []string{
			strconv.Itoa(p.Round),
			stats.ShortRaceName(p.RaceName),
			start,
			strconv.Itoa(p.Finish),
			formatDelta(p.Delta),
		})
		deltas = append(deltas, float64(p.Delta))
	}
	title := fmt.Sprintf("%s (%s): start vs finish by round", d.Name, d.Code)
	if err := writeTable(w, title, []string{"Round", "Race", "Start", "Finish", "Delta"}, rows, map[int]bool{0: true, 2: true, 3: true, 4: true}); err != nil {
		return err
	}
	spark := Sparkline(deltas)
	if opts.Width > 0 {
		spark = Truncate(spark, opts.Width-len("Delta trend: "))
	}
	return writeLines(w, "Delta trend: "+spark, "")
}

func circuitHistory(w io.Writer, h stats.CircuitHistory) error {
	rows := make([][]string, 0, len(h.Points))
	for _, p := range h.Points {
		rows = append(rows, []string{
			strconv.Itoa(p.Year),
			strconv.Itoa(p.Round),
			stats.ShortRaceName(p.RaceName),
			strconv.Itoa(p.Start),
			strconv.Itoa(p.Finish),
			formatDelta(p.Start - p.Finish),
		})
	}
	title := fmt.Sprintf("%s at %s", h.Name, h.Circuit.Name)
	if err := writeTable(w, title, []string{"Year", "Round", "Race", "Start", "Finish", "Delta"}, rows, map[int]bool{1: true, 3: true, 4: true, 5: true}); err != nil {
		return err
	}
	if h.SeasonGrid.Empty() {
		return nil
	}
	return circuitGrid(w, h.SeasonGrid)
}

// Insights writes the ranked driver lists and the fastest laps.
func Insights(w io.Writer, in stats.Insights) error {
	if in.Empty() {
		return writeLines(w, "Insights", "No results for the current selection.", "")
	}
	lists := []struct {
		title string
		label string
		value func(stats.DriverInsight) int
		rows  []stats.DriverInsight
		// causes adds the incident status column.
		causes bool
	}{
		{"Top Overtakers", "Gained", func(d stats.DriverInsight) int { return d.Gained }, in.Overtakers, false},
		{"Most Positions Lost", "Lost", func(d stats.DriverInsight) int { return d.Lost }, in.PositionsLost, false},
		{"Most Incidents", "Incidents", func(d stats.DriverInsight) int { return d.Crashes }, in.Crashes, true},
		{"Most Fastest Laps", "Fastest", func(d stats.DriverInsight) int { return d.FastestLapCount }, in.MostFastestLaps, false},
	}
	for _, list := range lists {
		headers := []string{"#", "Code", "Driver", list.label, "Races", "Pit Stops"}
		if list.causes {
			headers = append(headers, "Causes")
		}
		rows := make([][]string, 0, len(list.rows))
		for i, d := range list.rows {
			row := []string{
				strconv.Itoa(i + 1),
				d.Code,
				d.Surname,
				strconv.Itoa(list.value(d)),
				strconv.Itoa(d.Races),
				strconv.Itoa(d.PitStops),
			}
			if list.causes {
				row = append(row, strings.Join(d.IncidentCauses, ", "))
			}
			rows = append(rows, row)
		}
		if err := writeTable(w, list.title, headers, rows, map[int]bool{0: true, 3: true, 4: true, 5: true}); err != nil {
			return err
		}
	}
	if len(in.FastestLaps) == 0 {
		return writeLines(w, "Fastest Laps", "No lap speeds recorded.", "")
	}
	rows := make([][]string, 0, len(in.FastestLaps))
	for i, lap := range in.FastestLaps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			lap.Code,
			lap.RaceName,
			fmt.Sprintf("%.3f", lap.Speed),
			lap.Time,
		})
	}
	return writeTable(w, "Fastest Laps (km/h)", []string{"#", "Code", "Race", "Speed", "Time"}, rows, map[int]bool{0: true, 3: true})
}

// Seasons lists the selectable seasons.
func Seasons(w io.Writer, years []int) error {
	if len(years) == 0 {
		return writeLines(w, "No seasons found.")
	}
	lines := make([]string, 0, len(years))
	for _, y := range years {
		lines = append(lines, strconv.Itoa(y))
	}
	return writeLines(w, lines...)
}

// Sparkline renders values as a single line of ASCII levels.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	lines := make([]string, 0, len(rows)+3)
	if title != "" {
		lines = append(lines, title)
	}
	lines = append(lines, FormatTable(headers, rows, rightAlign)...)
	lines = append(lines, "")
	return writeLines(w, lines...)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func plotWidth(opts Options) int {
	if opts.Width <= 0 {
		return 0
	}
	return PlotWidthFor(opts.Width, 4)
}

func highlight(on bool) string {
	if on {
		return "*"
	}
	return ""
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDelta(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

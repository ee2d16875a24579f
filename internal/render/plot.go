package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named line of a plot. Values are sampled at the plot's x
// positions.
type Series struct {
	Name   string
	Values []float64
	// Emphasis draws the series solid regardless of its slot.
	Emphasis bool
}

// Plot describes a multi-series braille chart that shares one y scale.
type Plot struct {
	Title  string
	Series []Series
	// Labels name the x positions; only the first and last are printed.
	Labels []string
	// Marks are x positions flagged under the axis.
	Marks  []int
	Width  int
	Height int
	Color  bool
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisSeparator     = " │ "
	markRune          = '▲'
	colorReset        = "\x1b[0m"
	fallbackWidth     = 80
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var palette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
	"\x1b[34m",
}

// WritePlot renders p to w. Nothing is written when no series has values.
func WritePlot(w io.Writer, p Plot) error {
	series := nonEmptySeries(p.Series)
	if len(series) == 0 {
		return nil
	}
	height := p.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	lo, hi := sharedRange(series)
	axisWidth := max(runewidth.StringWidth(formatAxisValue(lo)), runewidth.StringWidth(formatAxisValue(hi)))
	width := p.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), axisWidth)
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	canvases := make([][][]uint8, len(series))
	for si, s := range series {
		canvases[si] = newCanvas(height, width)
		pattern := dashPatterns[si%len(dashPatterns)]
		if s.Emphasis {
			pattern = dashPatterns[0]
		}
		values := resample(s.Values, width)
		prevX, prevY := -1, -1
		for x, v := range values {
			px, py := x*2, scaleToRow(v, lo, hi, height*4)
			if prevX >= 0 {
				bresenham(prevX, prevY, px, py, func(dx, dy int) {
					if pattern.draws(dx) {
						setDot(canvases[si], dx, dy)
					}
				})
			} else {
				setDot(canvases[si], px, py)
			}
			prevX, prevY = px, py
		}
	}

	useColor := p.Color && os.Getenv("NO_COLOR") == ""
	var b strings.Builder
	if p.Title != "" {
		b.WriteString(p.Title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = formatAxisValue(hi)
		case height - 1:
			label = formatAxisValue(lo)
		}
		b.WriteString(strings.Repeat(" ", axisWidth-runewidth.StringWidth(label)))
		b.WriteString(label)
		b.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := mergeCell(canvases, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				b.WriteString(palette[owner%len(palette)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	gutter := strings.Repeat(" ", axisWidth+runewidth.StringWidth(axisSeparator))
	if marks := markLine(p.Marks, len(series[0].Values), width); marks != "" {
		b.WriteString(gutter + marks + "\n")
	}
	if axis := labelLine(p.Labels, width); axis != "" {
		b.WriteString(gutter + axis + "\n")
	}
	b.WriteString(legend(series, useColor))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the canvas width that fits totalWidth cells next to
// an axis label of axisWidth cells.
func PlotWidthFor(totalWidth, axisWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	width := totalWidth - axisWidth - runewidth.StringWidth(axisSeparator)
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func sharedRange(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > 0 {
		lo = 0
	}
	if hi-lo < 1e-9 {
		hi = lo + 1
	}
	return lo, hi
}

func formatAxisValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func newCanvas(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// mergeCell ORs the dots of every canvas; the first series drawing in the
// cell owns its color.
func mergeCell(canvases [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, cells := range canvases {
		m := cells[y][x]
		if m == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= m
	}
	return mask, owner
}

func (p dashPattern) draws(x int) bool {
	if p.period <= 1 {
		return true
	}
	return x%p.period < p.on
}

// resample stretches or averages values onto width columns.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

// column maps sample index i of n onto a canvas column.
func column(i, n, width int) int {
	if n <= 1 || width <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
}

func scaleToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func markLine(marks []int, n, width int) string {
	if len(marks) == 0 {
		return ""
	}
	line := []rune(strings.Repeat(" ", width))
	for _, m := range marks {
		if m < 0 || m >= n {
			continue
		}
		line[column(m, n, width)] = markRune
	}
	return strings.TrimRight(string(line), " ")
}

func labelLine(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 {
		return first
	}
	gap := width - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		return first
	}
	return first + strings.Repeat(" ", gap) + last
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		pattern := dashPatterns[i%len(dashPatterns)]
		if s.Emphasis {
			pattern = dashPatterns[0]
		}
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, pattern.name)
		if useColor {
			label = palette[i%len(palette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// setDot lights the braille dot at sub-cell coordinates (x, y); each cell
// is two dots wide and four tall.
func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= dotBits[x%2][y%4]
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

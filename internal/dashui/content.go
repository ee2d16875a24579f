package dashui

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/f1dash/internal/render"
	"github.com/verte-zerg/f1dash/internal/stats"
)

func selectionSummary(v stats.Views) string {
	if v.Matrix == nil {
		return "No dataset loaded."
	}
	return render.HeaderLine(v) + "  Matrix: " + v.Matrix.Mode().String()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.views.Matrix == nil {
		for i := range m.viewports {
			m.viewports[i].SetContent("Dataset not loaded.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	opts := render.Options{Width: width, PlotHeight: plotHeight, Color: true}
	v := m.views
	m.viewports[tabOverview].SetContent(renderOverview(v, width))
	m.viewports[tabStandings].SetContent(renderSection(v, func(w io.Writer) error { return render.Standings(w, v.Standings) }))
	m.viewports[tabTrajectory].SetContent(renderSection(v, func(w io.Writer) error { return render.Trajectory(w, v.Trajectory, opts) }))
	m.viewports[tabMatrix].SetContent(renderSection(v, func(w io.Writer) error { return render.Matrix(w, v.Matrix, opts) }))
	m.viewports[tabInsights].SetContent(renderSection(v, func(w io.Writer) error { return render.Insights(w, v.Insights) }))
}

func renderSection(v stats.Views, write func(io.Writer) error) string {
	if v.Empty() {
		return fmt.Sprintf("No races found for season %d.", v.Selection.Year)
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Sprintf("Failed to render view: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderOverview(v stats.Views, width int) string {
	if v.Empty() {
		return fmt.Sprintf("No races found for season %d.", v.Selection.Year)
	}
	cards := summaryCards(v, width)
	circuits := renderSection(v, func(w io.Writer) error { return render.Circuits(w, v.Circuits) })
	return strings.TrimRight(cards+"\n\n"+circuits, "\n")
}

func summaryCards(v stats.Views, width int) string {
	leader, leaderPoints := "-", "-"
	if !v.Standings.Empty() {
		top := v.Standings.Rows[0]
		leader = top.Code
		leaderPoints = strconv.FormatFloat(top.Points, 'f', -1, 64)
	}
	overtaker := "-"
	if len(v.Insights.Overtakers) > 0 {
		o := v.Insights.Overtakers[0]
		overtaker = fmt.Sprintf("%s +%d", o.Code, o.Gained)
	}
	fastest := "-"
	if len(v.Insights.FastestLaps) > 0 {
		lap := v.Insights.FastestLaps[0]
		fastest = fmt.Sprintf("%.1f km/h", lap.Speed)
	}
	cards := []string{
		metricCard("Races", strconv.Itoa(len(v.Races))),
		metricCard("Leader", leader),
		metricCard("Points", leaderPoints),
		metricCard("Top Overtaker", overtaker),
		metricCard("Fastest Lap", fastest),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func standingsColumns() []table.Column {
	return []table.Column{
		{Title: "Pos", Width: 4},
		{Title: "Driver", Width: 24},
		{Title: "Code", Width: 5},
		{Title: "Points", Width: 7},
		{Title: "Wins", Width: 5},
	}
}

func standingsRows(s stats.Standings) []table.Row {
	rows := make([]table.Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		pos := strconv.Itoa(r.Position)
		if r.Highlighted {
			pos = "*" + pos
		}
		rows = append(rows, table.Row{
			pos,
			r.DriverName,
			r.Code,
			strconv.FormatFloat(r.Points, 'f', -1, 64),
			strconv.Itoa(r.Wins),
		})
	}
	return rows
}

func buildStandingsTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(standingsColumns()),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(standingsTableStyles())
	return t
}

func standingsTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// Package dashui provides the Bubble Tea dashboard interface.
package dashui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/f1dash/internal/dashboard"
	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/stats"
)

const (
	tabOverview = iota
	tabStandings
	tabTrajectory
	tabMatrix
	tabInsights
)

const (
	plotHeight = 10
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#E10600"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea dashboard UI.
type Model struct {
	session *dashboard.Session
	seasons []int

	views  stats.Views
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	standings table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a dashboard model over a loaded session. Seasons is
// the list the year keys cycle through, newest first.
func NewModel(session *dashboard.Session, seasons []int) *Model {
	m := &Model{
		session: session,
		seasons: seasons,
		tabs:    []string{"Overview", "Standings", "Trajectory", "Matrix", "Insights"},
	}
	m.initInputs()
	m.initViewports()
	m.standings = buildStandingsTable(nil, 0, 1)
	m.apply(session.Views())
	return m
}

// Views returns the views currently displayed.
func (m *Model) Views() stats.Views {
	return m.views
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "y":
			m.apply(m.session.SetYear(m.stepSeason(1)))
			return m, nil
		case "Y":
			m.apply(m.session.SetYear(m.stepSeason(-1)))
			return m, nil
		case "c":
			m.apply(m.session.SetCircuit(model.CircuitID(stepOption(m.views.CircuitOptions, int(m.views.Selection.Circuit), 1))))
			return m, nil
		case "C":
			m.apply(m.session.SetCircuit(model.CircuitID(stepOption(m.views.CircuitOptions, int(m.views.Selection.Circuit), -1))))
			return m, nil
		case "d":
			m.apply(m.session.SetDriver(model.DriverID(stepOption(m.views.DriverOptions, int(m.views.Selection.Driver), 1))))
			return m, nil
		case "D":
			m.apply(m.session.SetDriver(model.DriverID(stepOption(m.views.DriverOptions, int(m.views.Selection.Driver), -1))))
			return m, nil
		case "x":
			m.apply(m.session.SetYear(m.views.Selection.Year))
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabStandings {
				m.standings.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabStandings {
				m.standings.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabStandings {
				var cmd tea.Cmd
				m.standings, cmd = m.standings.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// apply takes the result of a selection change. A failed recompute keeps
// the previous views on screen and reports the error in the footer.
func (m *Model) apply(views stats.Views, err error) {
	if err != nil {
		m.errMsg = err.Error()
		m.renderTabContents()
		return
	}
	m.errMsg = ""
	m.views = views
	m.standings.SetRows(standingsRows(views.Standings))
	m.standings.GotoTop()
	m.renderTabContents()
}

func (m *Model) stepSeason(delta int) int {
	year := m.views.Selection.Year
	if len(m.seasons) == 0 {
		return year
	}
	idx := -1
	for i, y := range m.seasons {
		if y == year {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m.seasons[0]
	}
	idx = (idx + delta + len(m.seasons)) % len(m.seasons)
	return m.seasons[idx]
}

// stepOption moves through "all" followed by the options, wrapping at both
// ends. An id not among the options restarts from "all".
func stepOption(options []stats.Option, current, delta int) int {
	if len(options) == 0 {
		return 0
	}
	idx := -1
	for i, o := range options {
		if o.ID == current {
			idx = i
			break
		}
	}
	n := len(options) + 1
	next := ((idx+1+delta)%n + n) % n
	if next == 0 {
		return 0
	}
	return options[next-1].ID
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.standings.SetWidth(m.width)
	m.standings.SetHeight(max(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabStandings {
		m.standings.Focus()
	} else {
		m.standings.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := headerStyle.Render(truncateLine(selectionSummary(m.views), m.width))
	return tabs + "\n" + padLines(summary, m.width)
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Year: y/Y  Circuit: c/C  Driver: d/D  Clear: x  Filter: /  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.renderFilterHelp()
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabStandings && !m.views.Standings.Empty() {
		return fitLines(tableMutedStyle.Render(m.standings.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

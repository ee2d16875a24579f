package dashui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/f1dash/internal/dashboard"
	"github.com/verte-zerg/f1dash/internal/selection"
)

const (
	fieldYear = iota
	fieldCircuit
	fieldDriver
)

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Year: "),
		newFilterInput("Circuit (id, name or all): "),
		newFilterInput("Driver (id, name or all): "),
	}
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromSelection() {
	sel := m.views.Selection
	m.filterInputs[fieldYear].SetValue(strconv.Itoa(sel.Year))
	m.filterInputs[fieldCircuit].SetValue(selection.FormatID(int(sel.Circuit)))
	m.filterInputs[fieldDriver].SetValue(selection.FormatID(int(sel.Driver)))
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromSelection()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// applyFilter resolves the form against the requested season. Names are
// looked up among that season's circuits and drivers, so the year is
// applied first.
func (m *Model) applyFilter() error {
	yearInput := strings.TrimSpace(m.filterInputs[fieldYear].Value())
	year, err := strconv.Atoi(yearInput)
	if err != nil || year <= 0 {
		return fmt.Errorf("invalid year %q", yearInput)
	}
	sel := selection.New(year)
	season, err := m.session.ViewsFor(sel)
	if err != nil {
		return err
	}
	circuit, err := dashboard.ResolveCircuit(season, m.filterInputs[fieldCircuit].Value())
	if err != nil {
		return err
	}
	sel.SetCircuit(circuit)
	driver, err := dashboard.ResolveDriver(season, m.filterInputs[fieldDriver].Value())
	if err != nil {
		return err
	}
	sel.SetDriver(driver)
	m.apply(m.session.Select(sel))
	return nil
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Selection (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFilterHelp() string {
	return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
}

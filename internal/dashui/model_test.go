package dashui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/f1dash/internal/dashboard"
	"github.com/verte-zerg/f1dash/internal/logging"
	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/selection"
	"github.com/verte-zerg/f1dash/internal/stats"
)

func sampleTables() model.Tables {
	return model.Tables{
		Races: []model.Race{
			{ID: 1, Year: 2021, Round: 1, CircuitID: 10, Name: "Bahrain Grand Prix"},
			{ID: 2, Year: 2021, Round: 2, CircuitID: 20, Name: "Emilia Romagna Grand Prix"},
			{ID: 3, Year: 2020, Round: 1, CircuitID: 10, Name: "Bahrain Grand Prix"},
		},
		Drivers: []model.Driver{
			{ID: 1, Forename: "Lewis", Surname: "Hamilton", Code: "HAM"},
			{ID: 830, Forename: "Max", Surname: "Verstappen", Code: "VER"},
		},
		Circuits: []model.Circuit{
			{ID: 10, Name: "Bahrain International Circuit"},
			{ID: 20, Name: "Autodromo Enzo e Dino Ferrari"},
		},
		Results: []model.Result{
			{RaceID: 1, DriverID: 1, Grid: 2, PositionOrder: 1, Points: 25, StatusID: 1},
			{RaceID: 1, DriverID: 830, Grid: 1, PositionOrder: 2, Points: 18, StatusID: 1},
			{RaceID: 2, DriverID: 830, Grid: 3, PositionOrder: 1, Points: 25, StatusID: 1},
			{RaceID: 2, DriverID: 1, Grid: 1, PositionOrder: 2, Points: 19, StatusID: 1},
			{RaceID: 3, DriverID: 1, Grid: 1, PositionOrder: 1, Points: 25, StatusID: 1},
		},
		DriverStandings: []model.DriverStanding{
			{RaceID: 2, DriverID: 1, Position: 1, Points: 44, Wins: 1},
			{RaceID: 2, DriverID: 830, Position: 2, Points: 43, Wins: 1},
		},
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	session := dashboard.New(selection.New(2021), logging.Nop())
	require.NoError(t, session.Load(context.Background(), func(context.Context) (model.Tables, error) {
		return sampleTables(), nil
	}))
	seasons, err := session.Seasons(0, 0)
	require.NoError(t, err)
	m := NewModel(session, seasons)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func press(m *Model, key string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

func TestModelRendersSelection(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "Season 2021")
	assert.Contains(t, view, "Matrix: SEASON")
	assert.Len(t, strings.Split(view, "\n"), 40)
}

func TestModelCyclesCircuitAndDriver(t *testing.T) {
	m := newTestModel(t)

	press(m, "c")
	assert.Equal(t, model.CircuitID(20), m.Views().Selection.Circuit)
	assert.Equal(t, stats.ModeCircuit, m.Views().Matrix.Mode())

	press(m, "C")
	assert.Equal(t, model.AllCircuits, m.Views().Selection.Circuit)
	press(m, "C")
	assert.Equal(t, model.CircuitID(10), m.Views().Selection.Circuit)

	press(m, "d")
	assert.Equal(t, model.DriverID(1), m.Views().Selection.Driver)
	assert.Equal(t, stats.ModeDriverCircuit, m.Views().Matrix.Mode())

	press(m, "x")
	assert.Equal(t, selection.New(2021), m.Views().Selection)
}

func TestModelCyclesSeasons(t *testing.T) {
	m := newTestModel(t)
	press(m, "d")
	press(m, "y")
	assert.Equal(t, selection.New(2020), m.Views().Selection)
	press(m, "y")
	assert.Equal(t, 2021, m.Views().Selection.Year)
	press(m, "Y")
	assert.Equal(t, 2020, m.Views().Selection.Year)
}

func TestModelTabsWrap(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabStandings, m.activeTab)
	assert.Contains(t, m.View(), "Verstappen")
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabInsights, m.activeTab)
}

func TestModelFilterFormAppliesSelection(t *testing.T) {
	m := newTestModel(t)
	press(m, "/")
	require.True(t, m.filterMode)
	assert.Equal(t, "2021", m.filterInputs[fieldYear].Value())
	assert.Equal(t, "all", m.filterInputs[fieldCircuit].Value())

	m.filterInputs[fieldCircuit].SetValue("bahrain")
	m.filterInputs[fieldDriver].SetValue("verstappen")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.filterMode)
	assert.Equal(t, model.CircuitID(10), m.Views().Selection.Circuit)
	assert.Equal(t, model.DriverID(830), m.Views().Selection.Driver)
}

func TestModelFilterFormRejectsUnknownDriver(t *testing.T) {
	m := newTestModel(t)
	press(m, "/")
	m.filterInputs[fieldYear].SetValue("2020")
	m.filterInputs[fieldDriver].SetValue("senna")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.filterMode)
	assert.Contains(t, m.filterError, "senna")
	assert.Equal(t, selection.New(2021), m.Views().Selection)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filterMode)
}

func TestModelWithoutDatasetShowsError(t *testing.T) {
	session := dashboard.New(selection.Default(), logging.Nop())
	m := NewModel(session, nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})

	assert.Contains(t, m.View(), "dataset not loaded")
	press(m, "c")
	assert.Contains(t, m.errMsg, "dataset not loaded")
}

func TestStepOption(t *testing.T) {
	options := []stats.Option{{ID: 5}, {ID: 9}}
	assert.Equal(t, 5, stepOption(options, 0, 1))
	assert.Equal(t, 9, stepOption(options, 5, 1))
	assert.Equal(t, 0, stepOption(options, 9, 1))
	assert.Equal(t, 9, stepOption(options, 0, -1))
	assert.Equal(t, 5, stepOption(options, 42, 1))
	assert.Equal(t, 0, stepOption(nil, 5, 1))
}

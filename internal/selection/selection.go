// Package selection holds the dashboard filter state.
package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/f1dash/internal/model"
)

// DefaultYear is the season shown on startup.
const DefaultYear = 2023

// AllToken is the textual form of the "all" sentinel.
const AllToken = "all"

// State is the current filter. Circuit and Driver use the model.All* zero
// values to mean no filter.
type State struct {
	Year    int
	Circuit model.CircuitID
	Driver  model.DriverID
}

// Default returns the startup selection.
func Default() State {
	return New(DefaultYear)
}

// New returns a selection of the given year with circuit and driver unset.
func New(year int) State {
	return State{Year: year, Circuit: model.AllCircuits, Driver: model.AllDrivers}
}

// SetYear changes the season and resets circuit and driver.
func (s *State) SetYear(year int) {
	s.Year = year
	s.Circuit = model.AllCircuits
	s.Driver = model.AllDrivers
}

// SetCircuit changes the circuit filter; model.AllCircuits clears it.
func (s *State) SetCircuit(id model.CircuitID) {
	s.Circuit = id
}

// SetDriver changes the driver filter; model.AllDrivers clears it.
func (s *State) SetDriver(id model.DriverID) {
	s.Driver = id
}

// CircuitSelected reports whether a circuit filter is active.
func (s State) CircuitSelected() bool {
	return s.Circuit != model.AllCircuits
}

// DriverSelected reports whether a driver filter is active.
func (s State) DriverSelected() bool {
	return s.Driver != model.AllDrivers
}

// String renders the selection for headers and logs.
func (s State) String() string {
	return fmt.Sprintf("year=%d circuit=%s driver=%s", s.Year, FormatID(int(s.Circuit)), FormatID(int(s.Driver)))
}

// FormatID renders an id, using AllToken for the sentinel.
func FormatID(id int) string {
	if id == 0 {
		return AllToken
	}
	return strconv.Itoa(id)
}

// ParseID parses a positive id or AllToken; empty input means all.
func ParseID(input string) (int, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" || input == AllToken {
		return 0, nil
	}
	id, err := strconv.Atoi(input)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q (use a positive integer or %q)", input, AllToken)
	}
	return id, nil
}

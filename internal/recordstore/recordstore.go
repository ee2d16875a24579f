// Package recordstore holds the loaded dataset and its lookup indices.
package recordstore

import (
	"github.com/verte-zerg/f1dash/internal/model"
)

// Store is an immutable, indexed view of a dataset snapshot.
// Accessors returning slices hand out fresh copies.
type Store struct {
	tables model.Tables

	races    map[model.RaceID]model.Race
	drivers  map[model.DriverID]model.Driver
	circuits map[model.CircuitID]model.Circuit
	statuses map[model.StatusID]string
}

// New copies the tables and builds the id indices.
func New(tables model.Tables) *Store {
	s := &Store{
		tables: model.Tables{
			Races:           cloneSlice(tables.Races),
			Results:         cloneSlice(tables.Results),
			Drivers:         cloneSlice(tables.Drivers),
			Circuits:        cloneSlice(tables.Circuits),
			DriverStandings: cloneSlice(tables.DriverStandings),
			PitStops:        cloneSlice(tables.PitStops),
			Statuses:        cloneSlice(tables.Statuses),
		},
		races:    make(map[model.RaceID]model.Race, len(tables.Races)),
		drivers:  make(map[model.DriverID]model.Driver, len(tables.Drivers)),
		circuits: make(map[model.CircuitID]model.Circuit, len(tables.Circuits)),
		statuses: make(map[model.StatusID]string, len(tables.Statuses)),
	}
	for _, r := range s.tables.Races {
		s.races[r.ID] = r
	}
	for _, d := range s.tables.Drivers {
		s.drivers[d.ID] = d
	}
	for _, c := range s.tables.Circuits {
		s.circuits[c.ID] = c
	}
	for _, st := range s.tables.Statuses {
		s.statuses[st.ID] = st.Label
	}
	return s
}

// Races returns every race.
func (s *Store) Races() []model.Race {
	return cloneSlice(s.tables.Races)
}

// Results returns every result.
func (s *Store) Results() []model.Result {
	return cloneSlice(s.tables.Results)
}

// DriverStandings returns every standings row.
func (s *Store) DriverStandings() []model.DriverStanding {
	return cloneSlice(s.tables.DriverStandings)
}

// PitStops returns every pit stop.
func (s *Store) PitStops() []model.PitStop {
	return cloneSlice(s.tables.PitStops)
}

// Tables returns a copy of the underlying tables.
func (s *Store) Tables() model.Tables {
	return model.Tables{
		Races:           s.Races(),
		Results:         s.Results(),
		Drivers:         cloneSlice(s.tables.Drivers),
		Circuits:        cloneSlice(s.tables.Circuits),
		DriverStandings: s.DriverStandings(),
		PitStops:        s.PitStops(),
		Statuses:        cloneSlice(s.tables.Statuses),
	}
}

// Race looks up a race by id.
func (s *Store) Race(id model.RaceID) (model.Race, bool) {
	r, ok := s.races[id]
	return r, ok
}

// Driver looks up a driver by id.
func (s *Store) Driver(id model.DriverID) (model.Driver, bool) {
	d, ok := s.drivers[id]
	return d, ok
}

// Circuit looks up a circuit by id.
func (s *Store) Circuit(id model.CircuitID) (model.Circuit, bool) {
	c, ok := s.circuits[id]
	return c, ok
}

// StatusLabel looks up the label of a status code.
func (s *Store) StatusLabel(id model.StatusID) (string, bool) {
	label, ok := s.statuses[id]
	return label, ok
}

// Counts reports the number of rows per table, keyed by table name.
func (s *Store) Counts() map[string]int {
	return map[string]int{
		"races":            len(s.tables.Races),
		"results":          len(s.tables.Results),
		"drivers":          len(s.tables.Drivers),
		"circuits":         len(s.tables.Circuits),
		"driver_standings": len(s.tables.DriverStandings),
		"pit_stops":        len(s.tables.PitStops),
		"status":           len(s.tables.Statuses),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

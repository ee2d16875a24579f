// Package model defines shared data structures.
package model

import (
	"database/sql"
	"strings"
)

// RaceID identifies a race.
type RaceID int

// DriverID identifies a driver.
type DriverID int

// CircuitID identifies a circuit.
type CircuitID int

// StatusID identifies a result status code.
type StatusID int

// Zero ids never occur in the dataset and stand for "all" in a selection.
const (
	AllCircuits CircuitID = 0
	AllDrivers  DriverID  = 0
)

// PitLaneGrid is the grid value recorded for a pit-lane start.
const PitLaneGrid = 0

// incidentStatuses lists the retirement statuses counted as incidents:
// accident, collision, spun off, fatal accident.
var incidentStatuses = map[StatusID]struct{}{
	3:   {},
	4:   {},
	20:  {},
	104: {},
}

// IsIncident reports whether a status is a retirement due to an incident.
func IsIncident(id StatusID) bool {
	_, ok := incidentStatuses[id]
	return ok
}

// Race is one event of a season.
type Race struct {
	ID        RaceID
	Year      int
	Round     int
	CircuitID CircuitID
	Name      string
}

// Result is a driver's classification in a race.
type Result struct {
	RaceID          RaceID
	DriverID        DriverID
	Grid            int
	PositionOrder   int
	Points          float64
	StatusID        StatusID
	FastestLapRank  int
	FastestLapSpeed sql.NullFloat64
	FastestLapTime  string
}

// PitLaneStart reports whether the driver started from the pit lane.
func (r Result) PitLaneStart() bool {
	return r.Grid == PitLaneGrid
}

// Driver holds driver identity.
type Driver struct {
	ID       DriverID
	Forename string
	Surname  string
	Code     string
}

// FullName returns "Forename Surname".
func (d Driver) FullName() string {
	return strings.TrimSpace(d.Forename + " " + d.Surname)
}

// DisplayCode returns the three-letter code, derived from the surname when absent.
func (d Driver) DisplayCode() string {
	if d.Code != "" {
		return d.Code
	}
	runes := []rune(strings.ToUpper(strings.ReplaceAll(d.Surname, " ", "")))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}

// Circuit is a venue.
type Circuit struct {
	ID       CircuitID
	Name     string
	Location string
	Country  string
	Lat      float64
	Lng      float64
}

// DriverStanding is the championship snapshot for a driver after a race.
type DriverStanding struct {
	RaceID   RaceID
	DriverID DriverID
	Position int
	Points   float64
	Wins     int
}

// PitStop is a single stop made during a race.
type PitStop struct {
	RaceID     RaceID
	DriverID   DriverID
	Stop       int
	Lap        int
	Time       string
	DurationMs int
}

// Status maps a status code to its label.
type Status struct {
	ID    StatusID
	Label string
}

// Tables holds every parsed table of a dataset snapshot.
type Tables struct {
	Races           []Race
	Results         []Result
	Drivers         []Driver
	Circuits        []Circuit
	DriverStandings []DriverStanding
	PitStops        []PitStop
	Statuses        []Status
}

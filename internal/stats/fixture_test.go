package stats

import (
	"database/sql"

	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/recordstore"
)

const (
	ham model.DriverID = 1
	ver model.DriverID = 2
	lec model.DriverID = 3
	nor model.DriverID = 4
	per model.DriverID = 5
)

const (
	sakhir  model.CircuitID = 1
	jeddah  model.CircuitID = 2
	monaco  model.CircuitID = 3
	unknown model.CircuitID = 99
)

func speed(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

// fixtureTables describes a three-round 2022 season (two rounds at Sakhir)
// and one 2021 race at Sakhir.
func fixtureTables() model.Tables {
	return model.Tables{
		Races: []model.Race{
			{ID: 103, Year: 2022, Round: 3, CircuitID: sakhir, Name: "Sakhir Grand Prix"},
			{ID: 101, Year: 2022, Round: 1, CircuitID: sakhir, Name: "Bahrain Grand Prix"},
			{ID: 90, Year: 2021, Round: 1, CircuitID: sakhir, Name: "Bahrain Grand Prix"},
			{ID: 102, Year: 2022, Round: 2, CircuitID: jeddah, Name: "Saudi Arabian Grand Prix"},
		},
		Drivers: []model.Driver{
			{ID: ham, Forename: "Lewis", Surname: "Hamilton", Code: "HAM"},
			{ID: ver, Forename: "Max", Surname: "Verstappen", Code: "VER"},
			{ID: lec, Forename: "Charles", Surname: "Leclerc", Code: "LEC"},
			{ID: nor, Forename: "Lando", Surname: "Norris", Code: "NOR"},
			{ID: per, Forename: "Sergio", Surname: "Pérez", Code: "PER"},
		},
		Circuits: []model.Circuit{
			{ID: sakhir, Name: "Bahrain International Circuit", Location: "Sakhir", Country: "Bahrain"},
			{ID: jeddah, Name: "Jeddah Corniche Circuit", Location: "Jeddah", Country: "Saudi Arabia"},
			{ID: monaco, Name: "Circuit de Monaco", Location: "Monte-Carlo", Country: "Monaco"},
		},
		Results: []model.Result{
			{RaceID: 90, DriverID: ham, Grid: 2, PositionOrder: 1, Points: 25, StatusID: 1},
			{RaceID: 90, DriverID: ver, Grid: 1, PositionOrder: 2, Points: 18, StatusID: 1},

			{RaceID: 101, DriverID: ver, Grid: 1, PositionOrder: 1, Points: 25, StatusID: 1, FastestLapRank: 1, FastestLapSpeed: speed(210.5), FastestLapTime: "1:34.570"},
			{RaceID: 101, DriverID: ham, Grid: 3, PositionOrder: 2, Points: 18, StatusID: 1, FastestLapRank: 2, FastestLapSpeed: speed(209.1)},
			{RaceID: 101, DriverID: lec, Grid: 2, PositionOrder: 3, Points: 15, StatusID: 1},
			{RaceID: 101, DriverID: nor, Grid: 0, PositionOrder: 4, Points: 12, StatusID: 1},
			{RaceID: 101, DriverID: per, Grid: 5, PositionOrder: 5, Points: 0, StatusID: 4},

			{RaceID: 102, DriverID: lec, Grid: 1, PositionOrder: 1, Points: 25, StatusID: 1, FastestLapRank: 1, FastestLapSpeed: speed(230.1), FastestLapTime: "1:30.734"},
			{RaceID: 102, DriverID: ver, Grid: 2, PositionOrder: 2, Points: 18, StatusID: 1},
			{RaceID: 102, DriverID: ham, Grid: 4, PositionOrder: 3, Points: 15, StatusID: 1},
			{RaceID: 102, DriverID: nor, Grid: 3, PositionOrder: 4, Points: 12, StatusID: 1},

			{RaceID: 103, DriverID: ver, Grid: 1, PositionOrder: 1, Points: 26, StatusID: 1, FastestLapRank: 1, FastestLapSpeed: speed(220.0)},
			{RaceID: 103, DriverID: nor, Grid: 5, PositionOrder: 2, Points: 18, StatusID: 1},
			{RaceID: 103, DriverID: ham, Grid: 2, PositionOrder: 3, Points: 15, StatusID: 1},
			{RaceID: 103, DriverID: per, Grid: 4, PositionOrder: 4, Points: 12, StatusID: 1},
			{RaceID: 103, DriverID: lec, Grid: 3, PositionOrder: 5, Points: 10, StatusID: 3},
		},
		DriverStandings: []model.DriverStanding{
			{RaceID: 101, DriverID: ver, Position: 1, Points: 25, Wins: 1},
			{RaceID: 101, DriverID: ham, Position: 2, Points: 18},
			{RaceID: 103, DriverID: lec, Position: 2, Points: 50, Wins: 1},
			{RaceID: 103, DriverID: ver, Position: 1, Points: 69, Wins: 2},
			{RaceID: 103, DriverID: nor, Position: 4, Points: 42},
			{RaceID: 103, DriverID: ham, Position: 3, Points: 48},
			{RaceID: 103, DriverID: per, Position: 5, Points: 12},
		},
		PitStops: []model.PitStop{
			{RaceID: 101, DriverID: ver, Stop: 1, Lap: 15},
			{RaceID: 101, DriverID: ver, Stop: 2, Lap: 35},
			{RaceID: 102, DriverID: lec, Stop: 1, Lap: 20},
			{RaceID: 90, DriverID: ham, Stop: 1, Lap: 18},
		},
		Statuses: []model.Status{
			{ID: 1, Label: "Finished"},
			{ID: 3, Label: "Accident"},
			{ID: 4, Label: "Collision"},
		},
	}
}

func fixtureStore() *recordstore.Store {
	return recordstore.New(fixtureTables())
}

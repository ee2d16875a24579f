// Package ingest reads the CSV dataset into typed tables.
package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/f1dash/internal/model"
)

// Null is the dataset's marker for an absent value.
const Null = `\N`

// ErrMissingColumn is returned when a CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// ErrMissingValue is returned when a required numeric field is Null or empty.
var ErrMissingValue = errors.New("missing value")

// CSV file names of the dataset tables.
const (
	RacesFile           = "races.csv"
	ResultsFile         = "results.csv"
	DriversFile         = "drivers.csv"
	CircuitsFile        = "circuits.csv"
	DriverStandingsFile = "driver_standings.csv"
	PitStopsFile        = "pit_stops.csv"
	StatusFile          = "status.csv"
)

// Files lists every CSV file Load reads.
var Files = []string{
	RacesFile,
	ResultsFile,
	DriversFile,
	CircuitsFile,
	DriverStandingsFile,
	PitStopsFile,
	StatusFile,
}

// Load reads all tables from dir concurrently. Either every table loads or
// the first error is returned and no tables are.
func Load(ctx context.Context, dir string) (model.Tables, error) {
	if dir == "" {
		return model.Tables{}, fmt.Errorf("data directory is required")
	}
	var t model.Tables
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		t.Races, err = loadFile(ctx, dir, RacesFile, parseRace)
		return err
	})
	g.Go(func() (err error) {
		t.Results, err = loadFile(ctx, dir, ResultsFile, parseResult)
		return err
	})
	g.Go(func() (err error) {
		t.Drivers, err = loadFile(ctx, dir, DriversFile, parseDriver)
		return err
	})
	g.Go(func() (err error) {
		t.Circuits, err = loadFile(ctx, dir, CircuitsFile, parseCircuit)
		return err
	})
	g.Go(func() (err error) {
		t.DriverStandings, err = loadFile(ctx, dir, DriverStandingsFile, parseDriverStanding)
		return err
	})
	g.Go(func() (err error) {
		t.PitStops, err = loadFile(ctx, dir, PitStopsFile, parsePitStop)
		return err
	})
	g.Go(func() (err error) {
		t.Statuses, err = loadFile(ctx, dir, StatusFile, parseStatus)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Tables{}, err
	}
	return t, nil
}

func loadFile[T any](ctx context.Context, dir, name string, parse func(*row) T) ([]T, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()
	out, err := decode(ctx, f, name, parse)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return out, nil
}

// decode parses CSV from r, mapping every data row through parse.
func decode[T any](ctx context.Context, r io.Reader, name string, parse func(*row) T) ([]T, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, err
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		columns[h] = i
	}
	for _, col := range requiredColumns[name] {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	out := make([]T, 0)
	rw := &row{columns: columns}
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rw.record = record
		rw.line = line
		v := parse(rw)
		if rw.err != nil {
			return nil, rw.err
		}
		out = append(out, v)
	}
	return out, nil
}

var requiredColumns = map[string][]string{
	RacesFile:           {"raceId", "year", "round", "circuitId", "name"},
	ResultsFile:         {"raceId", "driverId", "grid", "positionOrder", "points", "statusId", "rank", "fastestLapTime", "fastestLapSpeed"},
	DriversFile:         {"driverId", "code", "forename", "surname"},
	CircuitsFile:        {"circuitId", "name", "location", "country", "lat", "lng"},
	DriverStandingsFile: {"raceId", "driverId", "points", "position", "wins"},
	PitStopsFile:        {"raceId", "driverId", "stop", "lap", "time", "milliseconds"},
	StatusFile:          {"statusId", "status"},
}

// row reads typed fields from the current record. The first conversion
// error sticks and is reported by decode.
type row struct {
	columns map[string]int
	record  []string
	line    int
	err     error
}

func (r *row) raw(col string) string {
	i, ok := r.columns[col]
	if !ok || i >= len(r.record) {
		return Null
	}
	return strings.TrimSpace(r.record[i])
}

func (r *row) fail(col, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d: column %s: invalid value %q: %w", r.line, col, value, err)
	}
}

// text returns the field, with Null mapped to "".
func (r *row) text(col string) string {
	v := r.raw(col)
	if v == Null {
		return ""
	}
	return v
}

// integer returns a required integer field. Null and empty are errors.
func (r *row) integer(col string) int {
	v := r.raw(col)
	if v == Null || v == "" {
		r.fail(col, v, ErrMissingValue)
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(col, v, err)
	}
	return n
}

// optInteger returns the field as an integer; Null and empty map to 0.
func (r *row) optInteger(col string) int {
	v := r.raw(col)
	if v == Null || v == "" {
		return 0
	}
	return r.integer(col)
}

func (r *row) decimal(col string) float64 {
	v := r.optDecimal(col)
	if !v.Valid && r.err == nil {
		r.fail(col, r.raw(col), ErrMissingValue)
	}
	return v.Float64
}

func (r *row) optDecimal(col string) sql.NullFloat64 {
	v := r.raw(col)
	if v == Null || v == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.fail(col, v, err)
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func parseRace(r *row) model.Race {
	return model.Race{
		ID:        model.RaceID(r.integer("raceId")),
		Year:      r.integer("year"),
		Round:     r.integer("round"),
		CircuitID: model.CircuitID(r.integer("circuitId")),
		Name:      r.text("name"),
	}
}

func parseResult(r *row) model.Result {
	return model.Result{
		RaceID:          model.RaceID(r.integer("raceId")),
		DriverID:        model.DriverID(r.integer("driverId")),
		Grid:            r.integer("grid"),
		PositionOrder:   r.integer("positionOrder"),
		Points:          r.decimal("points"),
		StatusID:        model.StatusID(r.integer("statusId")),
		FastestLapRank:  r.optInteger("rank"),
		FastestLapSpeed: r.optDecimal("fastestLapSpeed"),
		FastestLapTime:  r.text("fastestLapTime"),
	}
}

func parseDriver(r *row) model.Driver {
	return model.Driver{
		ID:       model.DriverID(r.integer("driverId")),
		Forename: r.text("forename"),
		Surname:  r.text("surname"),
		Code:     r.text("code"),
	}
}

func parseCircuit(r *row) model.Circuit {
	return model.Circuit{
		ID:       model.CircuitID(r.integer("circuitId")),
		Name:     r.text("name"),
		Location: r.text("location"),
		Country:  r.text("country"),
		Lat:      r.decimal("lat"),
		Lng:      r.decimal("lng"),
	}
}

func parseDriverStanding(r *row) model.DriverStanding {
	return model.DriverStanding{
		RaceID:   model.RaceID(r.integer("raceId")),
		DriverID: model.DriverID(r.integer("driverId")),
		Position: r.integer("position"),
		Points:   r.decimal("points"),
		Wins:     r.integer("wins"),
	}
}

func parsePitStop(r *row) model.PitStop {
	return model.PitStop{
		RaceID:     model.RaceID(r.integer("raceId")),
		DriverID:   model.DriverID(r.integer("driverId")),
		Stop:       r.integer("stop"),
		Lap:        r.integer("lap"),
		Time:       r.text("time"),
		DurationMs: r.integer("milliseconds"),
	}
}

func parseStatus(r *row) model.Status {
	return model.Status{
		ID:    model.StatusID(r.integer("statusId")),
		Label: r.text("status"),
	}
}

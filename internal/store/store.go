// Package store keeps an imported dataset snapshot in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/f1dash/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for the dataset snapshot.
type Store struct {
	db *sql.DB
}

// Import describes the snapshot currently held by the store.
type Import struct {
	ImportedAt time.Time
	Source     string
	Races      int
	Results    int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS races (
			id INTEGER PRIMARY KEY,
			year INTEGER NOT NULL,
			round INTEGER NOT NULL,
			circuit_id INTEGER NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			race_id INTEGER NOT NULL,
			driver_id INTEGER NOT NULL,
			grid INTEGER NOT NULL,
			position_order INTEGER NOT NULL,
			points REAL NOT NULL,
			status_id INTEGER NOT NULL,
			fastest_lap_rank INTEGER NOT NULL,
			fastest_lap_speed REAL,
			fastest_lap_time TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS drivers (
			id INTEGER PRIMARY KEY,
			forename TEXT NOT NULL,
			surname TEXT NOT NULL,
			code TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS circuits (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			location TEXT NOT NULL,
			country TEXT NOT NULL,
			lat REAL NOT NULL,
			lng REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS driver_standings (
			race_id INTEGER NOT NULL,
			driver_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			points REAL NOT NULL,
			wins INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pit_stops (
			race_id INTEGER NOT NULL,
			driver_id INTEGER NOT NULL,
			stop INTEGER NOT NULL,
			lap INTEGER NOT NULL,
			time TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS statuses (
			id INTEGER PRIMARY KEY,
			label TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS imports (
			id INTEGER PRIMARY KEY,
			imported_at TEXT NOT NULL,
			source TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_races_year ON races(year);`,
		`CREATE INDEX IF NOT EXISTS idx_results_race ON results(race_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

var snapshotTables = []string{"races", "results", "drivers", "circuits", "driver_standings", "pit_stops", "statuses"}

// ImportTables replaces the stored snapshot with tables in one transaction.
func (s *Store) ImportTables(ctx context.Context, tables model.Tables, source string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	for _, table := range snapshotTables {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err = insertRows(ctx, tx, `INSERT INTO races (id, year, round, circuit_id, name) VALUES (?, ?, ?, ?, ?)`,
		tables.Races, func(r model.Race) []any {
			return []any{r.ID, r.Year, r.Round, r.CircuitID, r.Name}
		}); err != nil {
		return fmt.Errorf("failed to import races: %w", err)
	}
	if err = insertRows(ctx, tx, `INSERT INTO results (race_id, driver_id, grid, position_order, points, status_id, fastest_lap_rank, fastest_lap_speed, fastest_lap_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tables.Results, func(r model.Result) []any {
			return []any{r.RaceID, r.DriverID, r.Grid, r.PositionOrder, r.Points, r.StatusID, r.FastestLapRank, r.FastestLapSpeed, r.FastestLapTime}
		}); err != nil {
		return fmt.Errorf("failed to import results: %w", err)
	}
	if err = insertRows(ctx, tx, `INSERT INTO drivers (id, forename, surname, code) VALUES (?, ?, ?, ?)`,
		tables.Drivers, func(d model.Driver) []any {
			return []any{d.ID, d.Forename, d.Surname, d.Code}
		}); err != nil {
		return fmt.Errorf("failed to import drivers: %w", err)
	}
	if err = insertRows(ctx, tx, `INSERT INTO circuits (id, name, location, country, lat, lng) VALUES (?, ?, ?, ?, ?, ?)`,
		tables.Circuits, func(c model.Circuit) []any {
			return []any{c.ID, c.Name, c.Location, c.Country, c.Lat, c.Lng}
		}); err != nil {
		return fmt.Errorf("failed to import circuits: %w", err)
	}
	if err = insertRows(ctx, tx, `INSERT INTO driver_standings (race_id, driver_id, position, points, wins) VALUES (?, ?, ?, ?, ?)`,
		tables.DriverStandings, func(ds model.DriverStanding) []any {
			return []any{ds.RaceID, ds.DriverID, ds.Position, ds.Points, ds.Wins}
		}); err != nil {
		return fmt.Errorf("failed to import driver standings: %w", err)
	}
	if err = insertRows(ctx, tx, `INSERT INTO pit_stops (race_id, driver_id, stop, lap, time, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
		tables.PitStops, func(p model.PitStop) []any {
			return []any{p.RaceID, p.DriverID, p.Stop, p.Lap, p.Time, p.DurationMs}
		}); err != nil {
		return fmt.Errorf("failed to import pit stops: %w", err)
	}
	if err = insertRows(ctx, tx, `INSERT INTO statuses (id, label) VALUES (?, ?)`,
		tables.Statuses, func(st model.Status) []any {
			return []any{st.ID, st.Label}
		}); err != nil {
		return fmt.Errorf("failed to import statuses: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `INSERT INTO imports (imported_at, source) VALUES (?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), source); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRows[T any](ctx context.Context, tx *sql.Tx, query string, items []T, args func(T) []any) error {
	if len(items) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, args(item)...); err != nil {
			return err
		}
	}
	return nil
}

// LoadTables reads the stored snapshot back into tables.
func (s *Store) LoadTables(ctx context.Context) (model.Tables, error) {
	var t model.Tables
	var err error
	if t.Races, err = queryRows(ctx, s.db, `SELECT id, year, round, circuit_id, name FROM races ORDER BY id`,
		func(rows *sql.Rows) (r model.Race, err error) {
			err = rows.Scan(&r.ID, &r.Year, &r.Round, &r.CircuitID, &r.Name)
			return r, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load races: %w", err)
	}
	if t.Results, err = queryRows(ctx, s.db, `SELECT race_id, driver_id, grid, position_order, points, status_id, fastest_lap_rank, fastest_lap_speed, fastest_lap_time
		FROM results ORDER BY rowid`,
		func(rows *sql.Rows) (r model.Result, err error) {
			err = rows.Scan(&r.RaceID, &r.DriverID, &r.Grid, &r.PositionOrder, &r.Points, &r.StatusID, &r.FastestLapRank, &r.FastestLapSpeed, &r.FastestLapTime)
			return r, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load results: %w", err)
	}
	if t.Drivers, err = queryRows(ctx, s.db, `SELECT id, forename, surname, code FROM drivers ORDER BY id`,
		func(rows *sql.Rows) (d model.Driver, err error) {
			err = rows.Scan(&d.ID, &d.Forename, &d.Surname, &d.Code)
			return d, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load drivers: %w", err)
	}
	if t.Circuits, err = queryRows(ctx, s.db, `SELECT id, name, location, country, lat, lng FROM circuits ORDER BY id`,
		func(rows *sql.Rows) (c model.Circuit, err error) {
			err = rows.Scan(&c.ID, &c.Name, &c.Location, &c.Country, &c.Lat, &c.Lng)
			return c, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load circuits: %w", err)
	}
	if t.DriverStandings, err = queryRows(ctx, s.db, `SELECT race_id, driver_id, position, points, wins FROM driver_standings ORDER BY rowid`,
		func(rows *sql.Rows) (ds model.DriverStanding, err error) {
			err = rows.Scan(&ds.RaceID, &ds.DriverID, &ds.Position, &ds.Points, &ds.Wins)
			return ds, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load driver standings: %w", err)
	}
	if t.PitStops, err = queryRows(ctx, s.db, `SELECT race_id, driver_id, stop, lap, time, duration_ms FROM pit_stops ORDER BY rowid`,
		func(rows *sql.Rows) (p model.PitStop, err error) {
			err = rows.Scan(&p.RaceID, &p.DriverID, &p.Stop, &p.Lap, &p.Time, &p.DurationMs)
			return p, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load pit stops: %w", err)
	}
	if t.Statuses, err = queryRows(ctx, s.db, `SELECT id, label FROM statuses ORDER BY id`,
		func(rows *sql.Rows) (st model.Status, err error) {
			err = rows.Scan(&st.ID, &st.Label)
			return st, err
		}); err != nil {
		return model.Tables{}, fmt.Errorf("failed to load statuses: %w", err)
	}
	return t, nil
}

func queryRows[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LastImport reports when the snapshot was imported and how large it is.
// ok is false when nothing has been imported yet.
func (s *Store) LastImport(ctx context.Context) (info Import, ok bool, err error) {
	var importedAt string
	err = s.db.QueryRowContext(ctx, `SELECT imported_at, source FROM imports ORDER BY id DESC LIMIT 1`).Scan(&importedAt, &info.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, false, nil
	}
	if err != nil {
		return Import{}, false, err
	}
	if info.ImportedAt, err = time.Parse(time.RFC3339Nano, importedAt); err != nil {
		return Import{}, false, err
	}
	if err = s.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM races), (SELECT COUNT(*) FROM results)`).Scan(&info.Races, &info.Results); err != nil {
		return Import{}, false, err
	}
	return info, true, nil
}

// Package dashboard owns the loaded dataset and the current selection, and
// recomputes every view when the selection changes.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/recordstore"
	"github.com/verte-zerg/f1dash/internal/selection"
	"github.com/verte-zerg/f1dash/internal/stats"
)

// ErrNotReady is returned by view entry points before a successful load.
var ErrNotReady = errors.New("dataset not loaded")

// Loader produces the full set of tables or fails as a whole.
type Loader func(ctx context.Context) (model.Tables, error)

// Session is a dashboard over one dataset snapshot.
type Session struct {
	log   zerolog.Logger
	store *recordstore.Store
	sel   selection.State
	err   error
}

// New returns a session that is not ready until Load succeeds.
func New(sel selection.State, log zerolog.Logger) *Session {
	return &Session{log: log, sel: sel, err: ErrNotReady}
}

// Load replaces the dataset with the loader's tables. On failure the
// session is left not ready and no earlier dataset is kept.
func (s *Session) Load(ctx context.Context, load Loader) error {
	start := time.Now()
	s.store = nil
	tables, err := load(ctx)
	if err != nil {
		s.err = err
		s.log.Error().Err(err).Msg("dataset load failed")
		return fmt.Errorf("load dataset: %w", err)
	}
	s.store = recordstore.New(tables)
	s.err = nil
	ev := s.log.Info().Dur("took", time.Since(start))
	for name, n := range s.store.Counts() {
		ev = ev.Int(name, n)
	}
	ev.Msg("dataset loaded")
	return nil
}

// Ready reports whether a dataset is loaded.
func (s *Session) Ready() bool {
	return s.store != nil
}

// Err returns the load failure, or ErrNotReady before any load.
func (s *Session) Err() error {
	if s.Ready() {
		return nil
	}
	return s.err
}

// Selection returns the current selection.
func (s *Session) Selection() selection.State {
	return s.sel
}

// Seasons lists the years with races within the bounds, newest first.
func (s *Session) Seasons(minYear, maxYear int) ([]int, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}
	return stats.Seasons(s.store.Races(), minYear, maxYear), nil
}

// Views recomputes every view for the current selection.
func (s *Session) Views() (stats.Views, error) {
	return s.ViewsFor(s.sel)
}

// ViewsFor computes the views of sel without changing the selection.
func (s *Session) ViewsFor(sel selection.State) (stats.Views, error) {
	if !s.Ready() {
		return stats.Views{}, ErrNotReady
	}
	v := stats.Build(s.store, sel)
	if v.Skipped > 0 {
		s.log.Debug().Int("skipped", v.Skipped).Str("selection", sel.String()).Msg("records with unresolved references skipped")
	}
	return v, nil
}

// Select replaces the whole selection.
func (s *Session) Select(sel selection.State) (stats.Views, error) {
	s.sel = sel
	return s.Views()
}

// SetYear changes the season, clearing the circuit and driver filters.
func (s *Session) SetYear(year int) (stats.Views, error) {
	s.sel.SetYear(year)
	return s.Views()
}

// SetCircuit changes the circuit filter.
func (s *Session) SetCircuit(id model.CircuitID) (stats.Views, error) {
	s.sel.SetCircuit(id)
	return s.Views()
}

// SetDriver changes the driver filter.
func (s *Session) SetDriver(id model.DriverID) (stats.Views, error) {
	s.sel.SetDriver(id)
	return s.Views()
}

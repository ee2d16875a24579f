package main

import (
	"context"
	"fmt"
	"os"

	"github.com/verte-zerg/f1dash/internal/ingest"
	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/store"
)

// source is where the dashboard reads its tables from: an imported SQLite
// snapshot or a directory of CSV files.
type source struct {
	csvDir   string
	snapshot string
}

// resolveSource prefers an existing snapshot unless the CSV directory was
// asked for explicitly.
func resolveSource(explicitCSV bool, dir, snapshot string) source {
	if !explicitCSV && snapshot != "" {
		if info, err := os.Stat(snapshot); err == nil && !info.IsDir() {
			return source{snapshot: snapshot}
		}
	}
	return source{csvDir: dir}
}

func (s source) String() string {
	if s.snapshot != "" {
		return "snapshot " + s.snapshot
	}
	return "csv " + s.csvDir
}

// Load reads every table from the source.
func (s source) Load(ctx context.Context) (model.Tables, error) {
	if s.snapshot == "" {
		return ingest.Load(ctx, s.csvDir)
	}
	st, err := store.Open(s.snapshot)
	if err != nil {
		return model.Tables{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close snapshot: %v\n", cerr)
		}
	}()
	if _, ok, err := st.LastImport(ctx); err != nil {
		return model.Tables{}, err
	} else if !ok {
		return model.Tables{}, fmt.Errorf("snapshot %s has no imported dataset", s.snapshot)
	}
	return st.LoadTables(ctx)
}

package dashboard

import (
	"fmt"

	"github.com/verte-zerg/f1dash/internal/model"
	"github.com/verte-zerg/f1dash/internal/selection"
	"github.com/verte-zerg/f1dash/internal/stats"
)

// ResolveCircuit turns an id, "all" or a circuit name into a circuit id.
// Names are matched against the circuits raced in the season of v.
func ResolveCircuit(v stats.Views, query string) (model.CircuitID, error) {
	id, err := resolve(v.CircuitOptions, query)
	if err != nil {
		return model.AllCircuits, fmt.Errorf("circuit: %w in %d", err, v.Selection.Year)
	}
	return model.CircuitID(id), nil
}

// ResolveDriver turns an id, "all" or a driver name into a driver id.
func ResolveDriver(v stats.Views, query string) (model.DriverID, error) {
	id, err := resolve(v.DriverOptions, query)
	if err != nil {
		return model.AllDrivers, fmt.Errorf("driver: %w in %d", err, v.Selection.Year)
	}
	return model.DriverID(id), nil
}

func resolve(options []stats.Option, query string) (int, error) {
	if id, err := selection.ParseID(query); err == nil {
		return id, nil
	}
	opt, ok := stats.FindOption(options, query)
	if !ok {
		return 0, fmt.Errorf("no match for %q", query)
	}
	return opt.ID, nil
}

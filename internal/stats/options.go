package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/f1dash/internal/model"
)

// Season bounds offered by the selector by default.
const (
	DefaultMinSeason = 2010
	DefaultMaxSeason = 2025
)

// Option is a selectable circuit or driver.
type Option struct {
	ID    int
	Label string
}

// Seasons returns the distinct race years within [minYear, maxYear], newest
// first. A non-positive bound is ignored.
func Seasons(races []model.Race, minYear, maxYear int) []int {
	seen := map[int]struct{}{}
	out := []int{}
	for _, r := range races {
		if minYear > 0 && r.Year < minYear {
			continue
		}
		if maxYear > 0 && r.Year > maxYear {
			continue
		}
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		out = append(out, r.Year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// CircuitOptions lists the circuits of the races sorted by name.
func CircuitOptions(lk Lookup, races []model.Race) []Option {
	seen := map[model.CircuitID]struct{}{}
	out := []Option{}
	for _, r := range races {
		if _, ok := seen[r.CircuitID]; ok {
			continue
		}
		seen[r.CircuitID] = struct{}{}
		c, ok := lk.Circuit(r.CircuitID)
		if !ok {
			continue
		}
		out = append(out, Option{ID: int(c.ID), Label: c.Name})
	}
	sortOptions(out)
	return out
}

// DriverOptions lists the drivers appearing in results sorted by full name.
func DriverOptions(lk Lookup, results []model.Result) []Option {
	seen := map[model.DriverID]struct{}{}
	out := []Option{}
	for _, r := range results {
		if _, ok := seen[r.DriverID]; ok {
			continue
		}
		seen[r.DriverID] = struct{}{}
		d, ok := lk.Driver(r.DriverID)
		if !ok {
			continue
		}
		out = append(out, Option{ID: int(d.ID), Label: d.FullName()})
	}
	sortOptions(out)
	return out
}

// FindOption resolves a label case-insensitively, preferring an exact match
// over a substring match.
func FindOption(options []Option, query string) (Option, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Option{}, false
	}
	for _, o := range options {
		if strings.EqualFold(o.Label, query) {
			return o, true
		}
	}
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Label), strings.ToLower(query)) {
			return o, true
		}
	}
	return Option{}, false
}

func sortOptions(options []Option) {
	sort.SliceStable(options, func(i, j int) bool {
		li, lj := strings.ToLower(options[i].Label), strings.ToLower(options[j].Label)
		if li == lj {
			return options[i].ID < options[j].ID
		}
		return li < lj
	})
}

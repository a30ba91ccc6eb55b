// Package query holds the filtered views read by the chart and the table.
//
// Every function is pure: inputs are never mutated and results are fresh
// slices, so the record set can be filtered any number of times.
package query

import (
	"github.com/Vitorkla/comparativo/internal/types"
)

// View selects which filter variant applies.
type View int

const (
	// ChartView filters by manager, branch and active indicators.
	ChartView View = iota
	// TableView filters by manager and branch only. Indicator selection is
	// applied later, when the table is projected.
	TableView
)

// String returns the view name used in logs.
func (v View) String() string {
	switch v {
	case ChartView:
		return "chart"
	case TableView:
		return "table"
	default:
		return "unknown"
	}
}

// ApplyFilters returns the records that pass the filter, in input order.
//
// A record passes when the manager filter is empty or equal, the branch
// filter is empty or equal (exact text, no normalization), and, for the
// chart view, its indicator is active. A nil ActiveIndicators set places no
// indicator restriction, so the zero FilterState keeps every record.
func ApplyFilters(records []types.ComparisonRecord, f types.FilterState, view View) []types.ComparisonRecord {
	out := make([]types.ComparisonRecord, 0, len(records))
	for _, rec := range records {
		if Matches(rec, f, view) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches is the predicate behind ApplyFilters.
func Matches(rec types.ComparisonRecord, f types.FilterState, view View) bool {
	if f.Manager != "" && rec.Manager != f.Manager {
		return false
	}
	if f.Branch != "" && rec.Branch != f.Branch {
		return false
	}
	if view == ChartView && f.ActiveIndicators != nil && !f.ActiveIndicators[rec.Indicator] {
		return false
	}
	return true
}

// HasActiveIndicators reports whether at least one indicator is selected.
// Hosts call it before letting the user clear the last checkbox.
func HasActiveIndicators(f types.FilterState) bool {
	if f.ActiveIndicators == nil {
		return true
	}
	for _, on := range f.ActiveIndicators {
		if on {
			return true
		}
	}
	return false
}

// ActiveIndicators returns the selected indicators in declared order.
func ActiveIndicators(f types.FilterState, declared []string) []string {
	active := make([]string, 0, len(declared))
	for _, name := range declared {
		if f.ActiveIndicators == nil || f.ActiveIndicators[name] {
			active = append(active, name)
		}
	}
	return active
}

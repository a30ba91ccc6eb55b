package table

import (
	"sort"
	"strings"

	"github.com/Vitorkla/comparativo/internal/types"
)

// SortRows stable-sorts rows in place.
//
// "branch" compares branch names case-insensitively. "indicator:<name>"
// compares that indicator's delta, a missing cell counting as 0. Equal keys
// keep their order in both directions. An empty column leaves rows as is.
func SortRows(rows []types.GroupedRow, state types.SortState) {
	less := comparator(state)
	if less == nil {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
}

func comparator(state types.SortState) func(a, b types.GroupedRow) bool {
	desc := state.Direction == types.Desc

	if state.Column == types.SortColumnBranch {
		return func(a, b types.GroupedRow) bool {
			x, y := strings.ToLower(a.Branch), strings.ToLower(b.Branch)
			if desc {
				return x > y
			}
			return x < y
		}
	}

	if name, ok := state.SortIndicator(); ok {
		return func(a, b types.GroupedRow) bool {
			x, y := deltaOf(a, name), deltaOf(b, name)
			if desc {
				return x > y
			}
			return x < y
		}
	}

	return nil
}

func deltaOf(row types.GroupedRow, indicator string) float64 {
	if cell, ok := row.Lookup(indicator); ok {
		return cell.Delta
	}
	return 0
}

// Toggle applies a header click: the same column flips direction, another
// column starts ascending.
func Toggle(state types.SortState, column string) types.SortState {
	if state.Column == column {
		if state.Direction == types.Asc {
			state.Direction = types.Desc
		} else {
			state.Direction = types.Asc
		}
		return state
	}
	return types.SortState{Column: column, Direction: types.Asc}
}

// =============================================================================
// HEADER COLUMNS
// =============================================================================

// Sort icons shown next to column labels.
const (
	IconAsc      = "↑"
	IconDesc     = "↓"
	IconSortable = "↕"
)

// Column describes one table header cell.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Columns returns the entity column followed by one column per active
// indicator, each carrying its sort icon.
func Columns(activeIndicators []string, branchLabel string, state types.SortState) []Column {
	cols := make([]Column, 0, len(activeIndicators)+1)
	cols = append(cols, Column{Key: types.SortColumnBranch, Label: branchLabel})
	for _, name := range activeIndicators {
		cols = append(cols, Column{Key: types.IndicatorSortKey(name), Label: name})
	}

	for i := range cols {
		switch {
		case cols[i].Key != state.Column:
			cols[i].Icon = IconSortable
		case state.Direction == types.Desc:
			cols[i].Icon = IconDesc
		default:
			cols[i].Icon = IconAsc
		}
	}
	return cols
}

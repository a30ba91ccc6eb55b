// =============================================================================
// Comparativo - Table Projector
// =============================================================================
//
// This module turns the table-filtered comparison records into grouped rows:
// one row per (manager, branch), one cell per active indicator.
//
// PROJECTION STEPS:
//   1. Reset the sort to {branch, asc} if it names an inactive indicator
//   2. Emit a placeholder when no indicator is active or no record is left
//   3. Group records by entity, first-seen order
//   4. Attach cells for active indicators only; absent cells stay absent
//   5. Stable-sort by the sort column
//
// =============================================================================

package table

import (
	"fmt"

	"github.com/Vitorkla/comparativo/internal/types"
)

// =============================================================================
// PLACEHOLDERS
// =============================================================================

// Placeholder is the informational row shown instead of data.
type Placeholder int

const (
	// NoPlaceholder means Rows holds the data.
	NoPlaceholder Placeholder = iota
	// NoIndicatorsSelected means every table indicator is unchecked.
	NoIndicatorsSelected
	// NoMatchingData means the filters left no record.
	NoMatchingData
)

// Message returns the text shown in the placeholder row.
func (p Placeholder) Message() string {
	switch p {
	case NoIndicatorsSelected:
		return "Selecione ao menos um indicador da tabela"
	case NoMatchingData:
		return "Nenhum dado encontrado com os filtros da tabela"
	default:
		return ""
	}
}

// String returns a stable identifier for logs and JSON output.
func (p Placeholder) String() string {
	switch p {
	case NoIndicatorsSelected:
		return "no_indicators_selected"
	case NoMatchingData:
		return "no_matching_data"
	default:
		return "none"
	}
}

// MarshalText encodes the placeholder as its identifier.
func (p Placeholder) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes an identifier written by MarshalText.
func (p *Placeholder) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*p = NoPlaceholder
	case "no_indicators_selected":
		*p = NoIndicatorsSelected
	case "no_matching_data":
		*p = NoMatchingData
	default:
		return fmt.Errorf("unknown placeholder %q", text)
	}
	return nil
}

// =============================================================================
// PROJECTION
// =============================================================================

// Projection is the table ready for rendering.
type Projection struct {
	// Rows are the grouped rows in display order. Empty when Placeholder is set.
	Rows []types.GroupedRow `json:"rows"`

	// Placeholder is set when there is nothing to show.
	Placeholder Placeholder `json:"placeholder"`

	// Sort is the sort actually applied. Hosts store it back, since it may
	// have been reset.
	Sort types.SortState `json:"sort"`
}

// Project groups, masks and sorts records for the table.
//
// PARAMETERS:
//   - records: the table-filtered records.
//   - activeIndicators: indicators shown as columns.
//   - sort: the requested sort.
//
// RETURNS:
//   - The projection. Never an error; degenerate inputs yield a placeholder.
func Project(records []types.ComparisonRecord, activeIndicators []string, sort types.SortState) Projection {
	active := make(map[string]bool, len(activeIndicators))
	for _, name := range activeIndicators {
		active[name] = true
	}

	sort = EffectiveSort(sort, active)
	proj := Projection{Rows: []types.GroupedRow{}, Sort: sort}

	if len(activeIndicators) == 0 {
		proj.Placeholder = NoIndicatorsSelected
		return proj
	}
	if len(records) == 0 {
		proj.Placeholder = NoMatchingData
		return proj
	}

	proj.Rows = Group(records, active)
	SortRows(proj.Rows, sort)
	return proj
}

// EffectiveSort resets a sort on an inactive indicator to {branch, asc}.
func EffectiveSort(sort types.SortState, active map[string]bool) types.SortState {
	if name, ok := sort.SortIndicator(); ok && !active[name] {
		return types.SortState{Column: types.SortColumnBranch, Direction: types.Asc}
	}
	if sort.Direction == "" {
		sort.Direction = types.Asc
	}
	return sort
}

// Group builds one row per entity in first-seen order, attaching cells for
// indicators in active. A later record for the same cell overwrites it.
func Group(records []types.ComparisonRecord, active map[string]bool) []types.GroupedRow {
	rows := make([]types.GroupedRow, 0)
	index := make(map[types.EntityKey]int)

	for _, rec := range records {
		i, ok := index[rec.EntityKey]
		if !ok {
			i = len(rows)
			index[rec.EntityKey] = i
			rows = append(rows, types.GroupedRow{
				EntityKey:  rec.EntityKey,
				Indicators: make(map[string]types.Cell),
			})
		}
		if active[rec.Indicator] {
			rows[i].Indicators[rec.Indicator] = rec.Cell()
		}
	}

	return rows
}

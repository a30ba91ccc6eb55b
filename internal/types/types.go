// =============================================================================
// Comparativo - Shared Types
// =============================================================================
//
// This package contains the data model shared by every pipeline stage. Types
// live here to avoid import cycles between:
//   - csvparser / xlsxparser (produce Dataset)
//   - reconcile              (produces ComparisonRecord)
//   - query, table, stats    (read ComparisonRecord)
//
// =============================================================================

package types

import "strings"

// =============================================================================
// INPUT TYPES
// =============================================================================

// Row is one decoded data row, keyed by column header.
// Values of indicator columns are float64, every other value is a string.
type Row map[string]any

// String returns the value of a text column, or "" when absent.
func (r Row) String(column string) string {
	s, _ := r[column].(string)
	return s
}

// Number returns the value of a numeric column, or 0 when absent.
func (r Row) Number(column string) float64 {
	if v, ok := r[column].(float64); ok {
		return v
	}
	return 0
}

// Dataset is one uploaded period.
type Dataset struct {
	// Headers is the header row in file order.
	Headers []string

	// Rows holds every data row that survived parsing.
	Rows []Row

	// Source names where the data came from (file name), for messages.
	Source string
}

// =============================================================================
// COMPARISON TYPES
// =============================================================================

// EntityKey identifies one comparison subject.
type EntityKey struct {
	Manager string `json:"manager"`
	Branch  string `json:"branch"`
}

// ComparisonRecord is the diff of one indicator for one entity.
type ComparisonRecord struct {
	EntityKey
	Indicator     string  `json:"indicator"`
	ValueBefore   float64 `json:"value_before"`
	ValueAfter    float64 `json:"value_after"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
}

// Cell is the per-indicator part of a ComparisonRecord, used by grouped rows.
type Cell struct {
	ValueBefore   float64 `json:"value_before"`
	ValueAfter    float64 `json:"value_after"`
	Delta         float64 `json:"delta"`
	PercentChange float64 `json:"percent_change"`
}

// Cell returns the indicator values of the record.
func (r ComparisonRecord) Cell() Cell {
	return Cell{
		ValueBefore:   r.ValueBefore,
		ValueAfter:    r.ValueAfter,
		Delta:         r.Delta,
		PercentChange: r.PercentChange,
	}
}

// =============================================================================
// VIEW STATE TYPES
// =============================================================================

// FilterState holds the selections of one view.
// An empty Manager or Branch means "all".
type FilterState struct {
	Manager          string          `json:"manager,omitempty"`
	Branch           string          `json:"branch,omitempty"`
	ActiveIndicators map[string]bool `json:"active_indicators"`
}

// NewFilterState returns a filter with every given indicator active.
func NewFilterState(indicators []string) FilterState {
	active := make(map[string]bool, len(indicators))
	for _, name := range indicators {
		active[name] = true
	}
	return FilterState{ActiveIndicators: active}
}

// IsActive reports whether the indicator is selected.
func (f FilterState) IsActive(indicator string) bool {
	return f.ActiveIndicators[indicator]
}

// Clone returns a copy that does not share the indicator set. A nil set
// stays nil.
func (f FilterState) Clone() FilterState {
	if f.ActiveIndicators == nil {
		return f
	}
	active := make(map[string]bool, len(f.ActiveIndicators))
	for k, v := range f.ActiveIndicators {
		active[k] = v
	}
	f.ActiveIndicators = active
	return f
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortColumnBranch is the sort key of the entity column.
const SortColumnBranch = "branch"

// sortIndicatorPrefix prefixes indicator sort keys.
const sortIndicatorPrefix = "indicator:"

// SortState is the table ordering. An empty Column keeps first-seen order.
type SortState struct {
	Column    string    `json:"column,omitempty"`
	Direction Direction `json:"direction"`
}

// DefaultSort returns the unsorted state.
func DefaultSort() SortState {
	return SortState{Direction: Asc}
}

// IndicatorSortKey returns the sort column key for an indicator.
func IndicatorSortKey(indicator string) string {
	return sortIndicatorPrefix + indicator
}

// SortIndicator returns the indicator named by an "indicator:<name>" column.
func (s SortState) SortIndicator() (string, bool) {
	if !strings.HasPrefix(s.Column, sortIndicatorPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s.Column, sortIndicatorPrefix), true
}

// =============================================================================
// GROUPED ROW
// =============================================================================

// GroupedRow is one table line: an entity and its active indicator cells.
// A missing key in Indicators means there is no data for that indicator.
type GroupedRow struct {
	EntityKey
	Indicators map[string]Cell `json:"indicators"`
}

// Lookup returns the cell for an indicator and whether it exists.
func (g GroupedRow) Lookup(indicator string) (Cell, bool) {
	c, ok := g.Indicators[indicator]
	return c, ok
}

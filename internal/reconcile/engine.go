// =============================================================================
// Comparativo - Reconciliation Engine
// =============================================================================
//
// This module matches the rows of the "before" and "after" datasets by entity
// and emits one ComparisonRecord per (entity, indicator).
//
// MATCHING:
//   - Entity = (manager, branch).
//   - Manager is compared with exact string equality ("Ana" != "ana").
//   - Branch is compared after NormalizeBranch (trim, lowercase, collapse
//     whitespace runs), so " Centro" == "centro".
//   - Each "before" row takes the FIRST matching "after" row.
//   - Unmatched "before" rows produce nothing.
//
// ORDERING:
//   Records follow the "before" row order, then the indicator list order.
//
// =============================================================================

package reconcile

import (
	"log/slog"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Vitorkla/comparativo/internal/types"
)

var hundred = decimal.NewFromInt(100)

// Engine reconciles datasets whose identity columns are fixed at construction.
type Engine struct {
	branchColumn  string
	managerColumn string
	logger        *slog.Logger
}

// New returns an Engine reading identity from the given columns.
func New(branchColumn, managerColumn string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		branchColumn:  branchColumn,
		managerColumn: managerColumn,
		logger:        logger,
	}
}

// matchKey is the lookup key into the "after" dataset.
type matchKey struct {
	manager string
	branch  string
}

// Reconcile compares before and after for each indicator.
//
// PARAMETERS:
//   - before, after: the two decoded periods.
//   - indicators: the indicators to compare, in output order.
//
// RETURNS:
//   - The comparison records. Never nil; empty when nothing matched.
func (e *Engine) Reconcile(before, after *types.Dataset, indicators []string) []types.ComparisonRecord {
	index := make(map[matchKey]types.Row, len(after.Rows))
	for _, row := range after.Rows {
		key := matchKey{
			manager: row.String(e.managerColumn),
			branch:  NormalizeBranch(row.String(e.branchColumn)),
		}
		// First occurrence wins.
		if _, exists := index[key]; !exists {
			index[key] = row
		}
	}

	records := make([]types.ComparisonRecord, 0, len(before.Rows)*len(indicators))
	unmatched := 0

	for _, row := range before.Rows {
		manager := row.String(e.managerColumn)
		branch := row.String(e.branchColumn)

		match, ok := index[matchKey{manager: manager, branch: NormalizeBranch(branch)}]
		if !ok {
			unmatched++
			continue
		}

		for _, indicator := range indicators {
			records = append(records, Compare(
				types.EntityKey{Manager: manager, Branch: branch},
				indicator,
				row.Number(indicator),
				match.Number(indicator),
			))
		}
	}

	e.logger.Debug("reconciled datasets",
		"before_rows", len(before.Rows),
		"after_rows", len(after.Rows),
		"unmatched", unmatched,
		"records", len(records),
	)

	return records
}

// Compare builds one record. percentChange is delta/|before|*100, or 0 when
// before is 0. Non-finite inputs are computed in float64.
func Compare(entity types.EntityKey, indicator string, before, after float64) types.ComparisonRecord {
	if !finite(before) || !finite(after) {
		return compareFloat(entity, indicator, before, after)
	}

	b := decimal.NewFromFloat(before)
	a := decimal.NewFromFloat(after)
	delta := a.Sub(b)

	percent := decimal.Zero
	if !b.IsZero() {
		percent = delta.Div(b.Abs()).Mul(hundred)
	}

	return types.ComparisonRecord{
		EntityKey:     entity,
		Indicator:     indicator,
		ValueBefore:   before,
		ValueAfter:    after,
		Delta:         delta.InexactFloat64(),
		PercentChange: percent.InexactFloat64(),
	}
}

func compareFloat(entity types.EntityKey, indicator string, before, after float64) types.ComparisonRecord {
	delta := after - before
	percent := 0.0
	if before != 0 {
		percent = delta / math.Abs(before) * 100
	}
	return types.ComparisonRecord{
		EntityKey:     entity,
		Indicator:     indicator,
		ValueBefore:   before,
		ValueAfter:    after,
		Delta:         delta,
		PercentChange: percent,
	}
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// NormalizeBranch trims, lowercases and collapses internal whitespace runs
// to one space.
func NormalizeBranch(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

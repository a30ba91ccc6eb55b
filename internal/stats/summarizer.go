// Package stats computes the headline figures of the chart view.
package stats

import (
	"math"

	"github.com/Vitorkla/comparativo/internal/types"
)

// Summary holds the aggregate figures of a filtered record set.
type Summary struct {
	DistinctManagers int `json:"distinct_managers"`
	DistinctBranches int `json:"distinct_branches"`

	// TopPositive is the record with the largest positive delta, nil if none.
	TopPositive *types.ComparisonRecord `json:"top_positive,omitempty"`

	// TopNegative is the record with the largest absolute negative delta,
	// nil if none.
	TopNegative *types.ComparisonRecord `json:"top_negative,omitempty"`
}

// Summarize counts distinct managers and branches and picks the extremal
// deltas. Zero deltas are ignored; ties go to the earliest record.
func Summarize(records []types.ComparisonRecord) Summary {
	managers := make(map[string]struct{})
	branches := make(map[string]struct{})

	var s Summary
	for i := range records {
		rec := &records[i]
		managers[rec.Manager] = struct{}{}
		branches[rec.Branch] = struct{}{}

		switch {
		case rec.Delta > 0:
			if s.TopPositive == nil || math.Abs(rec.Delta) > math.Abs(s.TopPositive.Delta) {
				s.TopPositive = copyRecord(rec)
			}
		case rec.Delta < 0:
			if s.TopNegative == nil || math.Abs(rec.Delta) > math.Abs(s.TopNegative.Delta) {
				s.TopNegative = copyRecord(rec)
			}
		}
	}

	s.DistinctManagers = len(managers)
	s.DistinctBranches = len(branches)
	return s
}

func copyRecord(rec *types.ComparisonRecord) *types.ComparisonRecord {
	c := *rec
	return &c
}

// Label returns "manager - indicator" for a highlighted record, or "" for nil.
func Label(rec *types.ComparisonRecord) string {
	if rec == nil {
		return ""
	}
	return rec.Manager + " - " + rec.Indicator
}

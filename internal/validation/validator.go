// =============================================================================
// Comparativo - Dataset Checks
// =============================================================================
//
// This module inspects accepted datasets for rows that decode fine but will
// not compare the way a user expects. Nothing here rejects an upload; every
// finding is a warning.
//
// DATASET CHECKS:
//   - Blank manager or branch: the row only matches another blank row
//   - Duplicate entity: a repeated (manager, branch) pair; in the "after"
//     period only the first one is used
//
// CROSS CHECKS (before vs. after):
//   - Unmatched entity: a "before" entity without an "after" row produces
//     no comparison record
//
// ERROR HANDLING:
//   - Issues are collected, not returned as errors
//   - Each issue carries the data row (1-based, after dropped lines) and the
//     field involved
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/Vitorkla/comparativo/internal/reconcile"
	"github.com/Vitorkla/comparativo/internal/types"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Rule names the check that produced an issue.
type Rule string

const (
	RuleBlankIdentity   Rule = "blank_identity"
	RuleDuplicateEntity Rule = "duplicate_entity"
	RuleUnmatched       Rule = "unmatched_entity"
)

// Issue is a single finding.
type Issue struct {
	// Source is the dataset the row belongs to.
	Source string

	// Row is the 1-based data row number.
	Row int

	// Field is the column involved, if one.
	Field string

	// Value is the offending value.
	Value string

	// Rule is the check that fired.
	Rule Rule

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var b strings.Builder
	if i.Source != "" {
		b.WriteString(i.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "row %d", i.Row)
	if i.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", i.Field)
	}
	fmt.Fprintf(&b, ": %s", i.Message)
	if i.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", i.Value)
	}
	return b.String()
}

// =============================================================================
// CHECKER
// =============================================================================

// Checker runs the checks for fixed identity columns.
type Checker struct {
	branchColumn  string
	managerColumn string
}

// NewChecker returns a Checker reading identity from the given columns.
func NewChecker(branchColumn, managerColumn string) *Checker {
	return &Checker{branchColumn: branchColumn, managerColumn: managerColumn}
}

// entity is the match key, with the branch normalized like the engine does.
func (c *Checker) entity(row types.Row) types.EntityKey {
	return types.EntityKey{
		Manager: row.String(c.managerColumn),
		Branch:  reconcile.NormalizeBranch(row.String(c.branchColumn)),
	}
}

// Check inspects one dataset.
//
// RETURNS:
//   - The issues in row order. Empty when the dataset is clean.
func (c *Checker) Check(ds *types.Dataset) []*Issue {
	var issues []*Issue
	firstSeen := make(map[types.EntityKey]int)

	for i, row := range ds.Rows {
		n := i + 1

		for _, col := range []string{c.managerColumn, c.branchColumn} {
			if strings.TrimSpace(row.String(col)) == "" {
				issues = append(issues, &Issue{
					Source:  ds.Source,
					Row:     n,
					Field:   col,
					Rule:    RuleBlankIdentity,
					Message: "blank identity value",
				})
			}
		}

		key := c.entity(row)
		if first, ok := firstSeen[key]; ok {
			issues = append(issues, &Issue{
				Source:  ds.Source,
				Row:     n,
				Field:   c.managerColumn,
				Value:   row.String(c.managerColumn),
				Rule:    RuleDuplicateEntity,
				Message: fmt.Sprintf("entity already seen at row %d", first),
			})
			continue
		}
		firstSeen[key] = n
	}

	return issues
}

// CrossCheck reports the "before" entities that have no "after" row.
func (c *Checker) CrossCheck(before, after *types.Dataset) []*Issue {
	present := make(map[types.EntityKey]bool, len(after.Rows))
	for _, row := range after.Rows {
		present[c.entity(row)] = true
	}

	var issues []*Issue
	for i, row := range before.Rows {
		if present[c.entity(row)] {
			continue
		}
		issues = append(issues, &Issue{
			Source:  before.Source,
			Row:     i + 1,
			Field:   c.branchColumn,
			Value:   row.String(c.managerColumn) + " / " + row.String(c.branchColumn),
			Rule:    RuleUnmatched,
			Message: "no matching row in " + orDefault(after.Source, "the after period"),
		})
	}
	return issues
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// FormatIssues formats issues as a numbered list.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No issues found."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d issue(s):\n", len(issues))
	for i, issue := range issues {
		fmt.Fprintf(&b, "%d. %s\n", i+1, issue.Error())
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

package query

import (
	"sort"

	"github.com/Vitorkla/comparativo/internal/types"
)

// Options are the distinct values offered by the manager and branch selects.
type Options struct {
	Managers []string `json:"managers"`
	Branches []string `json:"branches"`
}

// FilterOptions collects distinct managers and branches, each sorted.
func FilterOptions(records []types.ComparisonRecord) Options {
	managers := make(map[string]bool)
	branches := make(map[string]bool)
	for _, rec := range records {
		managers[rec.Manager] = true
		branches[rec.Branch] = true
	}
	return Options{
		Managers: sortedKeys(managers),
		Branches: sortedKeys(branches),
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

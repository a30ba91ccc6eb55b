package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Vitorkla/comparativo/internal/types"
)

func rec(manager, branch, indicator string, before, after float64) types.ComparisonRecord {
	return types.ComparisonRecord{
		EntityKey:   types.EntityKey{Manager: manager, Branch: branch},
		Indicator:   indicator,
		ValueBefore: before,
		ValueAfter:  after,
		Delta:       after - before,
	}
}

func sampleRecords() []types.ComparisonRecord {
	return []types.ComparisonRecord{
		rec("Ana", "Centro", "Capital", 100, 150),
		rec("Ana", "Centro", "Associados", 10, 12),
		rec("Bia", "Norte", "Capital", 200, 100),
		rec("Bia", "Norte", "Associados", 5, 5),
		rec("Ana", "Sul", "Capital", -50, 20),
	}
}

func TestApplyFilters_EmptyStateIsIdentity(t *testing.T) {
	records := sampleRecords()

	for _, view := range []View{ChartView, TableView} {
		t.Run(view.String(), func(t *testing.T) {
			got := ApplyFilters(records, types.FilterState{}, view)
			assert.Equal(t, records, got)

			again := ApplyFilters(got, types.FilterState{}, view)
			assert.Equal(t, got, again)
		})
	}
}

func TestApplyFilters_ChartView(t *testing.T) {
	records := sampleRecords()

	tests := []struct {
		name   string
		filter types.FilterState
		want   int
	}{
		{"manager only", types.FilterState{Manager: "Ana"}, 3},
		{"branch only", types.FilterState{Branch: "Norte"}, 2},
		{"manager and branch", types.FilterState{Manager: "Ana", Branch: "Sul"}, 1},
		{"branch is exact text", types.FilterState{Branch: "norte"}, 0},
		{"indicator mask", types.FilterState{ActiveIndicators: map[string]bool{"Capital": true}}, 3},
		{"indicator unchecked", types.FilterState{ActiveIndicators: map[string]bool{"Capital": false, "Associados": true}}, 2},
		{"empty mask excludes all", types.FilterState{ActiveIndicators: map[string]bool{}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ApplyFilters(records, tt.filter, ChartView), tt.want)
		})
	}
}

func TestApplyFilters_TableViewIgnoresIndicators(t *testing.T) {
	f := types.FilterState{Manager: "Bia", ActiveIndicators: map[string]bool{}}

	got := ApplyFilters(sampleRecords(), f, TableView)

	assert.Len(t, got, 2)
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	snapshot := append([]types.ComparisonRecord(nil), records...)

	got := ApplyFilters(records, types.FilterState{Manager: "Bia"}, ChartView)
	got[0].Manager = "changed"

	assert.Equal(t, snapshot, records)
}

func TestHasActiveIndicators(t *testing.T) {
	assert.True(t, HasActiveIndicators(types.FilterState{}))
	assert.True(t, HasActiveIndicators(types.NewFilterState([]string{"a"})))
	assert.False(t, HasActiveIndicators(types.FilterState{ActiveIndicators: map[string]bool{"a": false}}))
	assert.False(t, HasActiveIndicators(types.NewFilterState(nil)))
}

func TestActiveIndicators_DeclaredOrder(t *testing.T) {
	f := types.FilterState{ActiveIndicators: map[string]bool{"c": true, "a": true, "b": false}}
	assert.Equal(t, []string{"a", "c"}, ActiveIndicators(f, []string{"a", "b", "c"}))
	assert.Equal(t, []string{"a", "b"}, ActiveIndicators(types.FilterState{}, []string{"a", "b"}))
}

func TestFilterOptions_SortedDistinct(t *testing.T) {
	opts := FilterOptions(sampleRecords())

	assert.Equal(t, []string{"Ana", "Bia"}, opts.Managers)
	assert.Equal(t, []string{"Centro", "Norte", "Sul"}, opts.Branches)
}

func TestChartSeries(t *testing.T) {
	points := ChartSeries(sampleRecords(), 10)

	assert.Equal(t, []ChartPoint{
		{Label: "Ana", Before: 160, After: 182},
		{Label: "Bia", Before: 205, After: 105},
	}, points)
}

func TestChartSeries_KeepsFirstSeenManagers(t *testing.T) {
	records := []types.ComparisonRecord{
		rec("C", "x", "i", 1, 1),
		rec("A", "x", "i", 1, 1),
		rec("B", "x", "i", 1, 1),
	}

	points := ChartSeries(records, 2)

	assert.Len(t, points, 2)
	assert.Equal(t, "C", points[0].Label)
	assert.Equal(t, "A", points[1].Label)
	assert.Empty(t, ChartSeries(nil, 10))
}

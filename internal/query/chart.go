package query

import (
	"math"

	"github.com/Vitorkla/comparativo/internal/types"
)

// ChartPoint is one bar pair of the aggregate chart.
type ChartPoint struct {
	Label  string  `json:"label"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
}

// ChartSeries groups records by manager in first-seen order, summing the
// absolute before and after values, and keeps the first maxSeries managers.
// maxSeries <= 0 keeps every manager.
func ChartSeries(records []types.ComparisonRecord, maxSeries int) []ChartPoint {
	points := make([]ChartPoint, 0)
	index := make(map[string]int)

	for _, rec := range records {
		i, ok := index[rec.Manager]
		if !ok {
			i = len(points)
			index[rec.Manager] = i
			points = append(points, ChartPoint{Label: rec.Manager})
		}
		points[i].Before += math.Abs(rec.ValueBefore)
		points[i].After += math.Abs(rec.ValueAfter)
	}

	if maxSeries > 0 && len(points) > maxSeries {
		points = points[:maxSeries]
	}
	return points
}

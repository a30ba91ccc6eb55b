package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Vitorkla/comparativo/internal/dashboard"
	"github.com/Vitorkla/comparativo/internal/format"
	"github.com/Vitorkla/comparativo/internal/stats"
	"github.com/Vitorkla/comparativo/internal/table"
	"github.com/Vitorkla/comparativo/internal/types"
)

// renderTable prints the table view as aligned columns. Each indicator cell
// reads "<difference> (<before> -> <after>)".
func renderTable(w io.Writer, view dashboard.TableView, managerLabel string, monetary func(string) bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{managerLabel}
	for _, col := range view.Columns {
		header = append(header, col.Label+" "+col.Icon)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	if view.Placeholder != table.NoPlaceholder {
		fmt.Fprintln(tw, view.Placeholder.Message())
		return tw.Flush()
	}

	for _, row := range view.Rows {
		manager := row.Manager
		if manager == "" {
			manager = format.EmptyCell
		}
		line := []string{manager, row.Branch}
		for _, name := range view.Indicators {
			line = append(line, renderCell(row, name, monetary(name)))
		}
		fmt.Fprintln(tw, strings.Join(line, "\t"))
	}

	return tw.Flush()
}

func renderCell(row types.GroupedRow, indicator string, monetary bool) string {
	cell, ok := row.Lookup(indicator)
	if !ok {
		return format.EmptyCell
	}
	return fmt.Sprintf("%s (%s -> %s)",
		format.Difference(cell.Delta, monetary),
		format.Indicator(cell.ValueBefore, monetary),
		format.Indicator(cell.ValueAfter, monetary),
	)
}

// renderSummary prints the chart view headline figures.
func renderSummary(w io.Writer, s stats.Summary, monetary func(string) bool) {
	fmt.Fprintf(w, "Gerentes: %d\n", s.DistinctManagers)
	fmt.Fprintf(w, "Agências: %d\n", s.DistinctBranches)
	fmt.Fprintf(w, "Maior crescimento: %s\n", renderHighlight(s.TopPositive, monetary))
	fmt.Fprintf(w, "Maior queda: %s\n", renderHighlight(s.TopNegative, monetary))
}

func renderHighlight(rec *types.ComparisonRecord, monetary func(string) bool) string {
	if rec == nil {
		return format.EmptyCell
	}
	return fmt.Sprintf("%s (%s, %s)",
		stats.Label(rec),
		format.Difference(rec.Delta, monetary(rec.Indicator)),
		format.Percentage(rec.PercentChange),
	)
}

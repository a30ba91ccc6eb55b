// =============================================================================
// Comparativo - XLSX Export Module
// =============================================================================
//
// This module writes the table view and its summary to a workbook.
//
// WORKBOOK LAYOUT:
//
//   Sheet "Comparativo"
//     Row 1:  Manager | Branch | <ind> Antes | <ind> Depois | <ind> Diferença | <ind> Variação % | ...
//     Row 2+: one row per grouped entity, in table order
//
//   Sheet "Resumo"
//     Key/value pairs: session, generation time, distinct counts, the
//     largest increase and decrease
//
// Values are written as numbers with a number format, so the workbook stays
// sortable. A missing indicator cell is written as "—". When the table shows
// a placeholder, its message is written below the header instead of rows.
//
// =============================================================================

package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Vitorkla/comparativo/internal/format"
	"github.com/Vitorkla/comparativo/internal/stats"
	"github.com/Vitorkla/comparativo/internal/table"
	"github.com/Vitorkla/comparativo/internal/types"
)

// Sheet names.
const (
	TableSheet   = "Comparativo"
	SummarySheet = "Resumo"
)

// Number formats applied to value cells.
const (
	currencyNumFmt = `"R$ "#,##0.00;-"R$ "#,##0.00`
	numberNumFmt   = `#,##0.###`
	percentNumFmt  = `0.00"%"`
)

// columnsPerIndicator is the number of sheet columns each indicator spans.
const columnsPerIndicator = 4

// =============================================================================
// REPORT
// =============================================================================

// Report is everything written to the workbook.
type Report struct {
	// SessionID identifies the session that produced the report.
	SessionID string

	// ManagerLabel and BranchLabel head the entity columns.
	ManagerLabel string
	BranchLabel  string

	// Indicators are the active table indicators, in declared order.
	Indicators []string

	// IsMonetary selects the currency format for an indicator.
	// A nil func formats every indicator as a plain number.
	IsMonetary func(indicator string) bool

	// Table is the projected table.
	Table table.Projection

	// Summary is the chart view summary.
	Summary stats.Summary

	// GeneratedAt stamps the summary sheet. Zero means now.
	GeneratedAt time.Time
}

func (r *Report) monetary(indicator string) bool {
	return r.IsMonetary != nil && r.IsMonetary(indicator)
}

// =============================================================================
// WRITING
// =============================================================================

// Write renders the report as an XLSX workbook to w.
func Write(w io.Writer, report Report) error {
	f, err := build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save renders the report and saves it at path.
func Save(path string, report Report) error {
	f, err := build(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func build(report Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), TableSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeTable(f, st, &report); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write table sheet: %w", err)
	}
	if err := writeSummary(f, st, &report); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}

	return f, nil
}

// =============================================================================
// STYLES
// =============================================================================

type styles struct {
	header   int
	currency int
	number   int
	percent  int
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	if st.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, fmt.Errorf("failed to create header style: %w", err)
	}
	if st.currency, err = numFmtStyle(f, currencyNumFmt); err != nil {
		return st, err
	}
	if st.number, err = numFmtStyle(f, numberNumFmt); err != nil {
		return st, err
	}
	if st.percent, err = numFmtStyle(f, percentNumFmt); err != nil {
		return st, err
	}
	return st, nil
}

func numFmtStyle(f *excelize.File, numFmt string) (int, error) {
	id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return 0, fmt.Errorf("failed to create number format %q: %w", numFmt, err)
	}
	return id, nil
}

// =============================================================================
// TABLE SHEET
// =============================================================================

// TableHeaders returns the header row of the table sheet.
func TableHeaders(managerLabel, branchLabel string, indicators []string) []string {
	headers := make([]string, 0, 2+len(indicators)*columnsPerIndicator)
	headers = append(headers, managerLabel, branchLabel)
	for _, name := range indicators {
		headers = append(headers,
			name+" Antes",
			name+" Depois",
			name+" Diferença",
			name+" Variação %",
		)
	}
	return headers
}

func writeTable(f *excelize.File, st styles, report *Report) error {
	headers := TableHeaders(report.ManagerLabel, report.BranchLabel, report.Indicators)
	for col, h := range headers {
		if err := setCell(f, TableSheet, col+1, 1, h, st.header); err != nil {
			return err
		}
	}

	if report.Table.Placeholder != table.NoPlaceholder {
		return setCell(f, TableSheet, 1, 2, report.Table.Placeholder.Message(), 0)
	}

	for i, row := range report.Table.Rows {
		r := i + 2
		if err := setCell(f, TableSheet, 1, r, row.Manager, 0); err != nil {
			return err
		}
		if err := setCell(f, TableSheet, 2, r, row.Branch, 0); err != nil {
			return err
		}

		for j, name := range report.Indicators {
			col := 3 + j*columnsPerIndicator
			cell, ok := row.Lookup(name)
			if !ok {
				for k := 0; k < columnsPerIndicator; k++ {
					if err := setCell(f, TableSheet, col+k, r, format.EmptyCell, 0); err != nil {
						return err
					}
				}
				continue
			}

			valueStyle := st.number
			if report.monetary(name) {
				valueStyle = st.currency
			}
			values := []struct {
				v     float64
				style int
			}{
				{cell.ValueBefore, valueStyle},
				{cell.ValueAfter, valueStyle},
				{cell.Delta, valueStyle},
				{cell.PercentChange, st.percent},
			}
			for k, v := range values {
				if err := setCell(f, TableSheet, col+k, r, v.v, v.style); err != nil {
					return err
				}
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(TableSheet, "A", last, 18)
}

// =============================================================================
// SUMMARY SHEET
// =============================================================================

func writeSummary(f *excelize.File, st styles, report *Report) error {
	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	s := report.Summary
	rows := [][2]any{
		{"Sessão", report.SessionID},
		{"Gerado em", generated.Format("02/01/2006 15:04:05")},
		{"Gerentes", s.DistinctManagers},
		{"Agências", s.DistinctBranches},
		{"Maior crescimento", highlight(s.TopPositive, report)},
		{"Maior queda", highlight(s.TopNegative, report)},
	}

	for i, kv := range rows {
		if err := setCell(f, SummarySheet, 1, i+1, kv[0], st.header); err != nil {
			return err
		}
		if err := setCell(f, SummarySheet, 2, i+1, kv[1], 0); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 30)
}

// highlight renders a top record as "label (difference)".
func highlight(rec *types.ComparisonRecord, report *Report) string {
	if rec == nil {
		return format.EmptyCell
	}
	return fmt.Sprintf("%s (%s)", stats.Label(rec), format.Difference(rec.Delta, report.monetary(rec.Indicator)))
}

// =============================================================================
// HELPERS
// =============================================================================

// setCell writes value at (col, row), 1-based, applying style when non-zero.
func setCell(f *excelize.File, sheet string, col, row int, value any, style int) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, name, value); err != nil {
		return err
	}
	if style != 0 {
		return f.SetCellStyle(sheet, name, name, style)
	}
	return nil
}

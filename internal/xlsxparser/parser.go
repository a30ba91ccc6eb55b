// =============================================================================
// Comparativo - XLSX Upload Parser
// =============================================================================
//
// This module reads a period snapshot exported as a workbook instead of CSV.
// The first sheet is treated like a CSV file:
//   - The first non-empty row is the header row
//   - Empty rows are skipped
//   - Rows with more cells than headers are dropped; shorter rows are padded
//     with "" because workbooks do not store trailing blank cells
//   - Indicator columns are coerced to float64
//
// NUMERIC CELLS:
//   Cells are read raw, so a numeric cell arrives as "1234.5". Raw numbers
//   are parsed as-is; text cells ("R$ 1.234,50") go through the same
//   Brazilian cleaning as CSV values. Values beyond float64 range become 0.
//
// =============================================================================

package xlsxparser

import (
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Vitorkla/comparativo/internal/csvparser"
	"github.com/Vitorkla/comparativo/internal/types"
)

// Parse reads the first sheet of a workbook into a Dataset.
//
// PARAMETERS:
//   - r: the workbook bytes.
//   - source: the upload name, used in error messages.
//   - dec: supplies the indicator set.
//   - expectedColumns: header names that must be present.
//
// RETURNS:
//   - The Dataset.
//   - *types.ReadError when the workbook cannot be opened or read,
//     *types.SchemaError or *types.EmptyDataError otherwise.
func Parse(r io.Reader, source string, dec *csvparser.Decoder, expectedColumns []string) (*types.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &types.ReadError{Source: source, Err: err}
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, &types.EmptyDataError{Source: source}
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &types.ReadError{Source: source, Err: err}
	}

	var headers []string
	dataset := &types.Dataset{Source: source}

	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}

		cells := trimCells(row)
		if headers == nil {
			headers = cells
			continue
		}

		if len(cells) > len(headers) {
			continue
		}
		for len(cells) < len(headers) {
			cells = append(cells, "")
		}

		dataset.Rows = append(dataset.Rows, buildRow(dec, headers, cells))
	}

	if headers == nil {
		return nil, &types.EmptyDataError{Source: source}
	}
	dataset.Headers = headers

	if missing := csvparser.MissingColumns(headers, expectedColumns); len(missing) > 0 {
		return nil, &types.SchemaError{Source: source, Missing: missing}
	}
	if len(dataset.Rows) == 0 {
		return nil, &types.EmptyDataError{Source: source}
	}

	return dataset, nil
}

// buildRow coerces indicator cells, preferring the raw numeric value.
func buildRow(dec *csvparser.Decoder, headers, cells []string) types.Row {
	row := make(types.Row, len(headers))
	for i, header := range headers {
		if !dec.IsNumericColumn(header) {
			row[header] = cells[i]
			continue
		}
		if d, err := decimal.NewFromString(cells[i]); err == nil && csvparser.IsFinite(d) {
			row[header] = d.InexactFloat64()
		} else {
			row[header] = csvparser.ParseNumeric(cells[i])
		}
	}
	return row
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimCells(row []string) []string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

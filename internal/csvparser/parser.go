// =============================================================================
// Comparativo - CSV Decoder Module
// =============================================================================
//
// This module turns the raw text of one uploaded period into a typed Dataset.
//
// PARSING RULES:
//   - Lines are split on "\n"; blank or whitespace-only lines are discarded.
//     Embedded newlines inside quoted fields are NOT supported.
//   - Fields are split on "," only while outside quotes. Every '"' toggles
//     the in-quotes flag and is dropped from the value. Values are trimmed.
//   - Rows whose field count differs from the header's are silently dropped.
//   - Columns in the indicator set are coerced to float64 (see numeric.go);
//     every other column stays a string.
//
// VALIDATION:
//   - Any expected column missing from the header -> *types.SchemaError
//   - No data row left after parsing             -> *types.EmptyDataError
//   - The reader fails                           -> *types.ReadError
//
// The lenient policy (drop bad rows, zero bad numbers) is a product decision
// kept from the dashboard this replaces.
//
// =============================================================================

package csvparser

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Vitorkla/comparativo/internal/types"
)

// =============================================================================
// DECODER
// =============================================================================

// Decoder decodes CSV text for a fixed indicator set.
type Decoder struct {
	indicators map[string]bool
	logger     *slog.Logger
}

// NewDecoder returns a Decoder that coerces the given columns to numbers.
func NewDecoder(indicators []string, logger *slog.Logger) *Decoder {
	set := make(map[string]bool, len(indicators))
	for _, name := range indicators {
		set[name] = true
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{indicators: set, logger: logger}
}

// IsNumericColumn reports whether the column is coerced to a number.
func (d *Decoder) IsNumericColumn(column string) bool {
	return d.indicators[column]
}

// Decode parses CSV text and checks it declares every expected column.
//
// PARAMETERS:
//   - text: the whole file content.
//   - expectedColumns: header names that must be present.
//
// RETURNS:
//   - The Dataset, with numeric indicator values.
//   - A *types.SchemaError or *types.EmptyDataError.
func (d *Decoder) Decode(text string, expectedColumns []string) (*types.Dataset, error) {
	return d.decode(text, "", expectedColumns)
}

// DecodeReader reads r fully and decodes it. source names the upload in
// error messages.
func (d *Decoder) DecodeReader(r io.Reader, source string, expectedColumns []string) (*types.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &types.ReadError{Source: source, Err: err}
	}
	return d.decode(string(data), source, expectedColumns)
}

func (d *Decoder) decode(text, source string, expectedColumns []string) (*types.Dataset, error) {
	lines := splitLines(strings.TrimPrefix(text, "\ufeff"))
	if len(lines) == 0 {
		return nil, &types.EmptyDataError{Source: source}
	}

	headers := SplitLine(lines[0])
	dataset := &types.Dataset{
		Headers: headers,
		Rows:    make([]types.Row, 0, len(lines)-1),
		Source:  source,
	}

	dropped := 0
	for _, line := range lines[1:] {
		values := SplitLine(line)
		if len(values) != len(headers) {
			dropped++
			continue
		}
		dataset.Rows = append(dataset.Rows, d.BuildRow(headers, values))
	}

	d.logger.Debug("decoded csv",
		"source", source,
		"columns", len(headers),
		"rows", len(dataset.Rows),
		"dropped", dropped,
	)

	if missing := MissingColumns(headers, expectedColumns); len(missing) > 0 {
		return nil, &types.SchemaError{Source: source, Missing: missing}
	}

	if len(dataset.Rows) == 0 {
		return nil, &types.EmptyDataError{Source: source}
	}

	return dataset, nil
}

// BuildRow maps values onto headers, coercing indicator columns.
// len(values) must equal len(headers).
func (d *Decoder) BuildRow(headers, values []string) types.Row {
	row := make(types.Row, len(headers))
	for i, header := range headers {
		if d.indicators[header] {
			row[header] = ParseNumeric(values[i])
		} else {
			row[header] = values[i]
		}
	}
	return row
}

// =============================================================================
// LINE AND FIELD SPLITTING
// =============================================================================

// splitLines splits on "\n" and drops blank lines.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitLine splits one CSV line into trimmed field values.
//
// Quote characters toggle the in-quotes state and are never emitted, so
// `"1.234,56"` yields 1.234,56 and `a""b` yields ab.
func SplitLine(line string) []string {
	var (
		values   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(values, strings.TrimSpace(current.String()))
}

// =============================================================================
// SCHEMA CHECK
// =============================================================================

// MissingColumns returns the expected columns absent from headers, in
// expected order.
func MissingColumns(headers, expected []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, col := range expected {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	return missing
}

package csvparser

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitorkla/comparativo/internal/types"
)

var testIndicators = []string{"CapitalSocial", "Associados"}

var testExpected = []string{"Branch", "Manager", "CapitalSocial", "Associados"}

func newTestDecoder() *Decoder {
	return NewDecoder(testIndicators, nil)
}

// ----------------------------------------------------------------------------
// ParseNumeric
// ----------------------------------------------------------------------------

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"currency with thousands and decimals", "R$ 1.234,56", 1234.56},
		{"empty", "", 0},
		{"letters", "abc", 0},
		{"plain integer", "42", 42},
		{"decimal comma only", "0,5", 0.5},
		{"millions", "R$ 1.234.567,89", 1234567.89},
		{"negative currency", "-R$ 500,00", -500},
		{"whitespace only", "   ", 0},
		{"non-breaking space after symbol", "R$\u00a01.000,00", 1000},
		{"numeric prefix is kept", "12abc", 12},
		{"only first comma is decimal", "1,5,7", 1.5},
		{"leading decimal separator", ",75", 0.75},
		{"explicit plus sign", "+10", 10},
		{"beyond float64 range", "1e400", 0},
		{"negative beyond float64 range", "-1e400", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumeric(tt.input), 1e-9)
		})
	}
}

func TestParseDecimal_ReportsFailure(t *testing.T) {
	_, ok := ParseDecimal("abc")
	assert.False(t, ok)

	_, ok = ParseDecimal("1e400")
	assert.False(t, ok, "overflowing float64 is not a number")

	d, ok := ParseDecimal("R$ 0,10")
	require.True(t, ok)
	assert.Equal(t, "0.1", d.String())
}

// ----------------------------------------------------------------------------
// SplitLine
// ----------------------------------------------------------------------------

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"trims values", " a , b ", []string{"a", "b"}},
		{"quoted comma", `Centro,"R$ 1.234,56"`, []string{"Centro", "R$ 1.234,56"}},
		{"quotes stripped not escaped", `"a""b",c`, []string{"ab", "c"}},
		{"trailing empty field", "a,", []string{"a", ""}},
		{"carriage return trimmed", "a,b\r", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

// ----------------------------------------------------------------------------
// Decode
// ----------------------------------------------------------------------------

func TestDecode_TypesIndicatorColumns(t *testing.T) {
	text := "Branch,Manager,CapitalSocial,Associados\n" +
		`Centro,Ana,"R$ 1.000,00",12` + "\n"

	ds, err := newTestDecoder().Decode(text, testExpected)
	require.NoError(t, err)

	assert.Equal(t, testExpected, ds.Headers)
	require.Len(t, ds.Rows, 1)
	row := ds.Rows[0]
	assert.Equal(t, "Centro", row["Branch"])
	assert.Equal(t, "Ana", row["Manager"])
	assert.Equal(t, 1000.0, row["CapitalSocial"])
	assert.Equal(t, 12.0, row["Associados"])
}

func TestDecode_DropsBlankLinesAndMismatchedRows(t *testing.T) {
	// Norte has too few fields and Sul too many; both are dropped.
	text := "\ufeffBranch,Manager,CapitalSocial,Associados\r\n" +
		"\r\n" +
		"Centro,Ana,100,1\r\n" +
		"   \n" +
		"Norte,Bia,200\r\n" +
		"Sul,Caio,300,3,extra\r\n" +
		"Leste,Duda,abc,4\r\n"

	ds, err := newTestDecoder().Decode(text, testExpected)
	require.NoError(t, err)

	require.Len(t, ds.Rows, 2)
	assert.Equal(t, "Centro", ds.Rows[0]["Branch"])
	assert.Equal(t, "Leste", ds.Rows[1]["Branch"])
	assert.Equal(t, 0.0, ds.Rows[1]["CapitalSocial"], "malformed number coerces to zero")
}

func TestDecode_SchemaErrorNamesExactlyMissingColumns(t *testing.T) {
	text := "Branch,CapitalSocial\nCentro,100\n"

	_, err := newTestDecoder().Decode(text, testExpected)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSchema))

	var schemaErr *types.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Manager", "Associados"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "Manager, Associados")
}

func TestDecode_EmptyData(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no lines", ""},
		{"blank lines only", "\n  \n\n"},
		{"header only", "Branch,Manager,CapitalSocial,Associados\n"},
		{"every row mismatched", "Branch,Manager,CapitalSocial,Associados\nCentro,Ana\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestDecoder().Decode(tt.text, testExpected)
			assert.ErrorIs(t, err, types.ErrEmptyData)
		})
	}
}

func TestDecode_OverflowingCellIsZero(t *testing.T) {
	ds, err := newTestDecoder().Decode("Branch,Manager,CapitalSocial,Associados\nCentro,Ana,1e400,3\n", testExpected)
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Equal(t, 0.0, ds.Rows[0]["CapitalSocial"])
	assert.Equal(t, 3.0, ds.Rows[0]["Associados"])
}

func TestDecode_SchemaCheckedBeforeEmptiness(t *testing.T) {
	_, err := newTestDecoder().Decode("Branch\n", testExpected)
	assert.ErrorIs(t, err, types.ErrSchema)
}

func TestDecodeReader_ReadError(t *testing.T) {
	cause := errors.New("disk gone")

	_, err := newTestDecoder().DecodeReader(iotest.ErrReader(cause), "a.csv", testExpected)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrRead)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "a.csv")
}

func TestDecodeReader_SetsSource(t *testing.T) {
	text := "Branch,Manager,CapitalSocial,Associados\nCentro,Ana,1,2\n"

	ds, err := newTestDecoder().DecodeReader(strings.NewReader(text), "jan.csv", testExpected)
	require.NoError(t, err)
	assert.Equal(t, "jan.csv", ds.Source)
}

func TestMissingColumns(t *testing.T) {
	assert.Empty(t, MissingColumns([]string{"a", "b"}, []string{"b", "a"}))
	assert.Equal(t, []string{"c"}, MissingColumns([]string{"a"}, []string{"a", "c"}))
}

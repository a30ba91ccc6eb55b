package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Vitorkla/comparativo/internal/stats"
	"github.com/Vitorkla/comparativo/internal/table"
	"github.com/Vitorkla/comparativo/internal/types"
)

func sampleReport() Report {
	records := []types.ComparisonRecord{
		{EntityKey: types.EntityKey{Manager: "Ana", Branch: "Centro"}, Indicator: "Capital", ValueBefore: 1000, ValueAfter: 1500, Delta: 500, PercentChange: 50},
		{EntityKey: types.EntityKey{Manager: "Ana", Branch: "Centro"}, Indicator: "Associados", ValueBefore: 10, ValueAfter: 8, Delta: -2, PercentChange: -20},
		{EntityKey: types.EntityKey{Manager: "Bia", Branch: "Norte"}, Indicator: "Capital", ValueBefore: 200, ValueAfter: 200},
	}
	indicators := []string{"Capital", "Associados"}

	return Report{
		SessionID:    "sess-1",
		ManagerLabel: "Gerente",
		BranchLabel:  "Agência",
		Indicators:   indicators,
		IsMonetary:   func(name string) bool { return name == "Capital" },
		Table:        table.Project(records, indicators, types.DefaultSort()),
		Summary:      stats.Summarize(records),
		GeneratedAt:  time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
	}
}

func readSheet(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return rows
}

func TestWrite_TableSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport()))

	rows := readSheet(t, buf.Bytes(), TableSheet)
	require.Len(t, rows, 3)

	assert.Equal(t, TableHeaders("Gerente", "Agência", []string{"Capital", "Associados"}), rows[0])
	assert.Equal(t, []string{"Ana", "Centro", "1000", "1500", "500", "50", "10", "8", "-2", "-20"}, rows[1])
	assert.Equal(t, []string{"Bia", "Norte", "200", "200", "0", "0", "—", "—", "—", "—"}, rows[2])
}

func TestWrite_SummarySheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleReport()))

	rows := readSheet(t, buf.Bytes(), SummarySheet)
	require.Len(t, rows, 6)

	assert.Equal(t, []string{"Sessão", "sess-1"}, rows[0])
	assert.Equal(t, []string{"Gerado em", "31/01/2024 10:00:00"}, rows[1])
	assert.Equal(t, []string{"Gerentes", "2"}, rows[2])
	assert.Equal(t, []string{"Agências", "2"}, rows[3])
	assert.Equal(t, []string{"Maior crescimento", "Ana - Capital (+R$ 500,00)"}, rows[4])
	assert.Equal(t, []string{"Maior queda", "Ana - Associados (-2)"}, rows[5])
}

func TestWrite_Placeholder(t *testing.T) {
	report := sampleReport()
	report.Indicators = nil
	report.Table = table.Project(nil, nil, types.DefaultSort())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, report))

	rows := readSheet(t, buf.Bytes(), TableSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{table.NoIndicatorsSelected.Message()}, rows[1])
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Save(path, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TableSheet, SummarySheet}, f.GetSheetList())
}

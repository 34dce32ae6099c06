package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-comparison/internal/domain"
)

func sampleReport() *domain.ComparisonReport {
	customers := []domain.AggregateRow{
		{EntityID: "C1", LabelPrev: "Alice", LabelCurr: "Alice", AmountPrev: 150, AmountCurr: 150},
		{EntityID: "C2", LabelPrev: "Bob", LabelCurr: "Bob", AmountPrev: 200, AmountCurr: 100, GrowthPct: -50},
		{AmountPrev: 350, AmountCurr: 250, GrowthPct: -28.571428, IsTotal: true},
	}
	return &domain.ComparisonReport{
		Filter:        domain.FilterSpec{Months: []int{1, 2}},
		ReferenceDate: time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
		Overview: domain.NewResult(domain.HeadlineMetrics{
			TotalPrev: 350, TotalCurr: 250, GrowthPct: -28.571428, OrdersPrev: 2, OrdersCurr: 2,
		}, nil),
		Customers: domain.NewResult(customers, nil),
		Products:  domain.NewResult(customers[2:], nil),
		SalesReps: domain.NewResult[[]domain.AggregateRow](nil, &domain.InvalidInputError{Op: "aggregate", Reason: "no dataset to aggregate"}),
		RepShares: domain.NewResult(domain.RepShares{
			Previous: []domain.ShareRow{{Key: "R1", Amount: 150, SharePct: 42.857142}, {Key: "R2", Amount: 200, SharePct: 57.142857}},
			Current:  []domain.ShareRow{{Key: "R1", Amount: 250, SharePct: 100}},
		}, nil),
		RepBreakdowns: domain.NewResult(map[string][]domain.AggregateRow{
			"R2": {customers[1], {AmountPrev: 200, AmountCurr: 100, GrowthPct: -50, IsTotal: true}},
			"R1": {customers[0], {AmountPrev: 150, AmountCurr: 150, IsTotal: true}},
		}, nil),
		CustomerTrend: domain.NewResult(domain.TrendSeries{
			Key:      domain.GroupByCustomer,
			Previous: []domain.TrendPoint{{Month: 1, Key: "C1", Amount: 150}},
			Current:  []domain.TrendPoint{{Month: 1, Key: "C1", Amount: 150}, {Month: 2, Key: "C2", Amount: 100}},
		}, nil),
		RFM: domain.NewResult(domain.RFMTable{
			Records:        []domain.RFMRecord{{CustomerID: "C1", Name: "Alice", RecencyDays: 36, Frequency: 1, Monetary: 150, RecencyScore: 1, FrequencyScore: 1, MonetaryScore: 1, Segment: "111"}},
			TotalFrequency: 1,
			TotalMonetary:  150,
		}, nil),
		Summary: domain.NewResult(domain.SummaryReport{Rows: []domain.SummaryRow{
			{Metric: domain.MetricRows, Previous: 3, Current: 2},
			{Metric: domain.MetricNetAmount, Previous: 350, Current: 250},
		}}, nil),
	}
}

func fixedExporter() *ExportRepository {
	return &ExportRepository{now: func() time.Time { return time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC) }}
}

func TestExportRepository_ExportToXLSX(t *testing.T) {
	dir := t.TempDir()

	path, err := fixedExporter().ExportToXLSX(sampleReport(), "comparison", dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "comparison_20250301_093000.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SheetSummary, SheetOverview, SheetCustomers, SheetProducts, SheetSalesReps,
		SheetRepShares, SheetRepCustomers, SheetRFM, SheetTrend,
	}, f.GetSheetList())

	rows, err := f.GetRows(SheetCustomers)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "C1", rows[1][0])
	assert.Equal(t, "Total", rows[3][0])

	notice, err := f.GetCellValue(SheetSalesReps, "A1")
	require.NoError(t, err)
	assert.Contains(t, notice, "Unavailable: aggregate")

	shares, err := f.GetRows(SheetRepShares)
	require.NoError(t, err)
	require.Len(t, shares, 4)
	assert.Equal(t, []string{"Period", "Sales rep", "Amount", "Share %"}, shares[0])
	assert.Equal(t, []string{"previous", "R1", "150"}, shares[1][:3])
	assert.Equal(t, []string{"current", "R1", "250", "100"}, shares[3])

	repCustomers, err := f.GetRows(SheetRepCustomers)
	require.NoError(t, err)
	require.Len(t, repCustomers, 5)
	assert.Equal(t, "Sales rep", repCustomers[0][0])
	assert.Equal(t, []string{"R1", "C1"}, repCustomers[1][:2])
	assert.Equal(t, []string{"R1", "Total"}, repCustomers[2][:2])
	assert.Equal(t, []string{"R2", "C2"}, repCustomers[3][:2])
	assert.Equal(t, []string{"R2", "Total"}, repCustomers[4][:2])

	trend, err := f.GetRows(SheetTrend)
	require.NoError(t, err)
	assert.Len(t, trend, 4)

	rfm, err := f.GetRows(SheetRFM)
	require.NoError(t, err)
	assert.Equal(t, "111", rfm[1][8])
	assert.Equal(t, "Total", rfm[2][0])
}

func TestExportRepository_ExportToJSON(t *testing.T) {
	path, err := fixedExporter().ExportToJSON(sampleReport(), "comparison", t.TempDir())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Contains(t, decoded, "overview")

	var salesReps struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(decoded["sales_reps"], &salesReps))
	assert.Equal(t, "aggregate: no dataset to aggregate", salesReps.Error)
}

func TestExportRepository_ExportToPDF(t *testing.T) {
	path, err := fixedExporter().Export(sampleReport(), FormatPDF, "comparison", t.TempDir())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestWritePDF_MultiByteLabels(t *testing.T) {
	report := sampleReport()
	report.Customers = domain.NewResult([]domain.AggregateRow{
		{EntityID: "C9", LabelCurr: "Công ty Trách nhiệm Hữu hạn Thương mại Dịch vụ Đông Á", AmountCurr: 10},
	}, nil)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, report))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "Đông Á Đông", truncate("Đông Á Đông", 11))

	got := truncate("Công ty Trách nhiệm Hữu hạn Thương mại Dịch vụ Đông Á", 20)
	assert.Equal(t, "Công ty Trách nhi...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
}

func TestExportRepository_Export_UnknownFormat(t *testing.T) {
	dir := t.TempDir()

	_, err := fixedExporter().Export(sampleReport(), "docx", "comparison", dir)

	assert.Error(t, err)
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestWriteXLSX_StreamsWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 9)
}

func TestExportRepository_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	path, err := fixedExporter().ExportToJSON(sampleReport(), "r", dir)

	require.NoError(t, err)
	_, statErr := os.Stat(path)
	assert.False(t, errors.Is(statErr, os.ErrNotExist))
}

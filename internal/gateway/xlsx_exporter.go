package gateway

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"

	"sales-comparison/internal/domain"
)

// Workbook sheet names, in order.
const (
	SheetSummary      = "Summary"
	SheetOverview     = "Overview"
	SheetCustomers    = "Customers"
	SheetProducts     = "Products"
	SheetSalesReps    = "SalesReps"
	SheetRepShares    = "RepShares"
	SheetRepCustomers = "RepCustomers"
	SheetRFM          = "RFM"
	SheetTrend        = "Trend"
)

var comparisonHeader = []any{"ID", "Label (previous)", "Label (current)", "Previous", "Current", "Growth %"}

// BuildWorkbook lays a comparison report out as an XLSX workbook, one sheet
// per panel. A panel that could not be computed gets a one-line notice.
// The caller must close the returned file.
func BuildWorkbook(report *domain.ComparisonReport) (*excelize.File, error) {
	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating header style: %w", err)
	}

	w := &sheetWriter{f: f, headerStyle: headerStyle}
	w.summary(report.Summary)
	w.overview(report)
	w.comparison(SheetCustomers, report.Customers)
	w.comparison(SheetProducts, report.Products)
	w.comparison(SheetSalesReps, report.SalesReps)
	w.repShares(report.RepShares)
	w.repCustomers(report.RepBreakdowns)
	w.rfm(report.RFM)
	w.trend(report)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("error removing default sheet: %w", err)
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX streams the workbook of a report to out.
func WriteXLSX(out io.Writer, report *domain.ComparisonReport) error {
	f, err := BuildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error so that sheets can be written in a row.
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	err         error
}

func (w *sheetWriter) sheet(name string, header []any, rows [][]any) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = fmt.Errorf("error creating sheet %s: %w", name, err)
		return
	}
	if header != nil {
		rows = append([][]any{header}, rows...)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = fmt.Errorf("error writing sheet %s: %w", name, err)
			return
		}
	}
	if header != nil && len(rows) > 0 {
		if err := w.f.SetRowStyle(name, 1, 1, w.headerStyle); err != nil {
			w.err = fmt.Errorf("error styling sheet %s: %w", name, err)
		}
	}
}

func (w *sheetWriter) unavailable(name string, reason string) {
	w.sheet(name, nil, [][]any{{"Unavailable: " + reason}})
}

func (w *sheetWriter) summary(panel domain.Result[domain.SummaryReport]) {
	if !panel.OK() {
		w.unavailable(SheetSummary, panel.ErrMessage())
		return
	}
	rows := make([][]any, 0, len(panel.Value.Rows))
	for _, r := range panel.Value.Rows {
		rows = append(rows, []any{r.Metric, r.Previous, r.Current})
	}
	w.sheet(SheetSummary, []any{"Metric", "Previous", "Current"}, rows)
}

func (w *sheetWriter) overview(report *domain.ComparisonReport) {
	panel := report.Overview
	if !panel.OK() {
		w.unavailable(SheetOverview, panel.ErrMessage())
		return
	}
	m := panel.Value
	w.sheet(SheetOverview, []any{"Metric", "Previous", "Current", "Change"}, [][]any{
		{"Net amount", m.TotalPrev, m.TotalCurr, m.GrowthPct},
		{"Orders", m.OrdersPrev, m.OrdersCurr, m.OrdersDelta},
		{"Reference date", "", report.ReferenceDate.Format("02/01/2006"), ""},
	})
}

func (w *sheetWriter) comparison(name string, panel domain.Result[[]domain.AggregateRow]) {
	if !panel.OK() {
		w.unavailable(name, panel.ErrMessage())
		return
	}
	rows := make([][]any, 0, len(panel.Value))
	for _, r := range panel.Value {
		id := r.EntityID
		if r.IsTotal {
			id = "Total"
		}
		rows = append(rows, []any{id, r.LabelPrev, r.LabelCurr, r.AmountPrev, r.AmountCurr, r.GrowthPct})
	}
	w.sheet(name, comparisonHeader, rows)
}

func (w *sheetWriter) repShares(panel domain.Result[domain.RepShares]) {
	if !panel.OK() {
		w.unavailable(SheetRepShares, panel.ErrMessage())
		return
	}
	var rows [][]any
	for _, period := range []struct {
		name   domain.Period
		shares []domain.ShareRow
	}{
		{domain.PeriodPrevious, panel.Value.Previous},
		{domain.PeriodCurrent, panel.Value.Current},
	} {
		for _, s := range period.shares {
			rows = append(rows, []any{string(period.name), s.Key, s.Amount, s.SharePct})
		}
	}
	w.sheet(SheetRepShares, []any{"Period", "Sales rep", "Amount", "Share %"}, rows)
}

// repCustomers stacks the customer table of every sales rep, reps sorted.
func (w *sheetWriter) repCustomers(panel domain.Result[map[string][]domain.AggregateRow]) {
	if !panel.OK() {
		w.unavailable(SheetRepCustomers, panel.ErrMessage())
		return
	}
	header := append([]any{"Sales rep"}, comparisonHeader...)
	var rows [][]any
	for _, rep := range slices.Sorted(maps.Keys(panel.Value)) {
		for _, r := range panel.Value[rep] {
			id := r.EntityID
			if r.IsTotal {
				id = "Total"
			}
			rows = append(rows, []any{rep, id, r.LabelPrev, r.LabelCurr, r.AmountPrev, r.AmountCurr, r.GrowthPct})
		}
	}
	w.sheet(SheetRepCustomers, header, rows)
}

func (w *sheetWriter) rfm(panel domain.Result[domain.RFMTable]) {
	if !panel.OK() {
		w.unavailable(SheetRFM, panel.ErrMessage())
		return
	}
	rows := make([][]any, 0, len(panel.Value.Records)+1)
	for _, r := range panel.Value.Records {
		rows = append(rows, []any{
			r.CustomerID, r.Name, r.RecencyDays, r.Frequency, r.Monetary,
			r.RecencyScore, r.FrequencyScore, r.MonetaryScore, r.Segment,
		})
	}
	rows = append(rows, []any{"Total", "", "", panel.Value.TotalFrequency, panel.Value.TotalMonetary, "", "", "", ""})
	w.sheet(SheetRFM, []any{"Customer", "Name", "Recency (days)", "Frequency", "Monetary", "R", "F", "M", "Segment"}, rows)
}

func (w *sheetWriter) trend(report *domain.ComparisonReport) {
	var rows [][]any
	for _, panel := range []domain.Result[domain.TrendSeries]{report.CustomerTrend, report.ProductTrend, report.SalesRepTrend} {
		if !panel.OK() {
			continue
		}
		for _, p := range panel.Value.Previous {
			rows = append(rows, []any{string(panel.Value.Key), string(domain.PeriodPrevious), p.Month, p.Key, p.Amount})
		}
		for _, p := range panel.Value.Current {
			rows = append(rows, []any{string(panel.Value.Key), string(domain.PeriodCurrent), p.Month, p.Key, p.Amount})
		}
	}
	if rows == nil && !report.CustomerTrend.OK() {
		w.unavailable(SheetTrend, report.CustomerTrend.ErrMessage())
		return
	}
	w.sheet(SheetTrend, []any{"Dimension", "Period", "Month", "Key", "Amount"}, rows)
}

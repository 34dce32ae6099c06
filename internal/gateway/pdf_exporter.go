package gateway

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"sales-comparison/internal/domain"
)

// topRows caps the entity tables printed in the PDF summary.
const topRows = 15

// WritePDF renders a one-document summary of a report: the overview,
// the dataset summary and the head of the customer and product tables.
func WritePDF(out io.Writer, report *domain.ComparisonReport) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	sectionTitle := func(title string) {
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(3)
	}
	notice := func(text string) {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(120, 120, 120)
		pdf.MultiCell(190, 5, tr(text), "", "L", false)
		pdf.Ln(4)
	}
	table := func(widths []float64, header []string, rows [][]string) {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetTextColor(50, 50, 50)
		for i, h := range header {
			pdf.CellFormat(widths[i], 6, tr(h), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, row := range rows {
			for i, cell := range row {
				align := "L"
				if i > 0 && i >= len(row)-3 {
					align = "R"
				}
				pdf.CellFormat(widths[i], 5, tr(cell), "", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	pdf.AddPage()
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, "  Sales comparison", "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Reference date: %s   Filter: %s",
		report.ReferenceDate.Format("02/01/2006"), report.Filter.Key())), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	sectionTitle("Overview")
	if m := report.Overview; m.OK() {
		table([]float64{70, 40, 40, 40}, []string{"Metric", "Previous", "Current", "Change"}, [][]string{
			{"Net amount", money(m.Value.TotalPrev), money(m.Value.TotalCurr), percent(m.Value.GrowthPct)},
			{"Orders", fmt.Sprint(m.Value.OrdersPrev), fmt.Sprint(m.Value.OrdersCurr), fmt.Sprintf("%+d", m.Value.OrdersDelta)},
		})
	} else {
		notice(m.ErrMessage())
	}

	sectionTitle("Dataset summary")
	if s := report.Summary; s.OK() {
		rows := make([][]string, 0, len(s.Value.Rows))
		for _, r := range s.Value.Rows {
			format := func(v float64) string { return fmt.Sprintf("%.0f", v) }
			if r.Metric == domain.MetricNetAmount {
				format = money
			}
			rows = append(rows, []string{r.Metric, format(r.Previous), format(r.Current)})
		}
		table([]float64{70, 60, 60}, []string{"Metric", "Previous", "Current"}, rows)
	} else {
		notice(s.ErrMessage())
	}

	for _, section := range []struct {
		title string
		panel domain.Result[[]domain.AggregateRow]
	}{
		{"Customers", report.Customers},
		{"Products", report.Products},
	} {
		sectionTitle(section.title)
		if !section.panel.OK() {
			notice(section.panel.ErrMessage())
			continue
		}
		rows := make([][]string, 0, topRows+1)
		for _, r := range section.panel.Value {
			if !r.IsTotal && len(rows) >= topRows {
				continue
			}
			label := r.DisplayLabel()
			if r.IsTotal {
				label = "Total"
			}
			label = truncate(label, 40)
			rows = append(rows, []string{r.EntityID, label, money(r.AmountPrev), money(r.AmountCurr), percent(r.GrowthPct)})
		}
		table([]float64{25, 75, 30, 30, 30}, []string{"ID", "Name", "Previous", "Current", "Growth"}, rows)
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 10, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02")), "", 0, "L", false, 0, "")

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func percent(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

package cli

import (
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"sales-comparison/internal/domain"
)

// Predefined colors for growth figures.
var (
	growthUp   = color.New(color.FgGreen, color.Bold).SprintFunc()
	growthDown = color.New(color.FgRed, color.Bold).SprintFunc()
	growthFlat = color.New(color.FgYellow).SprintFunc()
)

// Console renders reports as terminal tables.
type Console struct {
	out io.Writer
	top int
}

// NewConsole creates a console writing to out. top bounds the rows printed
// per comparison table; zero or less prints every row.
func NewConsole(out io.Writer, top int) *Console {
	return &Console{out: out, top: top}
}

func (c *Console) Info(format string, a ...any) {
	fmt.Fprint(c.out, pterm.Info.Sprintfln(format, a...))
}

func (c *Console) Warning(format string, a ...any) {
	fmt.Fprint(c.out, pterm.Warning.Sprintfln(format, a...))
}

func (c *Console) Success(format string, a ...any) {
	fmt.Fprint(c.out, pterm.Success.Sprintfln(format, a...))
}

// PrintDatasets reports how many rows of each extract were kept and why
// the others were dropped.
func (c *Console) PrintDatasets(pair *domain.DatasetPair) {
	for _, ds := range []*domain.Dataset{pair.Previous, pair.Current} {
		if ds == nil {
			continue
		}
		c.Info("%s: %s, %d of %d rows kept", ds.Period, ds.Source, ds.Report.RowsKept, ds.Report.RowsInput)
		for _, reason := range []domain.RejectionReason{domain.RejectInvalidDate, domain.RejectInvalidNumeric} {
			if n := ds.Report.Dropped(reason); n > 0 {
				c.Warning("%s: dropped %d rows with %s", ds.Period, n, reason)
			}
		}
	}
}

// PrintReport renders every panel of the report.
func (c *Console) PrintReport(report *domain.ComparisonReport) {
	if report.Overview.OK() {
		c.overview(report.Overview.Value)
	} else {
		c.unavailable("Overview", report.Overview.ErrMessage())
	}

	c.comparison("Customers", report.Customers)
	c.comparison("Products", report.Products)
	c.comparison("Sales Reps", report.SalesReps)

	if report.RepShares.OK() {
		c.repShares(report.RepShares.Value)
	} else {
		c.unavailable("Sales Rep Shares", report.RepShares.ErrMessage())
	}
	if report.RepBreakdowns.OK() {
		for _, rep := range slices.Sorted(maps.Keys(report.RepBreakdowns.Value)) {
			c.comparison("Customers of "+rep, domain.NewResult(report.RepBreakdowns.Value[rep], nil))
		}
	} else {
		c.unavailable("Sales Rep Customers", report.RepBreakdowns.ErrMessage())
	}

	if report.RFM.OK() {
		c.rfm(report.RFM.Value)
	} else {
		c.unavailable("RFM", report.RFM.ErrMessage())
	}

	if report.Summary.OK() {
		c.summary(report.Summary.Value)
	} else {
		c.unavailable("Summary", report.Summary.ErrMessage())
	}
}

func (c *Console) overview(h domain.HeadlineMetrics) {
	c.section("Overview")
	c.table(pterm.TableData{
		{"Metric", "Previous", "Current", "Change"},
		{"Net Amount", money(h.TotalPrev), money(h.TotalCurr), growthText(h.GrowthPct)},
		{"Orders", strconv.Itoa(h.OrdersPrev), strconv.Itoa(h.OrdersCurr), fmt.Sprintf("%+d", h.OrdersDelta)},
	})
}

func (c *Console) comparison(title string, panel domain.Result[[]domain.AggregateRow]) {
	if !panel.OK() {
		c.unavailable(title, panel.ErrMessage())
		return
	}

	data := pterm.TableData{{"ID", "Name", "Previous", "Current", "Growth"}}
	shown := 0
	for _, row := range panel.Value {
		if row.IsTotal {
			data = append(data, []string{"Total", "", money(row.AmountPrev), money(row.AmountCurr), growthText(row.GrowthPct)})
			continue
		}
		if c.top > 0 && shown >= c.top {
			continue
		}
		shown++
		data = append(data, []string{row.EntityID, row.DisplayLabel(), money(row.AmountPrev), money(row.AmountCurr), growthText(row.GrowthPct)})
	}
	c.section(title)
	c.table(data)
}

// repShares lines up both periods by sales rep.
func (c *Console) repShares(shares domain.RepShares) {
	if len(shares.Previous) == 0 && len(shares.Current) == 0 {
		return
	}
	byRep := make(map[string][2]domain.ShareRow)
	for _, s := range shares.Previous {
		pair := byRep[s.Key]
		pair[0] = s
		byRep[s.Key] = pair
	}
	for _, s := range shares.Current {
		pair := byRep[s.Key]
		pair[1] = s
		byRep[s.Key] = pair
	}

	data := pterm.TableData{{"Sales Rep", "Previous", "Share", "Current", "Share"}}
	for _, rep := range slices.Sorted(maps.Keys(byRep)) {
		pair := byRep[rep]
		data = append(data, []string{rep, money(pair[0].Amount), share(pair[0].SharePct), money(pair[1].Amount), share(pair[1].SharePct)})
	}
	c.section("Sales Rep Shares")
	c.table(data)
}

func (c *Console) rfm(table domain.RFMTable) {
	data := pterm.TableData{{"Customer", "Name", "Recency", "Frequency", "Monetary", "Segment"}}
	for i, rec := range table.Records {
		if c.top > 0 && i >= c.top {
			break
		}
		data = append(data, []string{
			rec.CustomerID, rec.Name, strconv.Itoa(rec.RecencyDays),
			strconv.Itoa(rec.Frequency), money(rec.Monetary), rec.Segment,
		})
	}
	data = append(data, []string{"Total", "", "", strconv.Itoa(table.TotalFrequency), money(table.TotalMonetary), ""})
	c.section("RFM")
	c.table(data)
}

func (c *Console) summary(s domain.SummaryReport) {
	data := pterm.TableData{{"Metric", "Previous", "Current"}}
	for _, row := range s.Rows {
		if row.Metric == domain.MetricNetAmount {
			data = append(data, []string{row.Metric, money(row.Previous), money(row.Current)})
			continue
		}
		data = append(data, []string{row.Metric, strconv.FormatFloat(row.Previous, 'f', 0, 64), strconv.FormatFloat(row.Current, 'f', 0, 64)})
	}
	c.section("Dataset Summary")
	c.table(data)
}

func (c *Console) section(title string) {
	fmt.Fprintln(c.out, pterm.DefaultSection.Sprint(title))
}

func (c *Console) unavailable(title, reason string) {
	c.Warning("%s unavailable: %s", title, reason)
}

func (c *Console) table(data pterm.TableData) {
	rendered, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		c.Warning("could not render table: %v", err)
		return
	}
	fmt.Fprintln(c.out, rendered)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func share(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

func growthText(pct float64) string {
	switch {
	case math.Abs(pct) < 0.005:
		return growthFlat("0.00%")
	case pct > 0:
		return growthUp(fmt.Sprintf("▲ %.2f%%", pct))
	default:
		return growthDown(fmt.Sprintf("▼ %.2f%%", math.Abs(pct)))
	}
}

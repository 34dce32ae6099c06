package usecase

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"sales-comparison/internal/domain"
)

// Growth returns the period-over-period growth in percent. Growth from a
// zero previous amount is defined as 0.
func Growth(prev, curr float64) float64 {
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev * 100
}

// group is the running sum of one entity within one period.
type group struct {
	label  string
	amount decimal.Decimal
}

// keyOf extracts the grouping key and display label of a transaction.
func keyOf(key domain.GroupKey) (func(domain.Transaction) (string, string), error) {
	switch key {
	case domain.GroupByCustomer:
		return func(tx domain.Transaction) (string, string) { return tx.CustomerID, tx.CustomerName }, nil
	case domain.GroupByProduct:
		return func(tx domain.Transaction) (string, string) { return tx.ProductID, tx.ProductDescription }, nil
	case domain.GroupBySalesRep:
		return func(tx domain.Transaction) (string, string) { return tx.SalesRep, "" }, nil
	default:
		return nil, &domain.InvalidInputError{Op: "aggregate", Reason: fmt.Sprintf("unknown group key %q", key)}
	}
}

// sumBy groups a dataset by key, summing net amounts and keeping the first
// seen label of every entity.
func sumBy(ds *domain.Dataset, extract func(domain.Transaction) (string, string)) map[string]*group {
	groups := make(map[string]*group)
	if ds == nil {
		return groups
	}
	for _, tx := range ds.Transactions {
		id, label := extract(tx)
		g, ok := groups[id]
		if !ok {
			g = &group{label: label}
			groups[id] = g
		} else if g.label == "" {
			g.label = label
		}
		g.amount = g.amount.Add(decimal.NewFromFloat(tx.NetAmount))
	}
	return groups
}

// AggregateBy builds the comparison table of one dimension: the outer join
// of both periods' grouped sums, sorted by entity id, followed by a totals
// row.
func AggregateBy(prev, curr *domain.Dataset, key domain.GroupKey) ([]domain.AggregateRow, error) {
	extract, err := keyOf(key)
	if err != nil {
		return nil, err
	}
	if prev == nil && curr == nil {
		return nil, &domain.InvalidInputError{Op: "aggregate", Reason: "no dataset to aggregate"}
	}

	prevGroups := sumBy(prev, extract)
	currGroups := sumBy(curr, extract)

	ids := make([]string, 0, len(prevGroups)+len(currGroups))
	for id := range prevGroups {
		ids = append(ids, id)
	}
	for id := range currGroups {
		if _, ok := prevGroups[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	rows := make([]domain.AggregateRow, 0, len(ids)+1)
	totalPrev, totalCurr := decimal.Zero, decimal.Zero
	for _, id := range ids {
		row := domain.AggregateRow{EntityID: id}
		if g, ok := prevGroups[id]; ok {
			row.LabelPrev = g.label
			row.AmountPrev = g.amount.InexactFloat64()
			totalPrev = totalPrev.Add(g.amount)
		}
		if g, ok := currGroups[id]; ok {
			row.LabelCurr = g.label
			row.AmountCurr = g.amount.InexactFloat64()
			totalCurr = totalCurr.Add(g.amount)
		}
		row.GrowthPct = Growth(row.AmountPrev, row.AmountCurr)
		rows = append(rows, row)
	}

	total := domain.AggregateRow{
		AmountPrev: totalPrev.InexactFloat64(),
		AmountCurr: totalCurr.InexactFloat64(),
		IsTotal:    true,
	}
	total.GrowthPct = Growth(total.AmountPrev, total.AmountCurr)
	return append(rows, total), nil
}

// TrendBy sums net amounts by calendar month and key, for charting.
// Points are sorted by month, then key.
func TrendBy(ds *domain.Dataset, key domain.GroupKey) ([]domain.TrendPoint, error) {
	extract, err := keyOf(key)
	if err != nil {
		return nil, err
	}
	if ds.IsEmpty() {
		return []domain.TrendPoint{}, nil
	}

	type monthKey struct {
		month int
		key   string
	}
	sums := make(map[monthKey]decimal.Decimal)
	for _, tx := range ds.Transactions {
		id, _ := extract(tx)
		k := monthKey{month: int(tx.BillingDate.Month()), key: id}
		sums[k] = sums[k].Add(decimal.NewFromFloat(tx.NetAmount))
	}

	points := make([]domain.TrendPoint, 0, len(sums))
	for k, amount := range sums {
		points = append(points, domain.TrendPoint{Month: k.month, Key: k.key, Amount: amount.InexactFloat64()})
	}
	slices.SortFunc(points, func(a, b domain.TrendPoint) int {
		return cmp.Or(cmp.Compare(a.Month, b.Month), cmp.Compare(a.Key, b.Key))
	})
	return points, nil
}

// Trend returns the monthly series of both periods for one dimension.
func Trend(prev, curr *domain.Dataset, key domain.GroupKey) (domain.TrendSeries, error) {
	prevPoints, err := TrendBy(prev, key)
	if err != nil {
		return domain.TrendSeries{}, err
	}
	currPoints, err := TrendBy(curr, key)
	if err != nil {
		return domain.TrendSeries{}, err
	}
	return domain.TrendSeries{Key: key, Previous: prevPoints, Current: currPoints}, nil
}

// Total returns the summed net amount of a dataset.
func Total(ds *domain.Dataset) float64 {
	if ds == nil {
		return 0
	}
	sum := decimal.Zero
	for _, tx := range ds.Transactions {
		sum = sum.Add(decimal.NewFromFloat(tx.NetAmount))
	}
	return sum.InexactFloat64()
}

// CountOrders counts distinct (customer, calendar day) pairs: several
// lines billed to the same customer on the same day form one order.
func CountOrders(ds *domain.Dataset) int {
	if ds == nil {
		return 0
	}
	type orderKey struct {
		customer string
		day      time.Time
	}
	orders := make(map[orderKey]struct{}, len(ds.Transactions))
	for _, tx := range ds.Transactions {
		d := tx.BillingDate
		orders[orderKey{customer: tx.CustomerID, day: time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)}] = struct{}{}
	}
	return len(orders)
}

// Headline computes the overview metrics of a filtered pair.
func Headline(prev, curr *domain.Dataset) domain.HeadlineMetrics {
	m := domain.HeadlineMetrics{
		TotalPrev:  Total(prev),
		TotalCurr:  Total(curr),
		OrdersPrev: CountOrders(prev),
		OrdersCurr: CountOrders(curr),
	}
	m.GrowthPct = Growth(m.TotalPrev, m.TotalCurr)
	m.OrdersDelta = m.OrdersCurr - m.OrdersPrev
	return m
}

// RepShares returns every sales rep's amount and share of the period
// total, sorted by rep. Shares are 0 when the total is 0.
func RepShares(ds *domain.Dataset) []domain.ShareRow {
	extract, _ := keyOf(domain.GroupBySalesRep)
	groups := sumBy(ds, extract)

	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.amount)
	}

	rows := make([]domain.ShareRow, 0, len(groups))
	for rep, g := range groups {
		row := domain.ShareRow{Key: rep, Amount: g.amount.InexactFloat64()}
		if !total.IsZero() {
			row.SharePct = g.amount.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b domain.ShareRow) int { return cmp.Compare(a.Key, b.Key) })
	return rows
}

// RepCustomerBreakdown builds the customer comparison table of a single
// sales rep.
func RepCustomerBreakdown(prev, curr *domain.Dataset, rep string) ([]domain.AggregateRow, error) {
	spec := domain.FilterSpec{SalesReps: []string{rep}}
	return AggregateBy(Filter(prev, spec), Filter(curr, spec), domain.GroupByCustomer)
}

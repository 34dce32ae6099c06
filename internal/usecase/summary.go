package usecase

import (
	"sales-comparison/internal/domain"
)

// Summarize reports headline statistics of both unfiltered datasets.
func Summarize(prev, curr *domain.Dataset) (domain.SummaryReport, error) {
	if prev.IsEmpty() || curr.IsEmpty() {
		return domain.SummaryReport{}, &domain.InvalidInputError{Op: "summary", Reason: "both datasets must contain transactions"}
	}

	p, c := statsOf(prev), statsOf(curr)
	return domain.SummaryReport{Rows: []domain.SummaryRow{
		{Metric: domain.MetricRows, Previous: float64(p.rows), Current: float64(c.rows)},
		{Metric: domain.MetricMonths, Previous: float64(p.months), Current: float64(c.months)},
		{Metric: domain.MetricCustomers, Previous: float64(p.customers), Current: float64(c.customers)},
		{Metric: domain.MetricNetAmount, Previous: p.total, Current: c.total},
		{Metric: domain.MetricProducts, Previous: float64(p.products), Current: float64(c.products)},
		{Metric: domain.MetricSalesReps, Previous: float64(p.reps), Current: float64(c.reps)},
	}}, nil
}

type datasetStats struct {
	rows, months, customers, products, reps int
	total                                   float64
}

func statsOf(ds *domain.Dataset) datasetStats {
	type yearMonth struct {
		year  int
		month int
	}
	months := make(map[yearMonth]struct{})
	customers := make(map[string]struct{})
	products := make(map[string]struct{})
	reps := make(map[string]struct{})
	for _, tx := range ds.Transactions {
		months[yearMonth{tx.BillingDate.Year(), int(tx.BillingDate.Month())}] = struct{}{}
		customers[tx.CustomerID] = struct{}{}
		products[tx.ProductID] = struct{}{}
		if tx.SalesRep != "" {
			reps[tx.SalesRep] = struct{}{}
		}
	}
	return datasetStats{
		rows:      len(ds.Transactions),
		months:    len(months),
		customers: len(customers),
		products:  len(products),
		reps:      len(reps),
		total:     Total(ds),
	}
}

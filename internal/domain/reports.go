package domain

import (
	"encoding/json"
	"time"
)

// GroupKey selects the dimension used by the aggregation engine.
type GroupKey string

const (
	GroupByCustomer GroupKey = "customer"
	GroupByProduct  GroupKey = "product"
	GroupBySalesRep GroupKey = "sales_rep"
)

// AggregateRow is one entity of a period-over-period comparison table.
// The totals row has IsTotal set and empty id and labels.
type AggregateRow struct {
	EntityID   string  `json:"entity_id"`
	LabelPrev  string  `json:"label_prev"`
	LabelCurr  string  `json:"label_curr"`
	AmountPrev float64 `json:"amount_prev"`
	AmountCurr float64 `json:"amount_curr"`
	GrowthPct  float64 `json:"growth_pct"`
	IsTotal    bool    `json:"is_total"`
}

// DisplayLabel returns the current-period label, falling back to the
// previous-period one.
func (r AggregateRow) DisplayLabel() string {
	if r.LabelCurr != "" {
		return r.LabelCurr
	}
	return r.LabelPrev
}

// TrendPoint is the summed amount of one key within one calendar month.
type TrendPoint struct {
	Month  int     `json:"month"`
	Key    string  `json:"key"`
	Amount float64 `json:"amount"`
}

// TrendSeries holds the monthly trend of both periods for one dimension.
type TrendSeries struct {
	Key      GroupKey     `json:"key"`
	Previous []TrendPoint `json:"previous"`
	Current  []TrendPoint `json:"current"`
}

// HeadlineMetrics are the top-level figures of the overview panel.
type HeadlineMetrics struct {
	TotalPrev   float64 `json:"total_prev"`
	TotalCurr   float64 `json:"total_curr"`
	GrowthPct   float64 `json:"growth_pct"`
	OrdersPrev  int     `json:"orders_prev"`
	OrdersCurr  int     `json:"orders_curr"`
	OrdersDelta int     `json:"orders_delta"`
}

// ShareRow is one sales rep's contribution to a period total.
type ShareRow struct {
	Key      string  `json:"key"`
	Amount   float64 `json:"amount"`
	SharePct float64 `json:"share_pct"`
}

// RepShares holds the sales rep distribution of both periods.
type RepShares struct {
	Previous []ShareRow `json:"previous"`
	Current  []ShareRow `json:"current"`
}

// RFMRecord is the Recency/Frequency/Monetary profile of one customer.
type RFMRecord struct {
	CustomerID     string  `json:"customer_id"`
	Name           string  `json:"name"`
	RecencyDays    int     `json:"recency_days"`
	Frequency      int     `json:"frequency"`
	Monetary       float64 `json:"monetary"`
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	Segment        string  `json:"segment"`
}

// RFMTable is the RFM panel: one record per customer plus the totals row.
type RFMTable struct {
	Records        []RFMRecord `json:"records"`
	TotalFrequency int         `json:"total_frequency"`
	TotalMonetary  float64     `json:"total_monetary"`
}

// Summary metric labels, in report order.
const (
	MetricRows      = "Rows"
	MetricMonths    = "Months"
	MetricCustomers = "Customers"
	MetricNetAmount = "Net Amount"
	MetricProducts  = "Products"
	MetricSalesReps = "Sales Reps"
)

// SummaryRow is one line of the dataset summary.
type SummaryRow struct {
	Metric   string  `json:"metric"`
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

// SummaryReport provides headline statistics of both unfiltered datasets.
type SummaryReport struct {
	Rows []SummaryRow `json:"rows"`
}

// Value returns the previous and current values of a metric.
func (s SummaryReport) Value(metric string) (prev, curr float64, ok bool) {
	for _, row := range s.Rows {
		if row.Metric == metric {
			return row.Previous, row.Current, true
		}
	}
	return 0, 0, false
}

// Result carries either a panel value or the reason it could not be built.
type Result[T any] struct {
	Value T     `json:"value"`
	Err   error `json:"-"`
}

// OK reports whether the panel was computed.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// ErrMessage returns the panel error message, or "" when the panel is fine.
func (r Result[T]) ErrMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// MarshalJSON renders either the value or the error message of the panel.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := struct {
		Value *T     `json:"value,omitempty"`
		Error string `json:"error,omitempty"`
	}{Error: r.ErrMessage()}
	if r.Err == nil {
		v := r.Value
		out.Value = &v
	}
	return json.Marshal(out)
}

// NewResult wraps a value and an error into a Result.
func NewResult[T any](value T, err error) Result[T] {
	return Result[T]{Value: value, Err: err}
}

// ComparisonReport is the top-level structure handed to presentation layers.
type ComparisonReport struct {
	Filter        FilterSpec                        `json:"filter"`
	ReferenceDate time.Time                         `json:"reference_date"`
	Overview      Result[HeadlineMetrics]           `json:"overview"`
	Customers     Result[[]AggregateRow]            `json:"customers"`
	Products      Result[[]AggregateRow]            `json:"products"`
	SalesReps     Result[[]AggregateRow]            `json:"sales_reps"`
	CustomerTrend Result[TrendSeries]               `json:"customer_trend"`
	ProductTrend  Result[TrendSeries]               `json:"product_trend"`
	SalesRepTrend Result[TrendSeries]               `json:"sales_rep_trend"`
	RepShares     Result[RepShares]                 `json:"rep_shares"`
	RepBreakdowns Result[map[string][]AggregateRow] `json:"rep_breakdowns"`
	RFM           Result[RFMTable]                  `json:"rfm"`
	Summary       Result[SummaryReport]             `json:"summary"`
}

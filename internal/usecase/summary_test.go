package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-comparison/internal/domain"
	"sales-comparison/internal/usecase"
)

func TestSummarize(t *testing.T) {
	pair := samplePair()
	pair.Current.Transactions = append(pair.Current.Transactions,
		tx(day(2025, time.March, 1), "C1", "Alice", "P3", "", 25),
		tx(day(2024, time.March, 1), "C1", "Alice", "P3", "R1", 5),
	)

	report, err := usecase.Summarize(pair.Previous, pair.Current)
	require.NoError(t, err)

	metrics := make([]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		metrics = append(metrics, r.Metric)
	}
	assert.Equal(t, []string{
		domain.MetricRows,
		domain.MetricMonths,
		domain.MetricCustomers,
		domain.MetricNetAmount,
		domain.MetricProducts,
		domain.MetricSalesReps,
	}, metrics)

	tests := []struct {
		metric string
		prev   float64
		curr   float64
	}{
		{metric: domain.MetricRows, prev: 3, curr: 5},
		{metric: domain.MetricMonths, prev: 2, curr: 4},
		{metric: domain.MetricCustomers, prev: 2, curr: 3},
		{metric: domain.MetricNetAmount, prev: 350, curr: 580},
		{metric: domain.MetricProducts, prev: 2, curr: 3},
		{metric: domain.MetricSalesReps, prev: 2, curr: 2},
	}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			prev, curr, ok := report.Value(tt.metric)
			require.True(t, ok)
			assert.InDelta(t, tt.prev, prev, 1e-9)
			assert.InDelta(t, tt.curr, curr, 1e-9)
		})
	}

	_, _, ok := report.Value("Unknown")
	assert.False(t, ok)
}

func TestSummarize_EmptyDataset(t *testing.T) {
	pair := samplePair()

	_, err := usecase.Summarize(pair.Previous, dataset("e", domain.PeriodCurrent))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = usecase.Summarize(nil, pair.Current)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

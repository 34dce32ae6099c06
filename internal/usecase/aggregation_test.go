package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-comparison/internal/domain"
	"sales-comparison/internal/usecase"
)

func TestGrowth(t *testing.T) {
	tests := []struct {
		name string
		prev float64
		curr float64
		want float64
	}{
		{name: "increase", prev: 100, curr: 150, want: 50},
		{name: "decrease", prev: 200, curr: 100, want: -50},
		{name: "flat", prev: 80, curr: 80, want: 0},
		{name: "lost entirely", prev: 40, curr: 0, want: -100},
		{name: "zero previous is zero growth", prev: 0, curr: 500, want: 0},
		{name: "both zero", prev: 0, curr: 0, want: 0},
		{name: "negative previous", prev: -50, curr: 50, want: -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, usecase.Growth(tt.prev, tt.curr), 1e-9)
		})
	}
}

func TestAggregateBy(t *testing.T) {
	pair := samplePair()

	t.Run("products are outer joined with a totals row", func(t *testing.T) {
		rows, err := usecase.AggregateBy(pair.Previous, pair.Current, domain.GroupByProduct)

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, domain.AggregateRow{
			EntityID:   "P1",
			LabelPrev:  "desc P1",
			LabelCurr:  "desc P1",
			AmountPrev: 300,
			AmountCurr: 250,
			GrowthPct:  usecase.Growth(300, 250),
		}, rows[0])
		assert.Equal(t, "P2", rows[1].EntityID)
		assert.InDelta(t, 500.0, rows[1].GrowthPct, 1e-9)

		total := rows[2]
		assert.True(t, total.IsTotal)
		assert.InDelta(t, 350.0, total.AmountPrev, 1e-9)
		assert.InDelta(t, 550.0, total.AmountCurr, 1e-9)
	})

	t.Run("entity present in one period only", func(t *testing.T) {
		rows, err := usecase.AggregateBy(pair.Previous, pair.Current, domain.GroupByCustomer)

		require.NoError(t, err)
		c3 := rows[2]
		assert.Equal(t, "C3", c3.EntityID)
		assert.Empty(t, c3.LabelPrev)
		assert.Equal(t, "Carol", c3.LabelCurr)
		assert.Equal(t, "Carol", c3.DisplayLabel())
		assert.Equal(t, 0.0, c3.AmountPrev)
		assert.Equal(t, 0.0, c3.GrowthPct)
	})

	t.Run("totals equal the sum of the entity rows", func(t *testing.T) {
		for _, key := range []domain.GroupKey{domain.GroupByCustomer, domain.GroupByProduct, domain.GroupBySalesRep} {
			rows, err := usecase.AggregateBy(pair.Previous, pair.Current, key)
			require.NoError(t, err)

			var prev, curr float64
			for _, r := range rows[:len(rows)-1] {
				assert.False(t, r.IsTotal)
				prev += r.AmountPrev
				curr += r.AmountCurr
			}
			total := rows[len(rows)-1]
			assert.InDelta(t, total.AmountPrev, prev, 1e-6, string(key))
			assert.InDelta(t, total.AmountCurr, curr, 1e-6, string(key))
			assert.InDelta(t, usecase.Total(pair.Previous), total.AmountPrev, 1e-6, string(key))
		}
	})

	t.Run("one side nil", func(t *testing.T) {
		rows, err := usecase.AggregateBy(nil, pair.Current, domain.GroupBySalesRep)

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, 0.0, rows[0].AmountPrev)
		assert.InDelta(t, 150.0, rows[0].AmountCurr, 1e-9)
	})

	t.Run("both nil", func(t *testing.T) {
		_, err := usecase.AggregateBy(nil, nil, domain.GroupByCustomer)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := usecase.AggregateBy(pair.Previous, pair.Current, domain.GroupKey("region"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestTrendBy(t *testing.T) {
	ds := dataset("t", domain.PeriodCurrent,
		tx(day(2025, time.March, 3), "C2", "Bob", "P1", "R1", 10),
		tx(day(2025, time.January, 9), "C2", "Bob", "P1", "R1", 20),
		tx(day(2025, time.January, 2), "C1", "Alice", "P1", "R1", 5),
		tx(day(2025, time.January, 30), "C1", "Alice", "P2", "R1", 7.5),
	)

	points, err := usecase.TrendBy(ds, domain.GroupByCustomer)

	require.NoError(t, err)
	assert.Equal(t, []domain.TrendPoint{
		{Month: 1, Key: "C1", Amount: 12.5},
		{Month: 1, Key: "C2", Amount: 20},
		{Month: 3, Key: "C2", Amount: 10},
	}, points)

	empty, err := usecase.TrendBy(dataset("e", domain.PeriodCurrent), domain.GroupByProduct)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = usecase.TrendBy(ds, domain.GroupKey(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCountOrders(t *testing.T) {
	ds := dataset("o", domain.PeriodCurrent,
		tx(time.Date(2025, time.January, 5, 9, 0, 0, 0, time.UTC), "C1", "Alice", "P1", "R1", 1),
		tx(time.Date(2025, time.January, 5, 17, 30, 0, 0, time.UTC), "C1", "Alice", "P2", "R1", 1),
		tx(day(2025, time.January, 6), "C1", "Alice", "P1", "R1", 1),
		tx(day(2025, time.January, 5), "C2", "Bob", "P1", "R1", 1),
	)

	assert.Equal(t, 3, usecase.CountOrders(ds))
	assert.Equal(t, 0, usecase.CountOrders(nil))
}

func TestHeadline(t *testing.T) {
	pair := samplePair()

	got := usecase.Headline(pair.Previous, pair.Current)

	assert.InDelta(t, 350.0, got.TotalPrev, 1e-9)
	assert.InDelta(t, 550.0, got.TotalCurr, 1e-9)
	assert.Equal(t, got.OrdersCurr-got.OrdersPrev, got.OrdersDelta)

	fromZero := usecase.Headline(dataset("z", domain.PeriodPrevious), pair.Current)
	assert.Equal(t, 0.0, fromZero.GrowthPct)
	assert.Equal(t, 3, fromZero.OrdersDelta)
}

func TestRepShares(t *testing.T) {
	shares := usecase.RepShares(samplePair().Current)

	require.Len(t, shares, 2)
	assert.Equal(t, "R1", shares[0].Key)
	assert.InDelta(t, 150.0/550.0*100, shares[0].SharePct, 1e-9)
	assert.Equal(t, "R2", shares[1].Key)
	assert.InDelta(t, 100.0, shares[0].SharePct+shares[1].SharePct, 1e-9)

	zero := usecase.RepShares(dataset("z", domain.PeriodCurrent,
		tx(day(2025, time.May, 1), "C1", "Alice", "P1", "R1", 10),
		tx(day(2025, time.May, 2), "C1", "Alice", "P1", "R1", -10),
	))
	require.Len(t, zero, 1)
	assert.Equal(t, 0.0, zero[0].SharePct)

	assert.Empty(t, usecase.RepShares(nil))
}

func TestRepCustomerBreakdown(t *testing.T) {
	pair := samplePair()

	rows, err := usecase.RepCustomerBreakdown(pair.Previous, pair.Current, "R1")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "C1", rows[0].EntityID)
	assert.InDelta(t, 150.0, rows[0].AmountPrev, 1e-9)
	assert.InDelta(t, 150.0, rows[0].AmountCurr, 1e-9)
	assert.True(t, rows[1].IsTotal)
}

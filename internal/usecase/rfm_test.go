package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-comparison/internal/domain"
	"sales-comparison/internal/usecase"
)

func TestQuantileScores(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		inverted bool
		want     []int
	}{
		{
			name:   "four even buckets",
			values: []float64{1, 2, 3, 4, 5, 6, 7, 8},
			want:   []int{1, 1, 2, 2, 3, 3, 4, 4},
		},
		{
			name:     "inverted",
			values:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
			inverted: true,
			want:     []int{4, 4, 3, 3, 2, 2, 1, 1},
		},
		{
			name:   "input order is kept",
			values: []float64{8, 1, 5, 4},
			want:   []int{4, 1, 3, 2},
		},
		{
			name:   "ties merge duplicate edges",
			values: []float64{1, 1, 1, 5},
			want:   []int{1, 1, 1, 2},
		},
		{
			name:     "ties merge duplicate edges inverted",
			values:   []float64{1, 1, 1, 5},
			inverted: true,
			want:     []int{2, 2, 2, 1},
		},
		{
			name:   "single distinct value",
			values: []float64{3, 3, 3},
			want:   []int{1, 1, 1},
		},
		{
			name:     "single customer",
			values:   []float64{42},
			inverted: true,
			want:     []int{1},
		},
		{
			name:   "empty",
			values: []float64{},
			want:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := usecase.QuantileScores(tt.values, tt.inverted)
			assert.Equal(t, tt.want, got)
			for _, s := range got {
				assert.GreaterOrEqual(t, s, 1)
				assert.LessOrEqual(t, s, 4)
			}
		})
	}
}

func TestScore(t *testing.T) {
	reference := day(2025, time.February, 12)

	t.Run("segments follow recency frequency monetary", func(t *testing.T) {
		records, err := usecase.Score(samplePair().Current, reference)

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, domain.RFMRecord{
			CustomerID:     "C1",
			Name:           "Alice",
			RecencyDays:    36,
			Frequency:      1,
			Monetary:       150,
			RecencyScore:   1,
			FrequencyScore: 1,
			MonetaryScore:  2,
			Segment:        "112",
		}, records[0])
		assert.Equal(t, "411", records[1].Segment)
		assert.Equal(t, 0, records[1].RecencyDays)
		assert.Equal(t, "314", records[2].Segment)
	})

	t.Run("customer with two spellings is reconciled", func(t *testing.T) {
		ds := dataset("s", domain.PeriodCurrent,
			tx(day(2025, time.January, 1), "C1", "ACME", "P1", "R1", 100),
			tx(day(2025, time.February, 1), "C1", "Acme Ltd", "P1", "R1", 40),
			tx(day(2025, time.February, 10), "C2", "Bob", "P1", "R1", 10),
		)

		records, err := usecase.Score(ds, reference)

		require.NoError(t, err)
		require.Len(t, records, 2)
		c1 := records[0]
		assert.Equal(t, "C1", c1.CustomerID)
		assert.Equal(t, "ACME", c1.Name)
		assert.Equal(t, 11, c1.RecencyDays)
		assert.Equal(t, 2, c1.Frequency)
		assert.InDelta(t, 140.0, c1.Monetary, 1e-9)
		assert.Equal(t, usecase.Segment(c1.RecencyScore, c1.FrequencyScore, c1.MonetaryScore), c1.Segment)
	})

	t.Run("recency counts whole days", func(t *testing.T) {
		ds := dataset("h", domain.PeriodCurrent,
			tx(time.Date(2025, time.February, 10, 23, 0, 0, 0, time.UTC), "C1", "Alice", "P1", "R1", 1),
		)

		records, err := usecase.Score(ds, time.Date(2025, time.February, 12, 22, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.Equal(t, 1, records[0].RecencyDays)
		assert.Equal(t, "111", records[0].Segment)
	})

	t.Run("empty dataset", func(t *testing.T) {
		_, err := usecase.Score(dataset("e", domain.PeriodCurrent), reference)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = usecase.Score(nil, reference)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestReconcile(t *testing.T) {
	records := []domain.RFMRecord{
		{CustomerID: "C2", Name: "Zed", RecencyDays: 4, Frequency: 1, Monetary: 10, Segment: "211"},
		{CustomerID: "C1", Name: "ACME", RecencyDays: 10, Frequency: 2, Monetary: 100.25, Segment: "123"},
		{CustomerID: "C1", Name: "Acme Ltd", RecencyDays: 3, Frequency: 1, Monetary: 0.5, Segment: "444"},
	}

	got := usecase.Reconcile(records)

	require.Len(t, got, 2)
	assert.Equal(t, domain.RFMRecord{
		CustomerID: "C1", Name: "ACME", RecencyDays: 3, Frequency: 3, Monetary: 100.75, Segment: "123",
	}, got[0])
	assert.Equal(t, "C2", got[1].CustomerID)
	assert.Empty(t, usecase.Reconcile(nil))
}

func TestRFMTotals(t *testing.T) {
	table := usecase.RFMTotals([]domain.RFMRecord{
		{CustomerID: "C1", Frequency: 2, Monetary: 0.1},
		{CustomerID: "C2", Frequency: 5, Monetary: 0.2},
	})

	assert.Equal(t, 7, table.TotalFrequency)
	assert.Equal(t, 0.3, table.TotalMonetary)
	assert.Len(t, table.Records, 2)
}

func TestReferenceDate(t *testing.T) {
	now := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	pair := samplePair()
	empty := dataset("e", domain.PeriodCurrent)

	assert.Equal(t, day(2025, time.February, 12), usecase.ReferenceDate(pair.Previous, pair.Current, now))
	assert.Equal(t, day(2024, time.February, 10), usecase.ReferenceDate(pair.Previous, empty, now))
	assert.Equal(t, day(2025, time.February, 12), usecase.ReferenceDate(nil, pair.Current, now))
	assert.Equal(t, now, usecase.ReferenceDate(empty, nil, now))
}

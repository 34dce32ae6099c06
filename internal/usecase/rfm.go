package usecase

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"sales-comparison/internal/domain"
)

// quartiles are the quantile probabilities used for RFM bucket edges.
var quartiles = []float64{0, 0.25, 0.5, 0.75, 1}

// ReferenceDate returns the date recency is measured from: the latest
// billing date across both datasets, or now when both are empty.
func ReferenceDate(prev, curr *domain.Dataset, now time.Time) time.Time {
	ref, found := time.Time{}, false
	for _, ds := range []*domain.Dataset{prev, curr} {
		if latest, ok := ds.MaxBillingDate(); ok && (!found || latest.After(ref)) {
			ref, found = latest, true
		}
	}
	if !found {
		return now
	}
	return ref
}

// Score computes the RFM profile of every customer of a dataset, scored in
// quartiles against the rest of the population, and reconciled to one
// record per customer id.
func Score(ds *domain.Dataset, reference time.Time) ([]domain.RFMRecord, error) {
	if ds.IsEmpty() {
		return nil, &domain.InvalidInputError{Op: "rfm", Reason: "no transactions to score"}
	}

	// Step 1: Group by customer id and name.
	type customerKey struct {
		id   string
		name string
	}
	type profile struct {
		latest    time.Time
		frequency int
		monetary  decimal.Decimal
	}
	profiles := make(map[customerKey]*profile)
	for _, tx := range ds.Transactions {
		k := customerKey{id: tx.CustomerID, name: tx.CustomerName}
		p, ok := profiles[k]
		if !ok {
			p = &profile{latest: tx.BillingDate}
			profiles[k] = p
		}
		if tx.BillingDate.After(p.latest) {
			p.latest = tx.BillingDate
		}
		p.frequency++
		p.monetary = p.monetary.Add(decimal.NewFromFloat(tx.NetAmount))
	}

	keys := make([]customerKey, 0, len(profiles))
	for k := range profiles {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b customerKey) int {
		return cmp.Or(cmp.Compare(a.id, b.id), cmp.Compare(a.name, b.name))
	})

	records := make([]domain.RFMRecord, len(keys))
	recency := make([]float64, len(keys))
	frequency := make([]float64, len(keys))
	monetary := make([]float64, len(keys))
	for i, k := range keys {
		p := profiles[k]
		records[i] = domain.RFMRecord{
			CustomerID:  k.id,
			Name:        k.name,
			RecencyDays: int(math.Floor(reference.Sub(p.latest).Hours() / 24)),
			Frequency:   p.frequency,
			Monetary:    p.monetary.InexactFloat64(),
		}
		recency[i] = float64(records[i].RecencyDays)
		frequency[i] = float64(p.frequency)
		monetary[i] = records[i].Monetary
	}

	// Step 2: Quartile scores. Recency is inverted: the most recent buyers
	// get the highest score.
	recencyScores := QuantileScores(recency, true)
	frequencyScores := QuantileScores(frequency, false)
	monetaryScores := QuantileScores(monetary, false)
	for i := range records {
		records[i].RecencyScore = recencyScores[i]
		records[i].FrequencyScore = frequencyScores[i]
		records[i].MonetaryScore = monetaryScores[i]
		records[i].Segment = Segment(recencyScores[i], frequencyScores[i], monetaryScores[i])
	}

	// Step 3: One record per customer id.
	return Reconcile(records), nil
}

// Segment concatenates the three scores in R, F, M order.
func Segment(r, f, m int) string {
	return strconv.Itoa(r) + strconv.Itoa(f) + strconv.Itoa(m)
}

// Reconcile merges records sharing a customer id: recency is reduced with
// min, frequency and monetary with sum; name and segment are kept from the
// first occurrence. Scores follow the kept segment. Output is sorted by
// customer id.
func Reconcile(records []domain.RFMRecord) []domain.RFMRecord {
	index := make(map[string]int, len(records))
	out := make([]domain.RFMRecord, 0, len(records))
	for _, r := range records {
		i, ok := index[r.CustomerID]
		if !ok {
			index[r.CustomerID] = len(out)
			out = append(out, r)
			continue
		}
		merged := &out[i]
		merged.RecencyDays = min(merged.RecencyDays, r.RecencyDays)
		merged.Frequency += r.Frequency
		merged.Monetary = decimal.NewFromFloat(merged.Monetary).Add(decimal.NewFromFloat(r.Monetary)).InexactFloat64()
	}
	slices.SortStableFunc(out, func(a, b domain.RFMRecord) int { return cmp.Compare(a.CustomerID, b.CustomerID) })
	return out
}

// RFMTotals builds the RFM panel with its totals row.
func RFMTotals(records []domain.RFMRecord) domain.RFMTable {
	table := domain.RFMTable{Records: records}
	monetary := decimal.Zero
	for _, r := range records {
		table.TotalFrequency += r.Frequency
		monetary = monetary.Add(decimal.NewFromFloat(r.Monetary))
	}
	table.TotalMonetary = monetary.InexactFloat64()
	return table
}

// QuantileScores assigns every value a score from its quartile bucket.
// Bucket edges are the linear-interpolated quantiles of the values;
// duplicate edges are merged, so heavy ties may leave fewer than four
// buckets. Buckets are right-closed, the lowest value falling in the
// first one. Scores run from 1 for the lowest bucket upwards, or from 1
// for the highest bucket when inverted. A metric with a single distinct
// value scores 1 everywhere.
func QuantileScores(values []float64, inverted bool) []int {
	scores := make([]int, len(values))
	if len(values) == 0 {
		return scores
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	if sorted[0] == sorted[len(sorted)-1] {
		for i := range scores {
			scores[i] = 1
		}
		return scores
	}

	edges := make([]float64, 0, len(quartiles))
	for _, q := range quartiles {
		edges = append(edges, quantile(sorted, q))
	}
	edges = slices.Compact(edges)
	buckets := len(edges) - 1

	for i, v := range values {
		b := bucketOf(edges, v)
		if inverted {
			scores[i] = buckets - b
		} else {
			scores[i] = b + 1
		}
	}
	return scores
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*(pos-float64(lo))
}

// bucketOf returns the index of the right-closed bucket holding v.
func bucketOf(edges []float64, v float64) int {
	for b := 0; b < len(edges)-1; b++ {
		if v <= edges[b+1] {
			return b
		}
	}
	return len(edges) - 2
}

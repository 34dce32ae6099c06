package usecase

import (
	"sales-comparison/internal/domain"
)

// Filter narrows a dataset to the rows matching every non-empty selection
// of the spec. Empty selections do not restrict their dimension, so a zero
// FilterSpec returns all rows. Customer and product selections are
// normalised like the loaded ids. The parent dataset is left untouched.
func Filter(ds *domain.Dataset, spec domain.FilterSpec) *domain.Dataset {
	if ds == nil {
		return nil
	}

	months := toSet(spec.Months)
	customers := toSet(normalizeIDs(spec.CustomerIDs))
	products := toSet(normalizeIDs(spec.ProductIDs))
	reps := toSet(spec.SalesReps)

	filtered := make([]domain.Transaction, 0, len(ds.Transactions))
	for _, tx := range ds.Transactions {
		if !matches(months, int(tx.BillingDate.Month())) ||
			!matches(customers, tx.CustomerID) ||
			!matches(products, tx.ProductID) ||
			!matches(reps, tx.SalesRep) {
			continue
		}
		filtered = append(filtered, tx)
	}

	return &domain.Dataset{
		ID:           ds.ID,
		Fingerprint:  ds.Fingerprint,
		Period:       ds.Period,
		Source:       ds.Source,
		Transactions: filtered,
		Report:       ds.Report,
	}
}

// FilterPair applies the same spec independently to both periods.
func FilterPair(pair *domain.DatasetPair, spec domain.FilterSpec) *domain.DatasetPair {
	if pair == nil {
		return nil
	}
	return &domain.DatasetPair{
		Previous: Filter(pair.Previous, spec),
		Current:  Filter(pair.Current, spec),
	}
}

func normalizeIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = domain.NormalizeID(id)
	}
	return out
}

func toSet[T comparable](values []T) map[T]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// matches treats a nil set as "no restriction".
func matches[T comparable](set map[T]struct{}, v T) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

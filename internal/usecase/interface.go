package usecase

import (
	"context"
	"io"

	"sales-comparison/internal/domain"
)

// TableReader defines the interface for fetching raw sales extracts.
// The usecase layer depends on this interface, not on a concrete implementation.
//
//go:generate mockgen -destination=mocks/mock_repository.go -source=interface.go
type TableReader interface {
	ReadFile(ctx context.Context, path string) (*domain.RawTable, error)
	ReadStream(ctx context.Context, name string, r io.Reader) (*domain.RawTable, error)
}

// DatasetCache stores validated datasets keyed by period and raw content
// fingerprint, so that re-uploading the same file skips validation.
type DatasetCache interface {
	Get(key string) (*domain.Dataset, bool)
	Set(key string, ds *domain.Dataset)
}

// ReportCache stores computed comparison reports keyed by dataset identity
// and filter.
type ReportCache interface {
	Get(key string) (*domain.ComparisonReport, bool)
	Set(key string, report *domain.ComparisonReport)
}

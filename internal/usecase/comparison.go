package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"sales-comparison/internal/domain"
)

// ComparisonUseCase orchestrates loading, filtering and reporting of a
// previous/current pair of sales extracts.
type ComparisonUseCase struct {
	reader   TableReader
	loader   *Loader
	aliases  map[string]string
	datasets DatasetCache
	reports  ReportCache
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a ComparisonUseCase.
type Option func(*ComparisonUseCase)

// WithDatasetCache enables caching of validated datasets by raw content.
func WithDatasetCache(c DatasetCache) Option {
	return func(uc *ComparisonUseCase) { uc.datasets = c }
}

// WithReportCache enables caching of comparison reports.
func WithReportCache(c ReportCache) Option {
	return func(uc *ComparisonUseCase) { uc.reports = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(uc *ComparisonUseCase) { uc.logger = l }
}

// WithClock overrides the wall clock used when no billing date exists.
func WithClock(now func() time.Time) Option {
	return func(uc *ComparisonUseCase) { uc.now = now }
}

// WithColumnAliases sets the header aliases used by the loader.
func WithColumnAliases(aliases map[string]string) Option {
	return func(uc *ComparisonUseCase) { uc.aliases = aliases }
}

// NewComparisonUseCase creates a new instance of the usecase.
func NewComparisonUseCase(reader TableReader, opts ...Option) *ComparisonUseCase {
	uc := &ComparisonUseCase{
		reader:   reader,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.loader = NewLoader(uc.aliases, uc.logger)
	uc.logger = uc.logger.With(slog.String("component", "comparison"))
	return uc
}

// LoadDatasets reads and validates both period files. Both periods are
// required: a failure on either side fails the pair.
func (uc *ComparisonUseCase) LoadDatasets(ctx context.Context, prevPath, currPath string) (*domain.DatasetPair, error) {
	return uc.loadPair(ctx, func(ctx context.Context, period domain.Period) (*domain.RawTable, string, error) {
		path := prevPath
		if period == domain.PeriodCurrent {
			path = currPath
		}
		raw, err := uc.reader.ReadFile(ctx, path)
		return raw, path, err
	})
}

// LoadUploads is LoadDatasets for in-memory uploads.
func (uc *ComparisonUseCase) LoadUploads(ctx context.Context, prev, curr domain.Upload) (*domain.DatasetPair, error) {
	return uc.loadPair(ctx, func(ctx context.Context, period domain.Period) (*domain.RawTable, string, error) {
		upload := prev
		if period == domain.PeriodCurrent {
			upload = curr
		}
		raw, err := uc.reader.ReadStream(ctx, upload.Name, bytes.NewReader(upload.Content))
		return raw, upload.Name, err
	})
}

type readFunc func(ctx context.Context, period domain.Period) (*domain.RawTable, string, error)

func (uc *ComparisonUseCase) loadPair(ctx context.Context, read readFunc) (*domain.DatasetPair, error) {
	var pair domain.DatasetPair
	g, gctx := errgroup.WithContext(ctx)
	for _, period := range []domain.Period{domain.PeriodPrevious, domain.PeriodCurrent} {
		g.Go(func() error {
			raw, source, err := read(gctx, period)
			if err != nil {
				return fmt.Errorf("could not read %s dataset: %w", period, &domain.ProcessingError{Period: period, Source: source, Err: err})
			}
			ds, err := uc.load(raw, period)
			if err != nil {
				return fmt.Errorf("could not load %s dataset: %w", period, err)
			}
			if period == domain.PeriodPrevious {
				pair.Previous = ds
			} else {
				pair.Current = ds
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

// load validates a raw table, reusing a cached dataset for identical content.
func (uc *ComparisonUseCase) load(raw *domain.RawTable, period domain.Period) (*domain.Dataset, error) {
	if uc.datasets == nil || raw == nil {
		return uc.loader.Load(raw, period)
	}
	key := string(period) + ":" + Fingerprint(raw)
	if ds, ok := uc.datasets.Get(key); ok {
		uc.logger.Debug("dataset cache hit", slog.String("period", string(period)), slog.String("source", raw.Source))
		return ds, nil
	}
	ds, err := uc.loader.Load(raw, period)
	if err != nil {
		return nil, err
	}
	uc.datasets.Set(key, ds)
	return ds, nil
}

// Analyze computes every report panel for the given selection. Only a
// missing pair or a malformed spec is an error; panels that cannot be
// built carry their own error in the report.
func (uc *ComparisonUseCase) Analyze(ctx context.Context, pair *domain.DatasetPair, spec domain.FilterSpec) (*domain.ComparisonReport, error) {
	if pair == nil || pair.Previous == nil || pair.Current == nil {
		return nil, &domain.InvalidInputError{Op: "analyze", Reason: "both datasets are required"}
	}
	if err := uc.validate.StructCtx(ctx, spec); err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}

	key := reportKey(pair, spec)
	if uc.reports != nil {
		if report, ok := uc.reports.Get(key); ok {
			uc.logger.Debug("report cache hit", slog.String("filter", spec.Key()))
			return report, nil
		}
	}

	// Step 1: Filtering
	filtered := FilterPair(pair, spec)
	prev, curr := filtered.Previous, filtered.Current

	report := &domain.ComparisonReport{
		Filter:        spec,
		ReferenceDate: ReferenceDate(pair.Previous, pair.Current, uc.now()),
	}

	var noData error
	if prev.IsEmpty() && curr.IsEmpty() {
		noData = &domain.InvalidInputError{Op: "filter", Reason: "no data left after filtering"}
	}

	// Step 2: Overview and comparison tables
	report.Overview = domain.NewResult(Headline(prev, curr), noData)
	report.Customers = aggregatePanel(prev, curr, domain.GroupByCustomer, noData)
	report.Products = aggregatePanel(prev, curr, domain.GroupByProduct, noData)
	report.SalesReps = aggregatePanel(prev, curr, domain.GroupBySalesRep, noData)

	// Step 3: Monthly trends and rep distribution
	report.CustomerTrend = trendPanel(prev, curr, domain.GroupByCustomer, noData)
	report.ProductTrend = trendPanel(prev, curr, domain.GroupByProduct, noData)
	report.SalesRepTrend = trendPanel(prev, curr, domain.GroupBySalesRep, noData)
	report.RepShares = domain.NewResult(domain.RepShares{Previous: RepShares(prev), Current: RepShares(curr)}, noData)
	report.RepBreakdowns = breakdownPanel(prev, curr, spec, noData)

	// Step 4: Customer segmentation on the current period
	records, err := Score(curr, report.ReferenceDate)
	report.RFM = domain.NewResult(RFMTotals(records), err)

	// Step 5: Unfiltered dataset summary
	summary, err := Summarize(pair.Previous, pair.Current)
	report.Summary = domain.NewResult(summary, err)

	uc.logPanels(ctx, report)
	if uc.reports != nil {
		uc.reports.Set(key, report)
	}
	return report, nil
}

func aggregatePanel(prev, curr *domain.Dataset, key domain.GroupKey, noData error) domain.Result[[]domain.AggregateRow] {
	if noData != nil {
		return domain.NewResult[[]domain.AggregateRow](nil, noData)
	}
	rows, err := AggregateBy(prev, curr, key)
	return domain.NewResult(rows, err)
}

func trendPanel(prev, curr *domain.Dataset, key domain.GroupKey, noData error) domain.Result[domain.TrendSeries] {
	if noData != nil {
		return domain.NewResult(domain.TrendSeries{Key: key}, noData)
	}
	series, err := Trend(prev, curr, key)
	return domain.NewResult(series, err)
}

// breakdownPanel builds one customer table per selected sales rep, or per
// rep present in the filtered data when none is selected.
func breakdownPanel(prev, curr *domain.Dataset, spec domain.FilterSpec, noData error) domain.Result[map[string][]domain.AggregateRow] {
	if noData != nil {
		return domain.NewResult[map[string][]domain.AggregateRow](nil, noData)
	}
	reps := slices.Clone(spec.SalesReps)
	if len(reps) == 0 {
		for _, share := range RepShares(prev) {
			reps = append(reps, share.Key)
		}
		for _, share := range RepShares(curr) {
			reps = append(reps, share.Key)
		}
	}
	slices.Sort(reps)
	reps = slices.Compact(reps)

	breakdowns := make(map[string][]domain.AggregateRow, len(reps))
	for _, rep := range reps {
		rows, err := RepCustomerBreakdown(prev, curr, rep)
		if err != nil {
			return domain.NewResult[map[string][]domain.AggregateRow](nil, err)
		}
		breakdowns[rep] = rows
	}
	return domain.NewResult(breakdowns, nil)
}

func (uc *ComparisonUseCase) logPanels(ctx context.Context, report *domain.ComparisonReport) {
	failed := map[string]error{
		"overview": report.Overview.Err,
		"rfm":      report.RFM.Err,
		"summary":  report.Summary.Err,
	}
	for panel, err := range failed {
		if err == nil {
			continue
		}
		level := slog.LevelError
		if errors.Is(err, domain.ErrInvalidInput) {
			level = slog.LevelWarn
		}
		uc.logger.Log(ctx, level, "panel skipped", slog.String("panel", panel), slog.String("reason", err.Error()))
	}
	uc.logger.InfoContext(ctx, "comparison computed",
		slog.String("filter", report.Filter.Key()),
		slog.Time("reference_date", report.ReferenceDate))
}

func reportKey(pair *domain.DatasetPair, spec domain.FilterSpec) string {
	return strings.Join([]string{
		pair.Previous.ID, pair.Previous.Fingerprint,
		pair.Current.ID, pair.Current.Fingerprint,
		spec.Key(),
	}, "|")
}

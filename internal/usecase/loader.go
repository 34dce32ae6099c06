package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sales-comparison/internal/domain"
)

// billingDateLayouts lists the accepted billing date formats in order of
// preference. Day-first layouts come first, then ISO dates. Month-first
// layouts come last so a date such as 01/13/2024, which has no day-first
// reading, still parses.
var billingDateLayouts = func() []string {
	numeric := func(order string) []string {
		var layouts []string
		for _, sep := range []string{"/", "-", "."} {
			for _, year := range []string{"2006", "06"} {
				date := strings.ReplaceAll(order, " ", sep) + sep + year
				layouts = append(layouts, date, date+" 15:04", date+" 15:04:05")
			}
		}
		return layouts
	}
	layouts := numeric("2 1")
	layouts = append(layouts, time.DateOnly, time.DateTime, "2006-01-02T15:04:05", time.RFC3339)
	return append(layouts, numeric("1 2")...)
}()

// Loader turns raw tables into validated datasets.
type Loader struct {
	aliases map[string]string
	logger  *slog.Logger
}

// NewLoader creates a loader. Aliases map alternative header labels onto
// the canonical column names; a nil map uses domain.DefaultColumnAliases.
func NewLoader(aliases map[string]string, logger *slog.Logger) *Loader {
	if aliases == nil {
		aliases = domain.DefaultColumnAliases
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{aliases: aliases, logger: logger.With(slog.String("component", "loader"))}
}

// Load validates and cleans one raw table. Missing columns abort the load
// with a SchemaError; rows with an invalid date or a non-numeric quantity,
// unit price or net amount are dropped and reported in Dataset.Report.
func (l *Loader) Load(raw *domain.RawTable, period domain.Period) (*domain.Dataset, error) {
	if raw == nil {
		return nil, &domain.ProcessingError{Period: period, Err: errors.New("no table to load")}
	}

	// Step 1: Schema check
	cols, missing := l.mapColumns(raw.Header)
	if len(missing) > 0 {
		l.logger.Error("required columns missing",
			slog.String("period", string(period)),
			slog.String("source", raw.Source),
			slog.Any("missing", missing))
		return nil, &domain.SchemaError{Period: period, Source: raw.Source, Missing: missing}
	}

	ds := &domain.Dataset{
		ID:           uuid.NewString(),
		Fingerprint:  Fingerprint(raw),
		Period:       period,
		Source:       raw.Source,
		Transactions: make([]domain.Transaction, 0, len(raw.Rows)),
	}
	report := domain.LoadReport{RowsInput: len(raw.Rows)}

	// Step 2: Row coercion. Dates are checked before numbers, so a row
	// failing both is reported once, as an invalid date.
	for pos, record := range raw.Rows {
		cell := func(column string) string {
			if idx := cols[column]; idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}

		billingDate, err := ParseBillingDate(cell(domain.ColumnBillingDate))
		if err != nil {
			report.Rejections = append(report.Rejections, domain.RowRejection{
				Position: pos,
				Reason:   domain.RejectInvalidDate,
				Column:   domain.ColumnBillingDate,
				Value:    cell(domain.ColumnBillingDate),
			})
			continue
		}

		var numbers [3]decimal.Decimal
		rejected := false
		for i, column := range []string{domain.ColumnQuantity, domain.ColumnUnitPrice, domain.ColumnNetAmount} {
			value, ok := parseNumeric(cell(column))
			if !ok {
				report.Rejections = append(report.Rejections, domain.RowRejection{
					Position: pos,
					Reason:   domain.RejectInvalidNumeric,
					Column:   column,
					Value:    cell(column),
				})
				rejected = true
				break
			}
			numbers[i] = value
		}
		if rejected {
			continue
		}

		ds.Transactions = append(ds.Transactions, domain.Transaction{
			BillingDate:        billingDate,
			CustomerID:         domain.NormalizeID(cell(domain.ColumnCustomer)),
			CustomerName:       cell(domain.ColumnCustomerName),
			ProductID:          domain.NormalizeID(cell(domain.ColumnMaterial)),
			ProductDescription: cell(domain.ColumnItemDescription),
			Quantity:           numbers[0].InexactFloat64(),
			UnitPrice:          numbers[1].InexactFloat64(),
			NetAmount:          roundCents(numbers[2].InexactFloat64()),
			Program:            cell(domain.ColumnProgram),
			ProductHierarchy:   cell(domain.ColumnProductHierarchy),
			SalesRep:           cell(domain.ColumnSalesRep),
		})
	}

	report.RowsKept = len(ds.Transactions)
	ds.Report = report
	l.logRejections(ds)

	l.logger.Info("dataset loaded",
		slog.String("period", string(period)),
		slog.String("source", raw.Source),
		slog.Int("rows_input", report.RowsInput),
		slog.Int("rows_kept", report.RowsKept))
	return ds, nil
}

// mapColumns resolves the index of every required column. The first
// occurrence of a header wins.
func (l *Loader) mapColumns(header []string) (map[string]int, []string) {
	cols := make(map[string]int, len(domain.RequiredColumns))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if canonical, ok := l.aliases[name]; ok {
			name = canonical
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	var missing []string
	for _, required := range domain.RequiredColumns {
		if _, ok := cols[required]; !ok {
			missing = append(missing, required)
		}
	}
	return cols, missing
}

func (l *Loader) logRejections(ds *domain.Dataset) {
	for _, reason := range []domain.RejectionReason{domain.RejectInvalidDate, domain.RejectInvalidNumeric} {
		if n := ds.Report.Dropped(reason); n > 0 {
			l.logger.Warn("rows dropped",
				slog.String("period", string(ds.Period)),
				slog.String("source", ds.Source),
				slog.String("reason", string(reason)),
				slog.Int("count", n),
				slog.Any("positions", ds.Report.Positions(reason)))
		}
	}
}

// roundCents rounds to two decimals the way numpy does: the float is scaled
// by 100 and rounded half to even, so 0.125 becomes 0.12 and 0.375 becomes
// 0.38.
func roundCents(f float64) float64 {
	return math.RoundToEven(f*100) / 100
}

// ParseBillingDate parses a billing date, day-first when the value allows
// it and month-first otherwise.
func ParseBillingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty billing date")
	}
	for _, layout := range billingDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised billing date %q", value)
}

func parseNumeric(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Fingerprint returns a content hash of a raw table. Two uploads with the
// same header and cells share a fingerprint whatever their file name.
func Fingerprint(raw *domain.RawTable) string {
	h := xxhash.New()
	writeRecord := func(cells []string) {
		for _, c := range cells {
			_, _ = h.WriteString(c)
			_, _ = h.Write([]byte{0x1f})
		}
		_, _ = h.Write([]byte{0x1e})
	}
	writeRecord(raw.Header)
	for _, row := range raw.Rows {
		writeRecord(row)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

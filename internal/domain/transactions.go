package domain

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Period identifies which of the two compared extracts a dataset belongs to.
type Period string

const (
	PeriodPrevious Period = "previous"
	PeriodCurrent  Period = "current"
)

// Transaction represents a single billing line from a sales extract.
type Transaction struct {
	BillingDate        time.Time `json:"billing_date"`
	CustomerID         string    `json:"customer_id"`
	CustomerName       string    `json:"customer_name"`
	ProductID          string    `json:"product_id"`
	ProductDescription string    `json:"product_description"`
	Quantity           float64   `json:"quantity"`
	UnitPrice          float64   `json:"unit_price"`
	NetAmount          float64   `json:"net_amount"` // rounded to 2 decimals
	Program            string    `json:"program"`
	ProductHierarchy   string    `json:"product_hierarchy"`
	SalesRep           string    `json:"sales_rep"`
}

// RawTable is an unvalidated tabular payload as read from an upload.
// Every cell is kept as text; typing happens in the loader.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// Upload is an in-memory file handed over by a presentation layer.
type Upload struct {
	Name    string
	Content []byte
}

// RejectionReason explains why a row was dropped during validation.
type RejectionReason string

const (
	RejectInvalidDate    RejectionReason = "invalid_date"
	RejectInvalidNumeric RejectionReason = "invalid_numeric"
)

// RowRejection describes one dropped row. Position is the 0-based index of
// the row among the data rows of the raw payload.
type RowRejection struct {
	Position int             `json:"position"`
	Reason   RejectionReason `json:"reason"`
	Column   string          `json:"column"`
	Value    string          `json:"value"`
}

// LoadReport summarises the cleaning of one raw payload.
type LoadReport struct {
	RowsInput  int            `json:"rows_input"`
	RowsKept   int            `json:"rows_kept"`
	Rejections []RowRejection `json:"rejections"`
}

// Dropped returns the number of rejected rows for the given reason.
func (r LoadReport) Dropped(reason RejectionReason) int {
	n := 0
	for _, rej := range r.Rejections {
		if rej.Reason == reason {
			n++
		}
	}
	return n
}

// Positions returns the positions of rows rejected for the given reason.
func (r LoadReport) Positions(reason RejectionReason) []int {
	var out []int
	for _, rej := range r.Rejections {
		if rej.Reason == reason {
			out = append(out, rej.Position)
		}
	}
	return out
}

// Dataset is a validated, ordered set of transactions for one period.
// It must not be modified once returned by the loader.
type Dataset struct {
	ID           string        `json:"id"`
	Fingerprint  string        `json:"fingerprint"`
	Period       Period        `json:"period"`
	Source       string        `json:"source"`
	Transactions []Transaction `json:"-"`
	Report       LoadReport    `json:"report"`
}

// Len returns the number of retained transactions. A nil dataset is empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Transactions)
}

// IsEmpty reports whether the dataset is nil or holds no transactions.
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// MaxBillingDate returns the latest billing date in the dataset.
func (d *Dataset) MaxBillingDate() (time.Time, bool) {
	if d.IsEmpty() {
		return time.Time{}, false
	}
	latest := d.Transactions[0].BillingDate
	for _, tx := range d.Transactions[1:] {
		if tx.BillingDate.After(latest) {
			latest = tx.BillingDate
		}
	}
	return latest, true
}

// DatasetPair holds the previous and current period datasets.
type DatasetPair struct {
	Previous *Dataset
	Current  *Dataset
}

// FilterSpec is the active selection applied identically to both periods.
// An empty set means no restriction on that dimension.
type FilterSpec struct {
	Months      []int    `json:"months" validate:"omitempty,dive,min=1,max=12"`
	CustomerIDs []string `json:"customer_ids" validate:"omitempty,dive,required"`
	ProductIDs  []string `json:"product_ids" validate:"omitempty,dive,required"`
	SalesReps   []string `json:"sales_reps" validate:"omitempty,dive,required"`
}

// Key returns a canonical representation of the spec, independent of the
// order in which values were selected. Used to build cache keys.
func (f FilterSpec) Key() string {
	months := make([]string, 0, len(f.Months))
	for _, m := range uniqueSorted(f.Months) {
		months = append(months, strconv.Itoa(m))
	}
	parts := []string{
		"m=" + strings.Join(months, ","),
		"c=" + strings.Join(uniqueSorted(f.CustomerIDs), ","),
		"p=" + strings.Join(uniqueSorted(f.ProductIDs), ","),
		"r=" + strings.Join(uniqueSorted(f.SalesReps), ","),
	}
	return strings.Join(parts, "|")
}

func uniqueSorted[T int | string](in []T) []T {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

var floatArtifact = regexp.MustCompile(`^(\d+)\.0+$`)

// NormalizeID converts an identifier to its canonical string form. Integer
// values that went through a float representation ("123.0") compare equal
// to their integer form ("123"). Anything else is only trimmed.
func NormalizeID(raw string) string {
	return floatArtifact.ReplaceAllString(strings.TrimSpace(raw), "$1")
}

package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sales-comparison/internal/domain"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FileTableReader implements the usecase TableReader interface, choosing
// the CSV or XLSX reader from the file extension.
type FileTableReader struct {
	csv  *CSVTableReader
	xlsx *XLSXTableReader
}

// NewFileTableReader creates a new reader instance.
func NewFileTableReader(csv *CSVTableReader, xlsx *XLSXTableReader) *FileTableReader {
	return &FileTableReader{csv: csv, xlsx: xlsx}
}

// ReadFile reads the sales extract at path.
func (r *FileTableReader) ReadFile(ctx context.Context, path string) (*domain.RawTable, error) {
	if _, err := r.pick(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file %s: %w", path, err)
	}
	defer file.Close()

	return r.ReadStream(ctx, filepath.Base(path), file)
}

// ReadStream reads an uploaded sales extract named name.
func (r *FileTableReader) ReadStream(ctx context.Context, name string, in io.Reader) (*domain.RawTable, error) {
	read, err := r.pick(name)
	if err != nil {
		return nil, err
	}
	return read(ctx, name, in)
}

type streamReader func(ctx context.Context, name string, in io.Reader) (*domain.RawTable, error)

func (r *FileTableReader) pick(name string) (streamReader, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return r.csv.ReadStream, nil
	case ".xlsx", ".xlsm":
		return r.xlsx.ReadStream, nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

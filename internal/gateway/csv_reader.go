package gateway

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sales-comparison/internal/domain"
)

// CSVTableReader reads comma separated sales extracts into raw tables.
type CSVTableReader struct{}

// NewCSVTableReader creates a new reader instance.
func NewCSVTableReader() *CSVTableReader {
	return &CSVTableReader{}
}

// ReadFile reads and parses the CSV file at path.
func (r *CSVTableReader) ReadFile(ctx context.Context, path string) (*domain.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sales file %s: %w", path, err)
	}
	defer file.Close()

	return r.ReadStream(ctx, filepath.Base(path), file)
}

// ReadStream parses a CSV payload. The first record is the header; a UTF-8
// byte order mark in front of it is dropped. Records may be ragged.
func (r *CSVTableReader) ReadStream(ctx context.Context, name string, in io.Reader) (*domain.RawTable, error) {
	buffered := bufio.NewReader(in)
	if first, _, err := buffered.ReadRune(); err == nil && first != bom {
		_ = buffered.UnreadRune()
	}
	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s has no header row", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", name, err)
	}

	table := &domain.RawTable{Source: name, Header: header}
	for {
		if len(table.Rows)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record from %s: %w", name, err)
		}
		if isBlank(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

const (
	bom        = '\ufeff'
	checkEvery = 1024
)

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

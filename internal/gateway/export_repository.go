package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sales-comparison/internal/domain"
)

// Report export formats.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ExportRepository writes comparison reports to files.
type ExportRepository struct {
	now func() time.Time
}

// NewExportRepository creates a new exporter instance.
func NewExportRepository() *ExportRepository {
	return &ExportRepository{now: time.Now}
}

// Export writes the report in the given format and returns the absolute
// path of the written file.
func (r *ExportRepository) Export(report *domain.ComparisonReport, format, filename, outputDir string) (string, error) {
	switch format {
	case FormatXLSX:
		return r.ExportToXLSX(report, filename, outputDir)
	case FormatPDF:
		return r.ExportToPDF(report, filename, outputDir)
	case FormatJSON:
		return r.ExportToJSON(report, filename, outputDir)
	default:
		return "", fmt.Errorf("unknown report type %q", format)
	}
}

func (r *ExportRepository) ExportToXLSX(report *domain.ComparisonReport, filename, outputDir string) (string, error) {
	return r.write(filename, outputDir, FormatXLSX, func(w io.Writer) error {
		return WriteXLSX(w, report)
	})
}

func (r *ExportRepository) ExportToPDF(report *domain.ComparisonReport, filename, outputDir string) (string, error) {
	return r.write(filename, outputDir, FormatPDF, func(w io.Writer) error {
		return WritePDF(w, report)
	})
}

func (r *ExportRepository) ExportToJSON(report *domain.ComparisonReport, filename, outputDir string) (string, error) {
	return r.write(filename, outputDir, FormatJSON, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("error encoding JSON data: %w", err)
		}
		return nil
	})
}

func (r *ExportRepository) write(filename, outputDir, ext string, render func(io.Writer) error) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, ext)
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating %s file: %w", ext, err)
	}
	if err := render(file); err != nil {
		file.Close()
		os.Remove(outputFilename)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("error closing %s file: %w", ext, err)
	}
	return filepath.Abs(outputFilename)
}

func (r *ExportRepository) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

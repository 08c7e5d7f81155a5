package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"sales-dashboard/models"
)

// CSVWriter exports a filtered view to a CSV file.
type CSVWriter struct {
	path string
}

// NewCSVWriter returns a writer for path. Intermediate directories are
// created when the view is written.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// WriteView creates (or truncates) the file and writes the header and one
// row per product. Missing numbers are written as empty cells.
func (c *CSVWriter) WriteView(view models.Dataset, _ models.KPISummary) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}

	if err := WriteCSV(f, view); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV streams the header and the rows of view to out.
func WriteCSV(out io.Writer, view models.Dataset) error {
	w := csv.NewWriter(out)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, p := range view {
		if err := w.Write(productRow(p)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sales-dashboard/models"
)

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("csv: missing column")

// CSVReader loads the raw catalog from a CSV file with a header row.
// Columns are matched by name; extra columns are ignored.
type CSVReader struct {
	path string
}

// NewCSVReader returns a reader for the file at path.
func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

// FetchAll reads every row of the file.
func (c *CSVReader) FetchAll() ([]*models.RawProduct, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()
	return ReadProducts(f)
}

// ReadProducts parses CSV rows from r into raw products.
func ReadProducts(r io.Reader) ([]*models.RawProduct, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	var products []*models.RawProduct
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}
		field := func(col string) string {
			if i := index[col]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		products = append(products, &models.RawProduct{
			Category:           field("category"),
			ProductName:        field("product_name"),
			UserName:           field("user_name"),
			Rating:             field(models.ColumnRating),
			DiscountedPrice:    field(models.ColumnDiscountedPrice),
			ActualPrice:        field(models.ColumnActualPrice),
			DiscountPercentage: field(models.ColumnDiscountPercentage),
		})
	}
	return products, nil
}

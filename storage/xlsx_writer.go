package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/models"
)

const (
	productsSheet = "Products"
	summarySheet  = "Summary"
)

// XLSXWriter exports a filtered view and its KPIs to an Excel workbook.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter returns a writer for path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// WriteView builds the workbook and saves it to the configured path.
func (x *XLSXWriter) WriteView(view models.Dataset, kpis models.KPISummary) error {
	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f, err := buildWorkbook(view, kpis)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

// WriteXLSX streams the workbook to out.
func WriteXLSX(out io.Writer, view models.Dataset, kpis models.KPISummary) error {
	f, err := buildWorkbook(view, kpis)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func buildWorkbook(view models.Dataset, kpis models.KPISummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", productsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	if err := writeProducts(f, view); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeSummary(f, kpis); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeProducts(f *excelize.File, view models.Dataset) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(productsSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}
	if err := f.SetRowStyle(productsSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	for i, p := range view {
		row := i + 2
		values := []any{p.Category, p.ProductName, p.UserName,
			p.Rating, p.DiscountedPrice, p.ActualPrice, p.DiscountPercentage}
		for col, v := range values {
			if n, ok := v.(models.NullFloat); ok {
				if !n.Valid {
					continue
				}
				v = n.Float64
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("xlsx: cell name: %w", err)
			}
			if err := f.SetCellValue(productsSheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: write row %d: %w", row, err)
			}
		}
	}
	return nil
}

func writeSummary(f *excelize.File, kpis models.KPISummary) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("xlsx: add sheet: %w", err)
	}

	var avg any = "n/a"
	if kpis.AverageRating.Valid {
		avg = kpis.AverageRating.Float64
	}
	rows := [][]any{
		{"Total Products", kpis.TotalProducts},
		{"Average Rating", avg},
		{"Total Discounts", kpis.TotalDiscount},
		{"Total Revenue", kpis.Revenue},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return fmt.Errorf("xlsx: write summary: %w", err)
		}
	}
	return nil
}

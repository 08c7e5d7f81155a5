package services

import (
	"fmt"
	"strings"

	"sales-dashboard/models"
)

// OutlierPolicy decides which records are dropped once, at load time.
type OutlierPolicy int

const (
	// OutlierNone keeps every record.
	OutlierNone OutlierPolicy = iota
	// OutlierIQR drops records whose discounted price or rating falls outside
	// the 1.5×IQR fences of that column.
	OutlierIQR
)

func (p OutlierPolicy) String() string {
	switch p {
	case OutlierIQR:
		return "iqr"
	default:
		return "none"
	}
}

// ParseOutlierPolicy accepts "none" or "iqr" (case-insensitive). Empty means none.
func ParseOutlierPolicy(s string) (OutlierPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return OutlierNone, nil
	case "iqr":
		return OutlierIQR, nil
	default:
		return OutlierNone, fmt.Errorf("unknown outlier policy %q", s)
	}
}

// Apply returns a new dataset with outliers removed. Missing values never
// make a record an outlier.
func (p OutlierPolicy) Apply(ds models.Dataset) models.Dataset {
	if p != OutlierIQR {
		return ds
	}

	price, priceOK := fences(column(ds, priceOf))
	rating, ratingOK := fences(column(ds, ratingOf))

	kept := make(models.Dataset, 0, len(ds))
	for _, r := range ds {
		if priceOK && r.DiscountedPrice.Valid && !price.Contains(r.DiscountedPrice.Float64) {
			continue
		}
		if ratingOK && r.Rating.Valid && !rating.Contains(r.Rating.Float64) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func fences(values []float64) (models.Range, bool) {
	s := Boxplot(values)
	if s == nil {
		return models.Range{}, false
	}
	iqr := s.Q3 - s.Q1
	return models.Range{Min: s.Q1 - 1.5*iqr, Max: s.Q3 + 1.5*iqr}, true
}

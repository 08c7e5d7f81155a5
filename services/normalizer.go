package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"sales-dashboard/models"
	"sales-dashboard/utils"
)

// thousandsRegexp matches a number whose commas separate groups of three digits.
var thousandsRegexp = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// Normalizer coerces RawProducts into Products.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts every raw record, keeping source order. Unparseable
// numeric fields become the missing marker; no record is dropped.
func (n *Normalizer) Normalize(raw []*models.RawProduct) models.Dataset {
	result := make(models.Dataset, 0, len(raw))
	missing := make(map[string]int)

	for _, r := range raw {
		p := &models.Product{
			Category:           normaliseText(r.Category),
			ProductName:        normaliseText(r.ProductName),
			UserName:           normaliseText(r.UserName),
			Rating:             ParseNumber(r.Rating),
			DiscountedPrice:    ParseNumber(r.DiscountedPrice),
			ActualPrice:        ParseNumber(r.ActualPrice),
			DiscountPercentage: ParseNumber(r.DiscountPercentage),
		}
		countMissing(missing, models.ColumnRating, p.Rating)
		countMissing(missing, models.ColumnDiscountedPrice, p.DiscountedPrice)
		countMissing(missing, models.ColumnActualPrice, p.ActualPrice)
		countMissing(missing, models.ColumnDiscountPercentage, p.DiscountPercentage)
		result = append(result, p)
	}

	n.logger.Info("[normalizer] Normalized %d products", len(result))
	for _, col := range []string{
		models.ColumnRating, models.ColumnDiscountedPrice,
		models.ColumnActualPrice, models.ColumnDiscountPercentage,
	} {
		if missing[col] > 0 {
			n.logger.Debug("[normalizer] %s: %d missing values", col, missing[col])
		}
	}
	return result
}

// Denormalize renders a dataset back into raw records.
func Denormalize(ds models.Dataset) []*models.RawProduct {
	raw := make([]*models.RawProduct, 0, len(ds))
	for _, p := range ds {
		raw = append(raw, p.Raw())
	}
	return raw
}

// ParseNumber is a total numeric coercion. It accepts plain decimals as well
// as decorated values such as "₹1,099" or "64%", and returns the missing
// marker for anything else, including misplaced commas, hex or underscore
// literals, NaN and infinities.
func ParseNumber(raw string) models.NullFloat {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeftFunc(s, isCurrencyPrefix)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return models.Missing()
	}
	if strings.Contains(s, ",") {
		if !thousandsRegexp.MatchString(s) {
			return models.Missing()
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return models.Missing()
	}
	return models.Some(v)
}

// isCurrencyPrefix matches leading symbols and spaces before the digits.
func isCurrencyPrefix(r rune) bool {
	return unicode.Is(unicode.Sc, r) || unicode.IsSpace(r)
}

func countMissing(counts map[string]int, col string, v models.NullFloat) {
	if !v.Valid {
		counts[col]++
	}
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package services

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"sales-dashboard/models"
)

// TopN is the length of the leaderboard-style rankings.
const TopN = 10

// BuildDistributions computes every chart aggregate of a filtered view.
func BuildDistributions(view models.Dataset) models.DistributionSet {
	return models.DistributionSet{
		DiscountHistogram: ValueCounts(view, discountOf),
		RatingHistogram:   ValueCounts(view, ratingOf),
		TopReviewers:      TopReviewers(view, TopN),
		Correlation:       PriceRatingCorrelation(view),
		TopProducts:       TopProductsByRating(view, TopN),
		Boxplots: map[string]*models.FiveNumberSummary{
			models.ColumnDiscountedPrice: Boxplot(column(view, priceOf)),
			models.ColumnRating:          Boxplot(column(view, ratingOf)),
		},
	}
}

func priceOf(p *models.Product) models.NullFloat    { return p.DiscountedPrice }
func ratingOf(p *models.Product) models.NullFloat   { return p.Rating }
func discountOf(p *models.Product) models.NullFloat { return p.DiscountPercentage }

// column collects the present values of one field, in view order.
func column(view models.Dataset, field func(*models.Product) models.NullFloat) []float64 {
	values := make([]float64, 0, len(view))
	for _, p := range view {
		if v := field(p); v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values
}

// ValueCounts counts records per distinct present value of field, ascending by value.
func ValueCounts(view models.Dataset, field func(*models.Product) models.NullFloat) []models.ValueCount {
	counts := make(map[float64]int)
	for _, v := range column(view, field) {
		counts[v]++
	}

	out := make([]models.ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, models.ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// TopReviewers returns the n most frequent user names, most frequent first.
// Equal counts keep first-seen order; empty names are ignored.
func TopReviewers(view models.Dataset, n int) []models.NameCount {
	index := make(map[string]int)
	out := make([]models.NameCount, 0)
	for _, p := range view {
		if p.UserName == "" {
			continue
		}
		i, ok := index[p.UserName]
		if !ok {
			i = len(out)
			index[p.UserName] = i
			out = append(out, models.NameCount{Name: p.UserName})
		}
		out[i].Count++
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopProductsByRating ranks product names by mean rating, highest first.
// Equal means keep first-seen order. Products without any rating are left out.
func TopProductsByRating(view models.Dataset, n int) []models.NameMean {
	type acc struct {
		name  string
		sum   float64
		count int
	}
	index := make(map[string]int)
	groups := make([]acc, 0)
	for _, p := range view {
		i, ok := index[p.ProductName]
		if !ok {
			i = len(groups)
			index[p.ProductName] = i
			groups = append(groups, acc{name: p.ProductName})
		}
		if p.Rating.Valid {
			groups[i].sum += p.Rating.Float64
			groups[i].count++
		}
	}

	out := make([]models.NameMean, 0, len(groups))
	for _, g := range groups {
		if g.count == 0 {
			continue
		}
		out = append(out, models.NameMean{Name: g.name, Mean: g.sum / float64(g.count)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean > out[j].Mean })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PriceRatingCorrelation builds the Pearson matrix of discounted price and
// rating over records where both are present. The diagonal is 1 once there
// is a pair; the coefficient stays missing below two pairs or when either
// column is constant.
func PriceRatingCorrelation(view models.Dataset) models.Correlation {
	c := models.Correlation{
		Columns: [2]string{models.ColumnDiscountedPrice, models.ColumnRating},
	}

	var xs, ys []float64
	for _, p := range view {
		if p.DiscountedPrice.Valid && p.Rating.Valid {
			xs = append(xs, p.DiscountedPrice.Float64)
			ys = append(ys, p.Rating.Float64)
		}
	}
	c.Pairs = len(xs)
	if c.Pairs == 0 {
		return c
	}

	c.Matrix[0][0] = models.Some(1)
	c.Matrix[1][1] = models.Some(1)
	if r, ok := pearson(xs, ys); ok {
		c.Matrix[0][1] = models.Some(r)
		c.Matrix[1][0] = models.Some(r)
	}
	return c
}

// pearson returns the correlation coefficient of xs and ys, or false when
// it is undefined (fewer than two pairs or a constant column).
func pearson(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

func constant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Boxplot returns the five-number summary of values using linear
// interpolation between closest ranks. It returns nil for no values.
func Boxplot(values []float64) *models.FiveNumberSummary {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return &models.FiveNumberSummary{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// quantile expects sorted input. It interpolates between closest ranks
// (numpy's default); gonum's stat.LinInterp uses a different plotting
// position and gives other quartiles on small samples.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

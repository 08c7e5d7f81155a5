package services

import (
	"fmt"
	"io"
	"strings"

	"sales-dashboard/models"
)

// PrintReport writes a terminal rendering of a dashboard result to w.
func PrintReport(w io.Writer, r *models.DashboardResult) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🛒 SALES DASHBOARD: %s\033[0m\n", r.Criteria.Category)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "  Price %g to %g | Rating %g to %g\n\n",
		r.Criteria.PriceRange.Min, r.Criteria.PriceRange.Max,
		r.Criteria.RatingRange.Min, r.Criteria.RatingRange.Max)

	section(w, "Overview Metrics", thin)
	fmt.Fprintf(w, "  Total products  : \033[1m%d\033[0m\n", r.KPIs.TotalProducts)
	if r.KPIs.AverageRating.Valid {
		fmt.Fprintf(w, "  Average rating  : \033[1m%.2f\033[0m\n", r.KPIs.AverageRating.Float64)
	} else {
		fmt.Fprintf(w, "  Average rating  : \033[1mn/a\033[0m\n")
	}
	fmt.Fprintf(w, "  Total discounts : \033[1m%g\033[0m\n", r.KPIs.TotalDiscount)
	fmt.Fprintf(w, "  Total revenue   : \033[1;32m%s\033[0m\n\n", r.KPIs.RevenueDisplay)

	ds := r.Distributions

	section(w, "Products by Discount Percentage", thin)
	if len(ds.DiscountHistogram) == 0 {
		fmt.Fprintf(w, "  No discount data\n")
	}
	for _, b := range ds.DiscountHistogram {
		fmt.Fprintf(w, "  %6g%% %s (%d)\n", b.Value, bar(b.Count), b.Count)
	}
	fmt.Fprintln(w)

	section(w, "Top Reviewers", thin)
	if len(ds.TopReviewers) == 0 {
		fmt.Fprintf(w, "  No reviewer data\n")
	}
	for i, rv := range ds.TopReviewers {
		fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-40s %d\n", i+1, truncate(rv.Name, 38), rv.Count)
	}
	fmt.Fprintln(w)

	section(w, "Average Rating per Product (Top 10)", thin)
	if len(ds.TopProducts) == 0 {
		fmt.Fprintf(w, "  No rated products found\n")
	}
	for i, p := range ds.TopProducts {
		fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-40s \033[1;32m%.2f ★\033[0m\n", i+1, truncate(p.Name, 38), p.Mean)
	}
	fmt.Fprintln(w)

	section(w, "Price vs Rating", thin)
	if coef := ds.Correlation.Coefficient(); coef.Valid {
		fmt.Fprintf(w, "  Pearson r : %.3f over %d products\n", coef.Float64, ds.Correlation.Pairs)
	} else {
		fmt.Fprintf(w, "  Pearson r : undefined (%d products)\n", ds.Correlation.Pairs)
	}
	for _, col := range []string{models.ColumnDiscountedPrice, models.ColumnRating} {
		s := ds.Boxplots[col]
		if s == nil {
			fmt.Fprintf(w, "  %-16s : no data\n", col)
			continue
		}
		fmt.Fprintf(w, "  %-16s : min %g | q1 %g | median %g | q3 %g | max %g\n",
			col, s.Min, s.Q1, s.Median, s.Q3, s.Max)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func section(w io.Writer, title, rule string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", rule)
}

func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", n)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

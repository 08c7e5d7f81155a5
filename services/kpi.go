package services

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-dashboard/models"
)

var currencyPrinter = message.NewPrinter(language.English)

// ComputeKPIs summarises a filtered view.
//
// Revenue is sum(discounted price) multiplied by the number of products in
// the view. This is the legacy dashboard metric and is kept as is.
func ComputeKPIs(view models.Dataset) models.KPISummary {
	k := models.KPISummary{TotalProducts: len(view)}

	var ratingSum, priceSum float64
	rated := 0
	for _, p := range view {
		if p.Rating.Valid {
			ratingSum += p.Rating.Float64
			rated++
		}
		k.TotalDiscount += p.DiscountPercentage.Or(0)
		priceSum += p.DiscountedPrice.Or(0)
	}

	if rated > 0 {
		k.AverageRating = models.Some(round2(ratingSum / float64(rated)))
	}
	k.Revenue = priceSum * float64(k.TotalProducts)
	k.RevenueDisplay = FormatCurrency(k.Revenue)
	return k
}

// FormatCurrency renders v as dollars with thousands separators, e.g. "$1,234.50".
func FormatCurrency(v float64) string {
	if v < 0 {
		return "-$" + currencyPrinter.Sprintf("%.2f", -v)
	}
	return "$" + currencyPrinter.Sprintf("%.2f", v)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

package services

import (
	"math"

	"sales-dashboard/models"
)

// RatingBounds is the rating scale offered to the analyst.
var RatingBounds = models.Range{Min: 0, Max: 5}

// Filter returns the records of ds that satisfy every predicate of c, in
// dataset order, truncated to c.RowLimit when set. A record with a missing
// value on a filtered field never matches.
func Filter(ds models.Dataset, c models.FilterCriteria) models.Dataset {
	view := make(models.Dataset, 0)
	for _, p := range ds {
		if c.RowLimit != nil && len(view) >= *c.RowLimit {
			break
		}
		if matches(p, c) {
			view = append(view, p)
		}
	}
	return view
}

func matches(p *models.Product, c models.FilterCriteria) bool {
	if p.Category == "" || p.Category != c.Category {
		return false
	}
	if !p.DiscountedPrice.Valid || !c.PriceRange.Contains(p.DiscountedPrice.Float64) {
		return false
	}
	if !p.Rating.Valid || !c.RatingRange.Contains(p.Rating.Float64) {
		return false
	}
	return true
}

// BuildDomain derives the category choices and range bounds of ds.
// Categories keep first-seen order and the first one is the default.
// Price bounds are the floors of the smallest and largest discounted price.
func BuildDomain(ds models.Dataset) models.Domain {
	d := models.Domain{
		Categories:   make([]string, 0),
		RatingBounds: RatingBounds,
	}

	seen := make(map[string]struct{})
	hasPrice := false
	var lo, hi float64
	for _, p := range ds {
		if p.Category != "" {
			if _, dup := seen[p.Category]; !dup {
				seen[p.Category] = struct{}{}
				d.Categories = append(d.Categories, p.Category)
			}
		}
		if !p.DiscountedPrice.Valid {
			continue
		}
		v := p.DiscountedPrice.Float64
		if !hasPrice || v < lo {
			lo = v
		}
		if !hasPrice || v > hi {
			hi = v
		}
		hasPrice = true
	}

	if len(d.Categories) > 0 {
		d.DefaultCategory = d.Categories[0]
	}
	if hasPrice {
		d.PriceBounds = models.Range{Min: math.Floor(lo), Max: math.Floor(hi)}
	}
	return d
}

// DefaultCriteria is the selection the dashboard opens with.
func DefaultCriteria(d models.Domain) models.FilterCriteria {
	return models.FilterCriteria{
		Category:    d.DefaultCategory,
		PriceRange:  d.PriceBounds,
		RatingRange: d.RatingBounds,
	}
}

// Clip narrows the ranges of c to the domain bounds unless c.Extend is set.
// An unknown category is left as is and simply matches nothing.
func Clip(d models.Domain, c models.FilterCriteria) models.FilterCriteria {
	if c.Extend {
		return c
	}
	c.PriceRange = c.PriceRange.Clip(d.PriceBounds)
	c.RatingRange = c.RatingRange.Clip(d.RatingBounds)
	return c
}

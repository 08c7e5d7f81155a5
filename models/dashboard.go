package models

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Clip narrows r so it does not extend past bounds.
func (r Range) Clip(bounds Range) Range {
	if r.Min < bounds.Min {
		r.Min = bounds.Min
	}
	if r.Max > bounds.Max {
		r.Max = bounds.Max
	}
	return r
}

// FilterCriteria selects a subset of the dataset. It is built fresh for
// every query and never modified afterwards.
type FilterCriteria struct {
	Category    string `json:"category" validate:"required"`
	PriceRange  Range  `json:"price_range"`
	RatingRange Range  `json:"rating_range"`
	// RowLimit caps the filtered view after filtering; nil means no cap.
	RowLimit *int `json:"row_limit,omitempty" validate:"omitempty,min=0"`
	// Extend lets the ranges reach past the dataset bounds.
	Extend bool `json:"extend,omitempty"`
}

// Domain describes the legal inputs for FilterCriteria on one dataset.
type Domain struct {
	Categories      []string `json:"categories"`
	DefaultCategory string   `json:"default_category"`
	PriceBounds     Range    `json:"price_bounds"`
	RatingBounds    Range    `json:"rating_bounds"`
}

// KPISummary holds the scalar metrics shown in the overview panel.
type KPISummary struct {
	TotalProducts int `json:"total_products"`
	// AverageRating is missing when no record in the view has a rating.
	AverageRating  NullFloat `json:"average_rating"`
	TotalDiscount  float64   `json:"total_discount"`
	Revenue        float64   `json:"revenue"`
	RevenueDisplay string    `json:"revenue_display"`
}

// ValueCount is one bar of a histogram keyed by a numeric value.
type ValueCount struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// NameCount is one slice of a frequency breakdown keyed by name.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NameMean is one entry of a ranking by mean value.
type NameMean struct {
	Name string  `json:"name"`
	Mean float64 `json:"mean"`
}

// Correlation is a 2x2 Pearson correlation matrix over two columns.
type Correlation struct {
	Columns [2]string       `json:"columns"`
	Pairs   int             `json:"pairs"`
	Matrix  [2][2]NullFloat `json:"matrix"`
}

// Coefficient returns the off-diagonal correlation, missing when undefined.
func (c Correlation) Coefficient() NullFloat {
	return c.Matrix[0][1]
}

// FiveNumberSummary is the boxplot summary of one column.
type FiveNumberSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// DistributionSet holds the chart-ready aggregates of a filtered view.
type DistributionSet struct {
	DiscountHistogram []ValueCount `json:"discount_histogram"`
	RatingHistogram   []ValueCount `json:"rating_histogram"`
	TopReviewers      []NameCount  `json:"top_reviewers"`
	Correlation       Correlation  `json:"correlation"`
	TopProducts       []NameMean   `json:"top_products"`
	// Boxplots is keyed by column name; a nil entry means the column had no values.
	Boxplots map[string]*FiveNumberSummary `json:"boxplots"`
}

// DashboardResult is everything derived from one query.
type DashboardResult struct {
	Criteria      FilterCriteria  `json:"criteria"`
	Products      Dataset         `json:"products"`
	KPIs          KPISummary      `json:"kpis"`
	Distributions DistributionSet `json:"distributions"`
}

// Column names used as keys across aggregates and exports.
const (
	ColumnRating             = "rating"
	ColumnDiscountedPrice    = "discounted_price"
	ColumnActualPrice        = "actual_price"
	ColumnDiscountPercentage = "discount_percentage"
)

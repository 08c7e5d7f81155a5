package services

import (
	"sales-dashboard/models"
	"sales-dashboard/utils"
)

// Options configures one dataset variant.
type Options struct {
	Outliers OutlierPolicy
	// RowLimit applies to queries that do not carry their own limit.
	RowLimit *int
}

// Dashboard is the filtering and aggregation engine over one loaded dataset.
// The normalized dataset and its domain are computed once; every query is
// derived from them without retaining state, so a Dashboard is safe to share
// between goroutines.
type Dashboard struct {
	dataset models.Dataset
	domain  models.Domain
	opts    Options
	logger  *utils.Logger
}

// NewDashboard normalizes raw, applies the outlier policy and derives the domain.
func NewDashboard(raw []*models.RawProduct, opts Options, logger *utils.Logger) *Dashboard {
	normalized := NewNormalizer(logger).Normalize(raw)
	dataset := opts.Outliers.Apply(normalized)
	if dropped := len(normalized) - len(dataset); dropped > 0 {
		logger.Info("[dashboard] Outlier policy %q dropped %d products", opts.Outliers, dropped)
	}

	d := &Dashboard{
		dataset: dataset,
		domain:  BuildDomain(dataset),
		opts:    opts,
		logger:  logger,
	}
	logger.Info("[dashboard] Ready: %d products across %d categories",
		len(d.dataset), len(d.domain.Categories))
	return d
}

// Dataset returns the normalized dataset. Callers must not modify it.
func (d *Dashboard) Dataset() models.Dataset {
	return d.dataset
}

// Domain returns the legal category choices and range bounds.
func (d *Dashboard) Domain() models.Domain {
	return d.domain
}

// DefaultCriteria is the selection the dashboard opens with.
func (d *Dashboard) DefaultCriteria() models.FilterCriteria {
	return DefaultCriteria(d.domain)
}

// Query filters the dataset and computes the KPIs and distributions of the view.
func (d *Dashboard) Query(c models.FilterCriteria) *models.DashboardResult {
	c = Clip(d.domain, c)
	if c.RowLimit == nil && d.opts.RowLimit != nil {
		limit := *d.opts.RowLimit
		c.RowLimit = &limit
	}

	view := Filter(d.dataset, c)
	d.logger.Debug("[dashboard] Query category=%q price=[%g,%g] rating=[%g,%g] -> %d products",
		c.Category, c.PriceRange.Min, c.PriceRange.Max, c.RatingRange.Min, c.RatingRange.Max, len(view))

	return &models.DashboardResult{
		Criteria:      c,
		Products:      view,
		KPIs:          ComputeKPIs(view),
		Distributions: BuildDistributions(view),
	}
}

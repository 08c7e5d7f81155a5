package storage

import "sales-dashboard/models"

// ProductSource is any backend that can supply the raw catalog.
type ProductSource interface {
	FetchAll() ([]*models.RawProduct, error)
}

// ViewWriter exports a filtered view together with its KPIs.
type ViewWriter interface {
	WriteView(view models.Dataset, kpis models.KPISummary) error
}

// Columns is the header shared by the CSV reader, exporters and SQL store.
var Columns = []string{
	"category",
	"product_name",
	"user_name",
	models.ColumnRating,
	models.ColumnDiscountedPrice,
	models.ColumnActualPrice,
	models.ColumnDiscountPercentage,
}

func productRow(p *models.Product) []string {
	r := p.Raw()
	return []string{
		r.Category, r.ProductName, r.UserName,
		r.Rating, r.DiscountedPrice, r.ActualPrice, r.DiscountPercentage,
	}
}

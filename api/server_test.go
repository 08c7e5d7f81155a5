package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/utils"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	raw := []*models.RawProduct{
		{Category: "Electronics", ProductName: "USB Cable", UserName: "ana", Rating: "4.2", DiscountedPrice: "199", ActualPrice: "399", DiscountPercentage: "50"},
		{Category: "Home", ProductName: "Desk Lamp", UserName: "ben", Rating: "3.9", DiscountedPrice: "1499", ActualPrice: "1999", DiscountPercentage: "25"},
		{Category: "Electronics", ProductName: "Charger", UserName: "ana", Rating: "3.5", DiscountedPrice: "649", ActualPrice: "999", DiscountPercentage: "35"},
		{Category: "Electronics", ProductName: "Speaker", UserName: "cy", Rating: "", DiscountedPrice: "999", ActualPrice: "1999", DiscountPercentage: "50"},
	}
	dash := services.NewDashboard(raw, services.Options{}, utils.Discard())
	return NewServer(dash, utils.Discard()).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) models.DashboardResult {
	t.Helper()
	var res models.DashboardResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func TestGetDomain(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/domain", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var d models.Domain
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, []string{"Electronics", "Home"}, d.Categories)
	assert.Equal(t, "Electronics", d.DefaultCategory)
	assert.Equal(t, models.Range{Min: 199, Max: 1499}, d.PriceBounds)
}

func TestGetDashboardDefaults(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	res := decodeResult(t, rec)
	assert.Equal(t, "Electronics", res.Criteria.Category)
	assert.Equal(t, 2, res.KPIs.TotalProducts)
	assert.Equal(t, models.Some(3.85), res.KPIs.AverageRating)
	assert.Equal(t, 1696.0, res.KPIs.Revenue)
	assert.Equal(t, "$1,696.00", res.KPIs.RevenueDisplay)
	assert.Len(t, res.Products, 2)
	assert.Equal(t, 2, res.Distributions.Correlation.Pairs)
}

func TestGetDashboardWithFilters(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet,
		"/api/dashboard?category=Electronics&price_min=500&rating_min=3&rating_max=4&limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeResult(t, rec)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Charger", res.Products[0].ProductName)
	require.NotNil(t, res.Criteria.RowLimit)
	assert.Equal(t, 5, *res.Criteria.RowLimit)
}

func TestGetDashboardEmptyResult(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/dashboard?category=Garden", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Body.String(), `"average_rating":null`)
	res := decodeResult(t, rec)
	assert.Equal(t, 0, res.KPIs.TotalProducts)
	assert.False(t, res.KPIs.AverageRating.Valid)
	assert.False(t, res.Distributions.Correlation.Coefficient().Valid)
}

func TestGetDashboardRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"unparseable price", "price_min=cheap", "INVALID_REQUEST"},
		{"inverted range", "price_min=900&price_max=100", "VALIDATION_FAILED"},
		{"negative limit", "limit=-1", "VALIDATION_FAILED"},
		{"bad extend", "extend=maybe", "INVALID_REQUEST"},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/api/dashboard?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Fields)
		})
	}
}

func TestPostDashboard(t *testing.T) {
	body := `{"category":"Home","price_range":{"min":0,"max":2000},"rating_range":{"min":0,"max":5}}`
	rec := do(t, newTestServer(t), http.MethodPost, "/api/dashboard", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeResult(t, rec)
	assert.Equal(t, "Home", res.Criteria.Category)
	// Clipped to the dataset price bounds.
	assert.Equal(t, models.Range{Min: 199, Max: 1499}, res.Criteria.PriceRange)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Desk Lamp", res.Products[0].ProductName)
}

func TestPostDashboardValidation(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/api/dashboard", strings.NewReader(`{"category":""}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, newTestServer(t), http.MethodPost, "/api/dashboard", strings.NewReader(`{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProducts(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/products?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products models.Dataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "USB Cable", products[0].ProductName)
	assert.Equal(t, models.Some(199), products[0].DiscountedPrice)
}

func TestExportCSV(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "category,product_name"))
	assert.Equal(t, "Electronics,USB Cable,ana,4.2,199,399,50", lines[1])
}

func TestExportXLSX(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/export.xlsx?category=Home", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Products", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", name)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"products":4`)

	do(t, h, http.MethodGet, "/api/dashboard", nil)
	rec = do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "dashboard_dataset_products 4")
	assert.Contains(t, body, `dashboard_http_requests_total{code="200",route="/api/dashboard"} 1`)
	assert.Contains(t, body, "dashboard_filtered_view_size_count 1")
}

func TestDashboardOnEmptyCatalog(t *testing.T) {
	dash := services.NewDashboard(nil, services.Options{}, utils.Discard())
	h := NewServer(dash, utils.Discard()).Routes()

	rec := do(t, h, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeResult(t, rec)
	assert.Equal(t, 0, res.KPIs.TotalProducts)
	assert.False(t, res.KPIs.AverageRating.Valid)
	assert.Empty(t, res.Products)

	rec = do(t, h, http.MethodPost, "/api/dashboard", strings.NewReader(`{}`))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/dashboard?price_min=5&price_max=1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package api

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/storage"
	"sales-dashboard/utils"
)

// Server exposes a Dashboard over HTTP as JSON.
type Server struct {
	dash     *services.Dashboard
	validate *validator.Validate
	metrics  *Metrics
	registry *prometheus.Registry
	logger   *utils.Logger
}

// NewServer wires a Dashboard to a fresh metrics registry.
func NewServer(dash *services.Dashboard, logger *utils.Logger) *Server {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.datasetSize.Set(float64(len(dash.Dataset())))

	return &Server{
		dash:     dash,
		validate: v,
		metrics:  m,
		registry: reg,
		logger:   logger,
	}
}

// Routes returns the HTTP handler of the dashboard.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{"status": "ok", "products": len(s.dash.Dataset())})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/domain", s.getDomain)
			r.Get("/dashboard", s.getDashboard)
			r.Post("/dashboard", s.postDashboard)
			r.Get("/products", s.getProducts)
		})
		r.Get("/export.csv", s.exportCSV)
		r.Get("/export.xlsx", s.exportXLSX)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[api] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("[api] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) getDomain(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.dash.Domain())
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	c, err := s.criteriaFromQuery(r)
	if err != nil {
		s.reject(w, r, err)
		return
	}
	render.JSON(w, r, s.query(c))
}

func (s *Server) postDashboard(w http.ResponseWriter, r *http.Request) {
	c := s.dash.DefaultCriteria()
	if err := render.DecodeJSON(r.Body, &c); err != nil {
		s.reject(w, r, err)
		return
	}
	if err := s.validateCriteria(c); err != nil {
		s.reject(w, r, err)
		return
	}
	render.JSON(w, r, s.query(c))
}

func (s *Server) getProducts(w http.ResponseWriter, r *http.Request) {
	c, err := s.criteriaFromQuery(r)
	if err != nil {
		s.reject(w, r, err)
		return
	}
	render.JSON(w, r, s.query(c).Products)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	c, err := s.criteriaFromQuery(r)
	if err != nil {
		s.reject(w, r, err)
		return
	}
	res := s.query(c)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	if err := storage.WriteCSV(w, res.Products); err != nil {
		s.logger.Error("[api] CSV export failed: %v", err)
	}
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	c, err := s.criteriaFromQuery(r)
	if err != nil {
		s.reject(w, r, err)
		return
	}
	res := s.query(c)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	if err := storage.WriteXLSX(w, res.Products, res.KPIs); err != nil {
		s.logger.Error("[api] XLSX export failed: %v", err)
		render.Render(w, r, errInternal(err))
	}
}

func (s *Server) query(c models.FilterCriteria) *models.DashboardResult {
	res := s.dash.Query(c)
	s.metrics.viewSize.Observe(float64(len(res.Products)))
	return res
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("[api] %s %s rejected: %v", r.Method, r.URL.Path, err)
	render.Render(w, r, errInvalidRequest(err))
}

// validateCriteria checks c against its struct tags. An empty catalog has
// no category to offer, so the category is not required there and the query
// simply yields an empty view.
func (s *Server) validateCriteria(c models.FilterCriteria) error {
	if len(s.dash.Domain().Categories) == 0 {
		return s.validate.StructExcept(c, "Category")
	}
	return s.validate.Struct(c)
}

// criteriaFromQuery starts from the default selection and overrides every
// field present in the query string.
func (s *Server) criteriaFromQuery(r *http.Request) (models.FilterCriteria, error) {
	q := r.URL.Query()
	c := s.dash.DefaultCriteria()

	if v := q.Get("category"); v != "" {
		c.Category = v
	}
	floats := []struct {
		param string
		dst   *float64
	}{
		{"price_min", &c.PriceRange.Min},
		{"price_max", &c.PriceRange.Max},
		{"rating_min", &c.RatingRange.Min},
		{"rating_max", &c.RatingRange.Max},
	}
	for _, f := range floats {
		v := q.Get(f.param)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, &paramError{param: f.param, err: err}
		}
		*f.dst = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, &paramError{param: "limit", err: err}
		}
		c.RowLimit = &n
	}
	if v := q.Get("extend"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, &paramError{param: "extend", err: err}
		}
		c.Extend = b
	}

	if err := s.validateCriteria(c); err != nil {
		return c, err
	}
	return c, nil
}

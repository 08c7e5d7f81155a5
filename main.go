package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sales-dashboard/api"
	"sales-dashboard/config"
	"sales-dashboard/models"
	"sales-dashboard/services"
	"sales-dashboard/storage"
	"sales-dashboard/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	logger.Info("=== Sales Dashboard starting ===")
	logger.Info("Config: source=%s | outliers=%s | row limit=%d | http=%q",
		cfg.DataSource, cfg.OutlierPolicy, cfg.RowLimit, cfg.HTTPAddr)

	policy, err := services.ParseOutlierPolicy(cfg.OutlierPolicy)
	if err != nil {
		logger.Error("Invalid OUTLIER_POLICY: %v", err)
		os.Exit(1)
	}

	var store *storage.SQLStore
	if cfg.UsesDB() {
		store, err = storage.NewSQLStore(cfg.DBDriver, cfg.DSN(), &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("Failed to connect to %s: %v", cfg.DBDriver, err)
			os.Exit(1)
		}
		defer store.Close()
	}

	var source storage.ProductSource = storage.NewCSVReader(cfg.DataCSVPath)
	if cfg.DataSource == "db" {
		source = store
	}
	raw, err := source.FetchAll()
	if err != nil {
		logger.Error("Failed to load products: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d raw products from %s", len(raw), cfg.DataSource)

	opts := services.Options{Outliers: policy}
	if cfg.RowLimit > 0 {
		opts.RowLimit = &cfg.RowLimit
	}
	dash := services.NewDashboard(raw, opts, logger)

	if cfg.DBSync && cfg.DataSource != "db" {
		if err := store.Write(dash.Dataset()); err != nil {
			logger.Error("Database sync failed: %v", err)
		}
	}

	criteria := dash.DefaultCriteria()
	if cfg.Category != "" {
		criteria.Category = cfg.Category
	}
	result := dash.Query(criteria)
	services.PrintReport(os.Stdout, result)

	export(logger, storage.NewCSVWriter(cfg.ExportCSVPath), cfg.ExportCSVPath, result)
	export(logger, storage.NewXLSXWriter(cfg.ExportXLSXPath), cfg.ExportXLSXPath, result)

	if cfg.HTTPAddr == "" {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := api.NewServer(dash, logger).ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
		logger.Error("HTTP server failed: %v", err)
		os.Exit(1)
	}
}

func export(logger *utils.Logger, w storage.ViewWriter, path string, r *models.DashboardResult) {
	if path == "" {
		return
	}
	if err := w.WriteView(r.Products, r.KPIs); err != nil {
		logger.Error("Export to %s failed: %v", path, err)
		return
	}
	logger.Info("Exported %d products to %s", len(r.Products), path)
}

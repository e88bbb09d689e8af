package main

// GET    /sales                              - list sales, filtered by query parameters
// POST   /sales                              - create a sale with its line items
// GET    /sales/{sale_id}                    - get one sale with totals
// PATCH  /sales/{sale_id}                    - move a sale to another store
// DELETE /sales/{sale_id}                    - delete a sale and its line items
// GET    /sales/{sale_id}/products           - line items with product names
// POST   /sales/{sale_id}/products           - add a line item at the current price
// PATCH  /sales/{sale_id}/products/{id}      - change a line item quantity
// DELETE /sales/{sale_id}/products/{id}      - remove a line item
// /cities, /stores, /products                - catalog CRUD
// GET    /health, /metrics

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"sales-management/config"
	"sales-management/handler"
	"sales-management/logging"
	"sales-management/metrics"
	"sales-management/service"
	"sales-management/store"
)

const serviceName = "sales-management"

//go:embed migrations.sql
var migrationSQL string

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("sales-management: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig(serviceName)
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.Environment = cfg.Environment
	logger := logging.New(logCfg)
	logger.SetDefault()

	m := metrics.New(metrics.DefaultConfig(serviceName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	st, err := store.NewPostgresStore(connectCtx, cfg.DSN())
	cancel()
	if err != nil {
		logger.WithError(err).Error("database connection failed")
		return err
	}
	defer st.Close()
	m.Registry().MustRegister(collectors.NewDBStatsCollector(st.DB, cfg.Database.Name))

	if cfg.Database.RunMigrations {
		if _, err := st.DB.ExecContext(ctx, migrationSQL); err != nil {
			logger.WithError(err).Error("failed running migrations")
			return err
		}
		logger.Info("database migrations executed")
	}

	// --- Service ---
	svc := service.NewService(st,
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithNameMaxLength(cfg.NameMaxLength),
	)

	// --- Handlers ---
	h := handler.NewHandler(svc,
		handler.WithLogger(logger),
		handler.WithMetrics(m),
		handler.WithHealthCheck(st.Ping),
	)

	// --- Router ---
	r := mux.NewRouter()
	h.RegisterRoutes(r)

	// --- Server ---
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("server stopped with error")
		return err
	}
	logger.Info("server stopped")
	return nil
}

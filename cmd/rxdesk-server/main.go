package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rxdesk/rxdesk/internal/config"
	"github.com/rxdesk/rxdesk/internal/domain/dashboard"
	"github.com/rxdesk/rxdesk/internal/domain/inventory"
	"github.com/rxdesk/rxdesk/internal/domain/order"
	"github.com/rxdesk/rxdesk/internal/domain/patient"
	"github.com/rxdesk/rxdesk/internal/domain/pharmacy"
	"github.com/rxdesk/rxdesk/internal/domain/prescription"
	"github.com/rxdesk/rxdesk/internal/platform/middleware"
	"github.com/rxdesk/rxdesk/internal/platform/telemetry"
	"github.com/rxdesk/rxdesk/internal/store"
	syncpkg "github.com/rxdesk/rxdesk/internal/sync"
)

// PatientQueueAdapter adapts the patient service to the sync.Queue
// interface, avoiding circular imports between the sync and domain
// packages.
type PatientQueueAdapter struct {
	svc *patient.Service
}

func (a *PatientQueueAdapter) Resource() string { return "patients" }

func (a *PatientQueueAdapter) Pending(ctx context.Context) ([]syncpkg.Item, error) {
	records, err := a.svc.PendingSync(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]syncpkg.Item, 0, len(records))
	for _, p := range records {
		items = append(items, syncpkg.Item{ID: p.ID, Attempts: p.SyncAttempts})
	}
	return items, nil
}

func (a *PatientQueueAdapter) Failed(ctx context.Context) ([]syncpkg.Item, error) {
	records, err := a.svc.FailedSync(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]syncpkg.Item, 0, len(records))
	for _, p := range records {
		items = append(items, syncpkg.Item{ID: p.ID, Attempts: p.SyncAttempts})
	}
	return items, nil
}

func (a *PatientQueueAdapter) MarkSynced(ctx context.Context, id int64) error {
	return a.svc.MarkSynced(ctx, id)
}

func (a *PatientQueueAdapter) MarkError(ctx context.Context, id int64) error {
	return a.svc.MarkSyncError(ctx, id)
}

// OrderQueueAdapter adapts the order service to the sync.Queue interface.
type OrderQueueAdapter struct {
	svc *order.Service
}

func (a *OrderQueueAdapter) Resource() string { return "orders" }

func (a *OrderQueueAdapter) Pending(ctx context.Context) ([]syncpkg.Item, error) {
	records, err := a.svc.PendingSync(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]syncpkg.Item, 0, len(records))
	for _, o := range records {
		items = append(items, syncpkg.Item{ID: o.ID, Attempts: o.SyncAttempts})
	}
	return items, nil
}

func (a *OrderQueueAdapter) Failed(ctx context.Context) ([]syncpkg.Item, error) {
	records, err := a.svc.FailedSync(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]syncpkg.Item, 0, len(records))
	for _, o := range records {
		items = append(items, syncpkg.Item{ID: o.ID, Attempts: o.SyncAttempts})
	}
	return items, nil
}

func (a *OrderQueueAdapter) MarkSynced(ctx context.Context, id int64) error {
	return a.svc.MarkSynced(ctx, id)
}

func (a *OrderQueueAdapter) MarkError(ctx context.Context, id int64) error {
	return a.svc.MarkSyncError(ctx, id)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "rxdesk-server",
		Short: "Pharmacy administration API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Record store
	ctx := context.Background()
	engine, err := store.Open(cfg.DataPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open record store")
	}
	defer engine.Close()
	if cfg.DataPath == "" {
		logger.Warn().Msg("DATA_PATH not set, records are kept in memory only")
	} else {
		logger.Info().Str("path", cfg.DataPath).Msg("opened record store")
	}

	// Repositories
	patientRepo, err := patient.NewStoreRepo(ctx, engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bind patient collection")
	}
	orderRepo, err := order.NewStoreRepo(ctx, engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bind order collection")
	}
	invRepo, err := inventory.NewStoreRepo(ctx, engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bind medication collection")
	}
	rxRepo, err := prescription.NewStoreRepo(ctx, engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bind prescription collection")
	}
	pharmacyRepo, err := pharmacy.NewStoreRepo(ctx, engine)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bind pharmacy collections")
	}

	// Services
	orderSvc := order.NewService(orderRepo)
	patientSvc := patient.NewService(patientRepo, orderSvc)
	invSvc := inventory.NewService(invRepo)
	rxSvc := prescription.NewService(rxRepo)
	pharmacySvc := pharmacy.NewService(pharmacyRepo)
	dashboardSvc := dashboard.NewService(patientSvc, orderSvc, invSvc, rxSvc)

	// Sync engine
	var connectivity syncpkg.Connectivity = syncpkg.Static(true)
	if cfg.SyncProbeAddr != "" {
		connectivity = syncpkg.DialChecker{Addr: cfg.SyncProbeAddr}
	}
	remote := &syncpkg.SimulatedRemote{
		Delay: time.Duration(cfg.SyncPushDelayMS) * time.Millisecond,
	}
	syncer := syncpkg.NewSyncer(
		[]syncpkg.Queue{
			&PatientQueueAdapter{svc: patientSvc},
			&OrderQueueAdapter{svc: orderSvc},
		},
		connectivity,
		remote,
		syncpkg.Options{
			RetryBase:   time.Duration(cfg.SyncRetryBaseSec) * time.Second,
			MaxAttempts: cfg.SyncMaxAttempts,
		},
		logger.With().Str("component", "syncer").Logger(),
	)
	syncer.Observe = telemetry.ObserveSync

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(telemetry.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.Audit(logger))
	e.Use(middleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Routes
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	order.NewHandler(orderSvc).RegisterRoutes(apiV1)
	inventory.NewHandler(invSvc).RegisterRoutes(apiV1)
	prescription.NewHandler(rxSvc).RegisterRoutes(apiV1)
	pharmacy.NewHandler(pharmacySvc).RegisterRoutes(apiV1)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(apiV1)
	syncpkg.NewHandler(syncer).RegisterRoutes(apiV1)

	e.GET("/metrics", telemetry.Handler())
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

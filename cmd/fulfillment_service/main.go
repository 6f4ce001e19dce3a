package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	httptransport "github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/http"
	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/llm"
	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/adapters/mailer"
	"github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/app"
	saleRepoImpl "github.com/cyrnelorigin/gumroad-automator/internal/fulfillment_service/repository/postgres"
	"github.com/cyrnelorigin/gumroad-automator/internal/platform/config"
	"github.com/cyrnelorigin/gumroad-automator/internal/platform/database"
	"github.com/cyrnelorigin/gumroad-automator/internal/platform/logger"
	"github.com/cyrnelorigin/gumroad-automator/internal/platform/messagebroker"
)

const (
	serviceName     = "fulfillment_service"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger.Info("Fulfillment service starting...", "port", cfg.ServerPort)

	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	dbPool, err := database.NewDBPool(mainCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL database")

	natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("Connected to NATS")

	completionClient := llm.NewChatCompletionClient(appLogger,
		cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens, cfg.LLMTemperature, nil)
	emailClient := mailer.NewResendClient(appLogger, cfg.EmailAPIURL, cfg.EmailAPIKey, nil)

	saleRepo := saleRepoImpl.NewPgSaleRepository(dbPool)
	generator := app.NewReportGenerator(completionClient, appLogger)
	notifier := app.NewDeliveryNotifier(emailClient, cfg.EmailFrom, appLogger)
	intakeService := app.NewIntakeService(generator, notifier, saleRepo, natsClient, cfg.DefaultCurrency, appLogger)
	summaryService := app.NewSummaryService(saleRepo, appLogger)

	webhookHandler := httptransport.NewWebhookHandler(intakeService, appLogger)
	dashboardHandler := httptransport.NewDashboardHandler(summaryService, cfg.DashboardKey, cfg.DashboardRecentLimit, appLogger)
	healthHandler := httptransport.NewHealthHandler(dbPool, appLogger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(90 * time.Second))
	r.Use(httptransport.PrometheusMetricsMiddleware)

	// The webhook handler owns its method check so non-POST pings get the
	// platform-expected 405 body.
	r.HandleFunc("/webhooks/gumroad", webhookHandler.HandleSaleWebhook)
	r.Get("/dashboard/summary", dashboardHandler.HandleSummary)
	r.Get("/healthz", healthHandler.HandleHealthz)

	appServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.MetricsPort), Handler: metricsMux}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info(fmt.Sprintf("HTTP server listening on port %d", cfg.ServerPort))
		if err := appServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("app server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info(fmt.Sprintf("Metrics server listening on port %d", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := appServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown failed", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", "error", err)
		}
		return nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		appLogger.Info("Received termination signal", "signal", sig.String())
	case err := <-watchGroup(g):
		if err != nil {
			appLogger.Error("A critical component failed, initiating shutdown", "error", err)
		}
	}

	mainCancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Error during graceful shutdown", "error", err)
	}
	appLogger.Info("Fulfillment service shut down.")
}

// watchGroup exposes errgroup completion as a channel so startup failures
// trigger the same shutdown path as signals.
func watchGroup(g *errgroup.Group) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- g.Wait() }()
	return ch
}

// Package main is the entry point for the pipewatch API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pipewatch/internal/config"
	"pipewatch/internal/logger"
	"pipewatch/internal/notify"
	"pipewatch/internal/observability"
	"pipewatch/internal/server"
	"pipewatch/internal/server/handlers"
	"pipewatch/internal/store/postgres"
	"pipewatch/internal/ws"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

func main() {
	// Parse flags
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	configPath := flag.String("config", "", "Path to config file (default: pipewatch.yaml in current directory)")
	flag.Parse()

	// Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup Database
	ctx := context.Background()
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer store.Close()

	// Run migrations if requested
	if *migrateFlag {
		log.Println("Running database migrations...")
		if err := postgres.Migrate(store.DB()); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")
	}

	// Tracing
	shutdownTracer, err := observability.InitTracer(ctx, "pipewatch-server", cfg.OTELEndpoint)
	if err != nil {
		log.Fatalf("Failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	// Metrics
	metricsHandler, shutdownMetrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to init metrics: %v", err)
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			log.Printf("Failed to shutdown metrics: %v", err)
		}
	}()

	// Alert channels. Unconfigured channels degrade to noop sinks so
	// a missing webhook URL never takes ingestion down.
	notifyLog := logger.New("notify")
	dispatcher := notify.NewDispatcher(
		notify.NewSlackSink(cfg.SlackWebhookURL, notifyLog),
		notify.NewMailSink(notify.MailConfig{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			User:       cfg.SMTPUser,
			Pass:       cfg.SMTPPass,
			Recipients: cfg.AlertRecipients,
		}, notifyLog),
		notifyLog,
	)

	// Live viewer hub
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := ws.NewHub(logger.New("ws"))
	go hub.Run(hubCtx)

	// Use an Observable Gauge (Async) that reads the hub only when scraped.
	meter := otel.Meter("pipewatch-server")
	_, err = meter.Int64ObservableGauge("pipewatch.viewers.connected",
		metric.WithDescription("Current number of connected dashboard viewers"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			obs.Observe(hub.ViewerCount())
			return nil
		}),
	)
	if err != nil {
		log.Printf("Failed to register viewer count metric: %v", err)
	}

	// Start Server
	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	h := handlers.New(store, dispatcher, hub, logger.New("handlers"), cfg.MetricsWindow)
	srv := server.New(server.Config{
		Addr:             addr,
		WebhookRateLimit: cfg.WebhookRateLimit,
		WebhookRateBurst: cfg.WebhookRateBurst,
	}, h, hub, metricsHandler)

	go func() {
		log.Printf("PipeWatch API starting on %s", addr)
		if err := srv.Run(ctx); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited properly")
}

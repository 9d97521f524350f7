package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-score/internal/club"
	"github.com/mauv0809/court-score/internal/config"
	"github.com/mauv0809/court-score/internal/database"
	server "github.com/mauv0809/court-score/internal/http"
	"github.com/mauv0809/court-score/internal/metrics"
	"github.com/mauv0809/court-score/internal/notifier/slack"
	"github.com/mauv0809/court-score/internal/processor"
	"github.com/mauv0809/court-score/internal/pubsub"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	log.SetLevel(cfg.Level())

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	clubStore := club.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	if !cfg.Slack.Enabled() {
		log.Warn("Slack is not configured. Result notifications will be skipped.")
	}
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	processor := processor.New(clubStore, notifier, metricsSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pubsubClient pubsub.PubSubClient
	if cfg.PubSub.ProjectID != "" {
		pubsubClient, err = pubsub.New(ctx, cfg.PubSub.ProjectID, map[pubsub.EventType]string{
			pubsub.EventMatchChanged: cfg.PubSub.Topic,
		})
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("No Pub/Sub project configured. Delivering match changes in-process.")
		pubsubClient = pubsub.NewLocal(processor.HandleMessage)
	}
	defer pubsubClient.Close()

	s := server.NewServer(
		clubStore,
		metricsSvc,
		metricsHandler,
		cfg,
		notifier,
		processor,
		pubsubClient,
	)

	// Counters may be stale if the last run died between a write and its event.
	if _, err := processor.RecomputeCounters(false); err != nil {
		log.Error("Initial counter recompute failed", "error", err)
	}

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")

		// Create a context with a timeout for the shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Attempt to gracefully shut down the server.
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}

// Package main provides the entrypoint for the Kindling recommendation
// worker. It consumes the changefeed and keeps recommendation sets fresh.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/changefeed"
	"github.com/kindlingapp/kindling/internal/database"
	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/recommendation"
	"github.com/kindlingapp/kindling/internal/swipe"
	"github.com/kindlingapp/kindling/internal/telemetry"
	"github.com/kindlingapp/kindling/internal/trigger"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "kindling-worker"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Kindling worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := getEnvOrDefault("APP_PORT", "8080")
	env := getEnvOrDefault("APP_ENV", "development")
	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID == "" {
		log.Fatal().Msg("PUBSUB_PROJECT_ID is required")
	}
	subscriptionName := getEnvOrDefault("CHANGEFEED_SUBSCRIPTION", "kindling-changefeed-worker")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize repositories and the recommendation engine
	profileRepo := profile.NewPostgresRepository(pool)
	swipeRepo := swipe.NewPostgresRepository(pool)
	recommendationRepo := recommendation.NewPostgresRepository(pool)

	engine := recommendation.NewEngine(recommendation.EngineConfig{
		Profiles:        profileRepo,
		Swipes:          swipeRepo,
		Recommendations: recommendationRepo,
		Source:          recommendation.NewSource(profileRepo),
		Logger:          log,
	})

	triggers := trigger.NewHandler(trigger.HandlerConfig{
		Engine:          engine,
		Profiles:        profileRepo,
		Recommendations: recommendationRepo,
		Logger:          log,
	})

	// Initialize the changefeed subscriber
	subscriber, err := changefeed.NewSubscriber(ctx, changefeed.SubscriberConfig{
		ProjectID:        projectID,
		SubscriptionName: subscriptionName,
		Triggers:         triggers,
		Logger:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create changefeed subscriber")
	}
	defer func() {
		if closeErr := subscriber.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("failed to close changefeed subscriber")
		}
	}()

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Start the subscriber; Receive blocks until the context is cancelled
	subscriberErr := make(chan error, 1)
	go func() {
		subscriberErr <- subscriber.Start(ctx)
	}()

	// Wait for interrupt signal or subscriber failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("shutting down worker")
	case err := <-subscriberErr:
		if err != nil {
			log.Error().Err(err).Msg("changefeed subscriber failed")
		}
	}
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

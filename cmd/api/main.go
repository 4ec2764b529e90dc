// Package main provides the entrypoint for the Kindling API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/api"
	"github.com/kindlingapp/kindling/internal/api/middleware"
	"github.com/kindlingapp/kindling/internal/auth"
	"github.com/kindlingapp/kindling/internal/changefeed"
	"github.com/kindlingapp/kindling/internal/database"
	"github.com/kindlingapp/kindling/internal/match"
	"github.com/kindlingapp/kindling/internal/notification"
	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/recommendation"
	"github.com/kindlingapp/kindling/internal/swipe"
	"github.com/kindlingapp/kindling/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "kindling-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Kindling API")

	// Get configuration from environment
	port := getEnvOrDefault("APP_PORT", "8080")
	env := getEnvOrDefault("APP_ENV", "development")
	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	// Initialize OpenTelemetry
	ctx := context.Background()
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.kindling.app"),
		Audience:   getEnvOrDefault("JWT_AUDIENCE", "kindling-api"),
	})

	// Initialize repositories
	profileRepo := profile.NewPostgresRepository(pool)
	swipeRepo := swipe.NewPostgresRepository(pool)
	matchRepo := match.NewPostgresRepository(pool)
	recommendationRepo := recommendation.NewPostgresRepository(pool)

	// Initialize push notification dispatcher
	pushMetrics, err := notification.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize push metrics")
		os.Exit(1)
	}

	var notifier notification.Notifier
	pushGatewayURL := os.Getenv("PUSH_GATEWAY_URL")
	if pushGatewayURL != "" {
		notifier = notification.NewPushClient(notification.PushClientConfig{
			BaseURL: pushGatewayURL,
			APIKey:  os.Getenv("PUSH_GATEWAY_API_KEY"),
		})
		log.Info().Str("gateway", pushGatewayURL).Msg("push gateway configured")
	} else {
		notifier = notification.NewMemoryNotifier()
		log.Warn().Msg("push gateway not configured - notifications will not be delivered")
	}
	dispatcher := notification.NewDispatcher(notifier, log).WithMetrics(pushMetrics)
	defer dispatcher.Flush()

	// Initialize match detection and swipe ingestion
	detector := match.NewDetector(match.DetectorConfig{
		Swipes:        swipeRepo,
		Matches:       matchRepo,
		Notifications: dispatcher,
		Logger:        log,
	})
	swipeService := swipe.NewService(swipe.ServiceConfig{
		Swipes:          swipeRepo,
		Profiles:        profileRepo,
		Recommendations: recommendationRepo,
		Detector:        detector,
		Logger:          log,
	})
	matchService := match.NewService(matchRepo, log)
	log.Info().Msg("swipe and match services initialized")

	// Initialize changefeed publisher (may be nil if not configured)
	var feed *changefeed.Publisher
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID != "" {
		feed, err = changefeed.NewPublisher(ctx, changefeed.PublisherConfig{
			ProjectID: projectID,
			TopicName: getEnvOrDefault("CHANGEFEED_TOPIC", "kindling-changefeed"),
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create changefeed publisher")
		}
		defer func() {
			if closeErr := feed.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close changefeed publisher")
			}
		}()
		log.Info().Str("project", projectID).Msg("changefeed publisher initialized")
	} else {
		log.Warn().Msg("changefeed not configured - recommendation sets will not refresh")
	}

	// Create router with configuration
	routerCfg := api.RouterConfig{
		Version:         Version,
		BuildTime:       BuildTime,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         metrics,
		TokenValidator:  jwtService,
		Profiles:        profileRepo,
		SwipeService:    swipeService,
		MatchService:    matchService,
		Recommendations: recommendationRepo,
		DB:              pool,
	}
	if feed != nil {
		routerCfg.Feed = feed
	}
	router := api.NewRouter(routerCfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Package api provides the HTTP API for Kindling.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/api/handler"
	"github.com/kindlingapp/kindling/internal/api/middleware"
	"github.com/kindlingapp/kindling/internal/match"
	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/recommendation"
	"github.com/kindlingapp/kindling/internal/swipe"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	BuildTime       string
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	TokenValidator  middleware.TokenValidator
	Profiles        profile.Repository
	SwipeService    *swipe.Service
	MatchService    *match.Service
	Recommendations recommendation.Repository
	Feed            handler.EventPublisher
	DB              handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "kindling-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB)
	profileHandler := handler.NewProfileHandler(cfg.Profiles, cfg.Feed, cfg.Logger)
	swipeHandler := handler.NewSwipeHandler(cfg.SwipeService, cfg.Recommendations, cfg.Feed, cfg.Logger)
	matchHandler := handler.NewMatchHandler(cfg.MatchService, cfg.Logger)
	recommendationHandler := handler.NewRecommendationHandler(cfg.Recommendations, cfg.Feed, cfg.Logger)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.TokenValidator)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Swipe ingestion (authenticated)
		r.With(authMiddleware).Post("/swipes", swipeHandler.Submit)

		// Me endpoints (authenticated)
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)

			// Profile
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpsertProfile)

			// Matches
			r.Get("/matches", matchHandler.List)

			// Recommendations
			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", recommendationHandler.List)
				r.Delete("/{profileId}", recommendationHandler.Remove)
			})
		})
	})

	return r
}

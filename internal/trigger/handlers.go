// Package trigger reacts to data-change events: profile writes and
// recommendation deletions. Handlers decide whether a write warrants a
// recomputation, a geo-index refresh, or nothing at all.
package trigger

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/recommendation"
)

// Recomputer rebuilds a user's recommendation set.
type Recomputer interface {
	Recompute(ctx context.Context, u *profile.Profile, flipInProgress bool) ([]recommendation.Candidate, error)
}

// Counter reports the current size of a user's recommendation set.
type Counter interface {
	Count(ctx context.Context, userID string) (int, error)
}

// Handler routes change events to the recommendation engine.
type Handler struct {
	engine          Recomputer
	profiles        profile.Repository
	recommendations Counter
	logger          zerolog.Logger
}

// HandlerConfig holds dependencies for the trigger handler.
type HandlerConfig struct {
	Engine          Recomputer
	Profiles        profile.Repository
	Recommendations Counter
	Logger          zerolog.Logger
}

// NewHandler creates a new trigger handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		engine:          cfg.Engine,
		profiles:        cfg.Profiles,
		recommendations: cfg.Recommendations,
		logger:          cfg.Logger.With().Str("component", "trigger").Logger(),
	}
}

// ProfileWritten handles a profile create or update. Deletes and writes
// without coordinates are ignored. At most one action runs per event, in
// priority order: settings-driven recomputation, geo-index refresh,
// settings backfill, first computation.
func (h *Handler) ProfileWritten(ctx context.Context, before, after *profile.Profile) error {
	if after == nil || after.Location == nil {
		return nil
	}
	log := h.logger.With().Str("user_id", after.ID).Logger()

	if after.HasComputedRecommendations && recommendation.SettingsChanged(before, after) {
		log.Info().Msg("settings changed, recomputing recommendations")
		if _, err := h.engine.Recompute(ctx, after, true); err != nil {
			log.Error().Err(err).Msg("settings-driven recomputation failed")
			return err
		}
		return nil
	}

	if !recommendation.FirstComputeEligible(after) {
		return nil
	}

	if after.IndexedLocation == nil || !after.IndexedLocation.Equal(*after.Location) {
		log.Info().Msg("updating geo index")
		if err := h.profiles.UpdateGeoIndex(ctx, after.ID, *after.Location); err != nil {
			log.Error().Err(err).Msg("geo index update failed")
			return err
		}
		return nil
	}

	if after.Settings == nil {
		log.Info().Msg("backfilling default settings")
		if err := h.profiles.UpdateSettings(ctx, after.ID, profile.DefaultSettings()); err != nil {
			log.Error().Err(err).Msg("settings backfill failed")
			return err
		}
		return nil
	}

	log.Info().Msg("running first recommendation computation")
	if _, err := h.engine.Recompute(ctx, after, true); err != nil {
		log.Error().Err(err).Msg("first computation failed")
		return err
	}
	return nil
}

// RecommendationRemoved handles the deletion of one recommendation entry.
// When the remaining set has shrunk to the low-water mark the set is
// replenished in place, without raising the in-progress flag.
func (h *Handler) RecommendationRemoved(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	log := h.logger.With().Str("user_id", userID).Logger()

	u, err := h.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil
		}
		log.Error().Err(err).Msg("profile lookup failed")
		return err
	}

	count, err := h.recommendations.Count(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("recommendation count failed")
		return err
	}
	if count > recommendation.LowWaterMark {
		return nil
	}

	log.Info().Int("remaining", count).Msg("replenishing recommendations")
	if _, err := h.engine.Recompute(ctx, u, false); err != nil {
		log.Error().Err(err).Msg("replenishment failed")
		return err
	}
	return nil
}

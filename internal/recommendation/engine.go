package recommendation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/swipe"
)

// Engine runs the recomputation cycle: build the exclusion map, fetch
// candidates, rewrite the stored set atomically, then record the outcome on
// the profile.
type Engine struct {
	profiles        profile.Repository
	swipes          swipe.Repository
	recommendations Repository
	source          *Source
	logger          zerolog.Logger
}

// EngineConfig holds dependencies for the engine.
type EngineConfig struct {
	Profiles        profile.Repository
	Swipes          swipe.Repository
	Recommendations Repository
	Source          *Source
	Logger          zerolog.Logger
}

// NewEngine creates a new recommendation engine.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		profiles:        cfg.Profiles,
		swipes:          cfg.Swipes,
		recommendations: cfg.Recommendations,
		source:          cfg.Source,
		logger:          cfg.Logger.With().Str("component", "recommendation_engine").Logger(),
	}
}

// Recompute rebuilds u's recommendation set. flipInProgress controls whether
// the in-progress flag is raised first; replenishment after a deletion skips
// the raise so clients keep showing the shrinking set. The flag is always
// cleared once the new set is committed.
//
// Failures before the atomic rewrite abort the cycle and leave the stored
// set untouched. Failures after it are logged or surfaced but never undo
// the committed batch.
func (e *Engine) Recompute(ctx context.Context, u *profile.Profile, flipInProgress bool) ([]Candidate, error) {
	log := e.logger.With().Str("user_id", u.ID).Logger()

	if flipInProgress {
		if err := e.recommendations.SetComputing(ctx, u.ID, true); err != nil {
			return nil, fmt.Errorf("failed to raise computing flag: %w", err)
		}
	}

	exclude, err := e.swipes.AllByAuthor(ctx, u.ID, swipe.ExclusionCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to build exclusion map: %w", err)
	}

	fetched, err := e.source.Candidates(ctx, u, exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	// A stored set never contains its owner, wherever the candidates
	// came from.
	candidates := fetched[:0:0]
	for _, c := range fetched {
		if c.Profile.ID == u.ID {
			continue
		}
		candidates = append(candidates, c)
	}

	if err := e.recommendations.Replace(ctx, u.ID, candidates); err != nil {
		return nil, fmt.Errorf("failed to replace recommendations: %w", err)
	}

	// The flag is cleared after every committed rewrite, not only when
	// this cycle raised it; a flag left stuck by an earlier failed cycle
	// heals here.
	if err := e.recommendations.SetComputing(ctx, u.ID, false); err != nil {
		// The batch is committed; a stuck flag only delays clients,
		// it does not corrupt the set.
		log.Error().Err(err).Msg("failed to clear computing flag")
	}

	size := len(candidates)
	settings := e.settingsBackfill(u)
	if err := e.profiles.SetComputedState(ctx, u.ID, size, settings); err != nil {
		return candidates, fmt.Errorf("failed to record computed state: %w", err)
	}

	log.Info().Int("count", size).Msg("recommendations recomputed")
	return candidates, nil
}

// settingsBackfill returns the defaults to write alongside the computed
// state when the profile has never stored settings, nil otherwise.
func (e *Engine) settingsBackfill(u *profile.Profile) *profile.Settings {
	if u.Settings != nil {
		return nil
	}
	defaults := profile.DefaultSettings()
	return &defaults
}

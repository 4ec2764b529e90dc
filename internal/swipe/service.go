package swipe

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/profile"
)

// Service errors.
var (
	ErrInvalidSwipeType = errors.New("invalid swipe type")
)

// MatchDetector decides whether a swipe completes a mutual match and records
// the match when it does. Implemented by the match package; declared here so
// the ingestion service depends on an interface rather than the package.
type MatchDetector interface {
	// Check reports whether the swiped user already swiped back with the
	// same type.
	Check(ctx context.Context, s *Swipe) (bool, error)

	// Record writes both match records and fires the match notification.
	// It is a soft no-op when either profile snapshot is nil.
	Record(ctx context.Context, author, matched *profile.Profile) error
}

// RecommendationRemover removes a single entry from a user's recommendation
// set. Implemented by the recommendation repository.
type RecommendationRemover interface {
	Remove(ctx context.Context, userID, candidateID string) error
}

// Service is the swipe-ingestion entry point.
type Service struct {
	swipes          Repository
	profiles        profile.Repository
	recommendations RecommendationRemover
	detector        MatchDetector
	logger          zerolog.Logger
}

// ServiceConfig holds dependencies for the swipe service.
type ServiceConfig struct {
	Swipes          Repository
	Profiles        profile.Repository
	Recommendations RecommendationRemover
	Detector        MatchDetector
	Logger          zerolog.Logger
}

// NewService creates a new swipe service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		swipes:          cfg.Swipes,
		profiles:        cfg.Profiles,
		recommendations: cfg.Recommendations,
		detector:        cfg.Detector,
		logger:          cfg.Logger,
	}
}

// Submit records a swipe and returns the matched user's profile when the
// swipe completes a mutual match, nil otherwise.
//
// Internal faults in the match-detection branch degrade to "no match": the
// swipe is still persisted and the call still succeeds. Only an invalid
// swipe type is a caller error.
func (s *Service) Submit(ctx context.Context, authorID, swipedProfileID string, t Type) (*profile.Profile, error) {
	if !t.Valid() {
		return nil, ErrInvalidSwipeType
	}

	log := s.logger.With().
		Str("author_id", authorID).
		Str("swiped_profile_id", swipedProfileID).
		Str("type", string(t)).
		Logger()

	// The author just acted on this card; drop it from their
	// recommendation set. Best-effort: the card may already be gone.
	if err := s.recommendations.Remove(ctx, authorID, swipedProfileID); err != nil {
		log.Warn().Err(err).Msg("failed to remove swiped recommendation")
	}

	sw := &Swipe{
		AuthorID:        authorID,
		SwipedProfileID: swipedProfileID,
		Type:            t,
		CreatedAt:       time.Now(),
	}

	var matched *profile.Profile
	if t.Positive() {
		matched = s.detectMatch(ctx, sw, log)
	}

	// The swipe is persisted regardless of the match outcome.
	if err := s.swipes.Record(ctx, sw); err != nil {
		log.Error().Err(err).Msg("failed to persist swipe")
	}

	return matched, nil
}

// detectMatch runs the match-detection branch. All errors are swallowed and
// logged; a failed detection reads as "no match found".
func (s *Service) detectMatch(ctx context.Context, sw *Swipe, log zerolog.Logger) *profile.Profile {
	ok, err := s.detector.Check(ctx, sw)
	if err != nil {
		log.Error().Err(err).Msg("match check failed")
		return nil
	}
	if !ok {
		return nil
	}

	author, err := s.profiles.Get(ctx, sw.AuthorID)
	if err != nil {
		log.Warn().Err(err).Msg("match detected but author profile unavailable")
		author = nil
	}
	matched, err := s.profiles.Get(ctx, sw.SwipedProfileID)
	if err != nil {
		log.Warn().Err(err).Msg("match detected but matched profile unavailable")
		matched = nil
	}

	// Record no-ops when either snapshot is missing; partial failures
	// inside are its own concern and never fail the swipe.
	if err := s.detector.Record(ctx, author, matched); err != nil {
		log.Error().Err(err).Msg("failed to record match")
	}

	return matched
}

package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/swipe"
)

// Notification content for a new match, addressed to the passive user.
const (
	matchNotificationTitle = "New match!"
	matchNotificationBody  = "You just got a new match!"
	matchNotificationKind  = "dating_match"
)

// NotificationDispatcher sends a push notification without blocking the
// caller. Implemented by the notification package.
type NotificationDispatcher interface {
	Dispatch(userID, title, body, kind string, payload map[string]any)
}

// Detector decides whether a swipe completes a mutual match and records the
// match records for both users.
type Detector struct {
	swipes        swipe.Repository
	matches       Repository
	notifications NotificationDispatcher
	logger        zerolog.Logger
}

// DetectorConfig holds dependencies for the detector.
type DetectorConfig struct {
	Swipes        swipe.Repository
	Matches       Repository
	Notifications NotificationDispatcher
	Logger        zerolog.Logger
}

// NewDetector creates a new match detector.
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{
		swipes:        cfg.Swipes,
		matches:       cfg.Matches,
		notifications: cfg.Notifications,
		logger:        cfg.Logger,
	}
}

// Check reports whether the swiped user has already swiped back in the same
// category with exactly the same type. A like only matches a like and a
// superlike only a superlike; mixed like/superlike pairs do not match.
func (d *Detector) Check(ctx context.Context, s *swipe.Swipe) (bool, error) {
	other, err := d.swipes.Get(ctx, s.SwipedProfileID, s.Type.Category(), s.AuthorID)
	if err != nil {
		if errors.Is(err, swipe.ErrSwipeNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("reciprocal swipe lookup: %w", err)
	}
	return other.Type == s.Type, nil
}

// Record writes one match record into each user's list and notifies the
// passive (matched) user. The author's own record is pre-marked seen since
// the author sees the match immediately in the swipe response.
//
// A nil author or matched profile makes this a no-op. The two writes are not
// transactional; a failure between them leaves one record in place, which is
// logged and surfaced but never undone.
func (d *Detector) Record(ctx context.Context, author, matched *profile.Profile) error {
	if author == nil || matched == nil {
		return nil
	}

	now := time.Now()

	authorEntry := &Match{
		ID:          matched.ID,
		Match:       *matched.Clone(),
		HasBeenSeen: true,
		CreatedAt:   now,
	}
	if err := d.matches.Add(ctx, author.ID, authorEntry); err != nil {
		return fmt.Errorf("record match for author %s: %w", author.ID, err)
	}

	matchedEntry := &Match{
		ID:          author.ID,
		Match:       *author.Clone(),
		HasBeenSeen: false,
		CreatedAt:   now,
	}
	if err := d.matches.Add(ctx, matched.ID, matchedEntry); err != nil {
		d.logger.Error().
			Err(err).
			Str("author_id", author.ID).
			Str("matched_id", matched.ID).
			Msg("match recorded for author only")
		return fmt.Errorf("record match for matched user %s: %w", matched.ID, err)
	}

	d.notifications.Dispatch(matched.ID,
		matchNotificationTitle, matchNotificationBody, matchNotificationKind,
		map[string]any{"fromUser": author})

	return nil
}

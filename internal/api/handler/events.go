package handler

import (
	"context"

	"github.com/kindlingapp/kindling/internal/profile"
)

// EventPublisher emits data-change events for the worker to react to.
// Implemented by changefeed.Publisher.
type EventPublisher interface {
	ProfileWritten(ctx context.Context, before, after *profile.Profile) error
	RecommendationRemoved(ctx context.Context, userID string, remaining int) error
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/api/models"
	"github.com/kindlingapp/kindling/internal/api/response"
	"github.com/kindlingapp/kindling/internal/swipe"
)

// RecommendationCounter reports the size of a user's recommendation set.
type RecommendationCounter interface {
	Count(ctx context.Context, userID string) (int, error)
}

// SwipeHandler handles swipe ingestion.
type SwipeHandler struct {
	swipes          *swipe.Service
	recommendations RecommendationCounter
	feed            EventPublisher
	logger          zerolog.Logger
}

// NewSwipeHandler creates a new SwipeHandler.
func NewSwipeHandler(swipes *swipe.Service, recommendations RecommendationCounter, feed EventPublisher, logger zerolog.Logger) *SwipeHandler {
	return &SwipeHandler{
		swipes:          swipes,
		recommendations: recommendations,
		feed:            feed,
		logger:          logger,
	}
}

// Submit handles POST /v1/swipes - record a swipe decision.
func (h *SwipeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.SwipeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if input.SwipedProfileID == "" {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "swipedProfileId", Message: "is required"},
		})
		return
	}
	if input.SwipedProfileID == userID {
		response.BadRequest(w, r, "validation failed", []models.FieldError{
			{Field: "swipedProfileId", Message: "cannot swipe on yourself"},
		})
		return
	}

	matched, err := h.swipes.Submit(r.Context(), userID, input.SwipedProfileID, swipe.Type(input.Type))
	if err != nil {
		if errors.Is(err, swipe.ErrInvalidSwipeType) {
			response.BadRequest(w, r, "validation failed", []models.FieldError{
				{Field: "type", Message: "must be like, dislike or superlike"},
			})
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	// The swipe consumed one recommendation card; let the worker decide
	// whether the shrunken set needs replenishing.
	h.publishRemoval(r.Context(), userID)

	response.JSON(w, r, http.StatusOK, models.SwipeResponse{MatchedUser: matched})
}

func (h *SwipeHandler) publishRemoval(ctx context.Context, userID string) {
	if h.feed == nil {
		return
	}
	remaining, err := h.recommendations.Count(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to count recommendations")
		return
	}
	if err := h.feed.RecommendationRemoved(ctx, userID, remaining); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish recommendation removal")
	}
}

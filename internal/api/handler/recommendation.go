package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/api/models"
	"github.com/kindlingapp/kindling/internal/api/response"
	"github.com/kindlingapp/kindling/internal/recommendation"
)

// recommendationPageSize is the default page size for recommendation listing.
const recommendationPageSize = 50

// RecommendationHandler handles recommendation-set endpoints.
type RecommendationHandler struct {
	recommendations recommendation.Repository
	feed            EventPublisher
	logger          zerolog.Logger
}

// NewRecommendationHandler creates a new RecommendationHandler.
func NewRecommendationHandler(recommendations recommendation.Repository, feed EventPublisher, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		feed:            feed,
		logger:          logger,
	}
}

// List handles GET /v1/me/recommendations - one page of the user's set plus
// the in-progress flag.
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	page := queryInt(r, "page")
	if page < 1 {
		page = 1
	}
	size := queryInt(r, "size")
	if size < 1 {
		size = recommendationPageSize
	}

	candidates, err := h.recommendations.List(r.Context(), userID, page, size)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	computing, err := h.recommendations.Computing(r.Context(), userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read computing flag")
		computing = false
	}

	if candidates == nil {
		candidates = []recommendation.Candidate{}
	}
	response.JSON(w, r, http.StatusOK, models.RecommendationsResponse{
		Recommendations: candidates,
		IsComputing:     computing,
	})
}

// Remove handles DELETE /v1/me/recommendations/{profileId} - drop one entry
// from the user's set. The removal is published so the worker can replenish
// a set that has shrunk too far.
func (h *RecommendationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	profileID := chi.URLParam(r, "profileId")
	if profileID == "" {
		response.BadRequest(w, r, "profileId is required", nil)
		return
	}

	if err := h.recommendations.Remove(r.Context(), userID, profileID); err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}

	if h.feed != nil {
		remaining, err := h.recommendations.Count(r.Context(), userID)
		if err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to count recommendations")
		} else if err := h.feed.RecommendationRemoved(r.Context(), userID, remaining); err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish recommendation removal")
		}
	}

	response.NoContent(w, r)
}

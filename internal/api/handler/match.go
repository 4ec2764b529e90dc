package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/api/models"
	"github.com/kindlingapp/kindling/internal/api/response"
	"github.com/kindlingapp/kindling/internal/match"
)

// MatchHandler handles match listing.
type MatchHandler struct {
	matches *match.Service
	logger  zerolog.Logger
}

// NewMatchHandler creates a new MatchHandler.
func NewMatchHandler(matches *match.Service, logger zerolog.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, logger: logger}
}

// List handles GET /v1/me/matches - list the user's matches, newest first.
// Backend faults degrade to an empty page; the endpoint never fails.
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	page := queryInt(r, "page")
	size := queryInt(r, "size")

	matches, err := h.matches.List(r.Context(), userID, page, size)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list matches")
		matches = []*match.Match{}
	}

	response.JSON(w, r, http.StatusOK, models.MatchesResponse{
		Matches: matches,
		Success: true,
	})
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kindlingapp/kindling/internal/api/models"
	"github.com/kindlingapp/kindling/internal/api/response"
	"github.com/kindlingapp/kindling/internal/profile"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	profiles profile.Repository
	feed     EventPublisher
	logger   zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles profile.Repository, feed EventPublisher, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, feed: feed, logger: logger}
}

// GetProfile handles GET /v1/me/profile - get the authenticated user's profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(w, r, "profile")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}

// UpsertProfile handles PUT /v1/me/profile - create or update the profile.
// Every accepted write is published to the changefeed so the worker can
// decide whether it warrants a recomputation.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "user not authenticated")
		return
	}

	var input models.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	fieldErrors := validateProfileInput(&input)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	var before *profile.Profile
	existing, err := h.profiles.Get(r.Context(), userID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		before = nil
	case err != nil:
		response.InternalError(w, r, "internal server error")
		return
	default:
		before = existing
	}

	after := applyProfileInput(userID, before, &input)
	if before == nil {
		if err := h.profiles.Create(r.Context(), after); err != nil {
			response.InternalError(w, r, "internal server error")
			return
		}
	} else {
		if err := h.profiles.Update(r.Context(), after); err != nil {
			response.InternalError(w, r, "internal server error")
			return
		}
	}

	// The write itself succeeded; a lost event only delays downstream
	// reactions until the next write.
	if h.feed != nil {
		if err := h.feed.ProfileWritten(r.Context(), before, after); err != nil {
			h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to publish profile write")
		}
	}

	response.JSON(w, r, http.StatusOK, after)
}

// applyProfileInput merges a profile write over the stored state. Top-level
// fields are replaced; settings merge per field so clients can send only the
// setting they changed.
func applyProfileInput(userID string, before *profile.Profile, input *models.ProfileInput) *profile.Profile {
	now := time.Now()

	after := &profile.Profile{
		ID:                userID,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Email:             input.Email,
		Phone:             input.Phone,
		ProfilePictureURL: input.ProfilePictureURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if before != nil {
		after.CreatedAt = before.CreatedAt
		after.HasComputedRecommendations = before.HasComputedRecommendations
		after.CurrentRecommendationSize = before.CurrentRecommendationSize
		after.IndexedLocation = before.IndexedLocation
		after.Location = before.Location
		after.Settings = before.Settings
	}

	if input.Location != nil {
		after.Location = &profile.Location{
			Latitude:  input.Location.Latitude,
			Longitude: input.Location.Longitude,
		}
	}

	if input.Settings != nil {
		settings := after.SettingsOrDefault()
		if input.Settings.DistanceRadius != nil {
			settings.DistanceRadius = *input.Settings.DistanceRadius
		}
		if input.Settings.Gender != nil {
			settings.Gender = *input.Settings.Gender
		}
		if input.Settings.GenderPreference != nil {
			settings.GenderPreference = *input.Settings.GenderPreference
		}
		if input.Settings.ShowMe != nil {
			settings.ShowMe = *input.Settings.ShowMe
		}
		after.Settings = &settings
	}

	return after
}

// validateProfileInput validates a profile write and returns any field errors.
func validateProfileInput(input *models.ProfileInput) []models.FieldError {
	var fieldErrors []models.FieldError

	if input.Location != nil {
		if input.Location.Latitude < -90 || input.Location.Latitude > 90 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "location.latitude",
				Message: "must be between -90 and 90",
			})
		}
		if input.Location.Longitude < -180 || input.Location.Longitude > 180 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "location.longitude",
				Message: "must be between -180 and 180",
			})
		}
	}

	if input.Settings != nil && input.Settings.DistanceRadius != nil {
		s := profile.Settings{DistanceRadius: *input.Settings.DistanceRadius}
		if _, _, err := s.RadiusMiles(); err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "settings.distance_radius",
				Message: `must be "unlimited" or a number of miles`,
			})
		}
	}

	if strings.TrimSpace(input.FirstName) == "" && input.FirstName != "" {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "firstName",
			Message: "must not be blank",
		})
	}

	return fieldErrors
}

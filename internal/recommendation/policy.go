package recommendation

import (
	"strings"

	"github.com/kindlingapp/kindling/internal/profile"
)

// FirstComputeEligible reports whether a profile is complete enough for its
// first recommendation computation: a non-blank first name, at least one
// contact field, a profile picture, and no prior computation.
func FirstComputeEligible(p *profile.Profile) bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.FirstName) != "" &&
		(p.Email != "" || p.Phone != "") &&
		p.ProfilePictureURL != "" &&
		!p.HasComputedRecommendations
}

// SettingsChanged reports whether a profile write changed a setting that
// invalidates the current recommendation set. Only distance_radius and
// gender_preference count; gender and show_me changes do not retrigger
// recomputation.
func SettingsChanged(prev, next *profile.Profile) bool {
	prevSettings := prev.SettingsOrDefault()
	nextSettings := next.SettingsOrDefault()

	return prevSettings.DistanceRadius != nextSettings.DistanceRadius ||
		prevSettings.GenderPreference != nextSettings.GenderPreference
}

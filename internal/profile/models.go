// Package profile provides user profile data and the settings that drive
// recommendation filtering.
package profile

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Settings values with special meaning.
const (
	// DistanceUnlimited disables geo-proximity filtering.
	DistanceUnlimited = "unlimited"

	// GenderPreferenceAll disables gender filtering.
	GenderPreferenceAll = "all"

	// GenderNone is the default undeclared gender.
	GenderNone = "none"
)

// ErrInvalidDistanceRadius is returned when a distance radius setting cannot
// be parsed as either "unlimited" or a number of miles.
var ErrInvalidDistanceRadius = errors.New("invalid distance radius setting")

// Location is a declared coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Equal reports whether two locations are exactly the same coordinates.
func (l Location) Equal(other Location) bool {
	return l.Latitude == other.Latitude && l.Longitude == other.Longitude
}

// Settings holds the discovery preferences attached to a profile.
type Settings struct {
	// DistanceRadius is either "unlimited" or a radius in miles,
	// optionally suffixed by a unit label (e.g. "30 miles").
	DistanceRadius   string `json:"distance_radius"`
	Gender           string `json:"gender"`
	GenderPreference string `json:"gender_preference"`
	ShowMe           bool   `json:"show_me"`
}

// DefaultSettings returns the settings applied to profiles that have none.
func DefaultSettings() Settings {
	return Settings{
		DistanceRadius:   DistanceUnlimited,
		Gender:           GenderNone,
		GenderPreference: GenderPreferenceAll,
		ShowMe:           true,
	}
}

// RadiusMiles parses the distance radius setting. It returns unlimited=true
// when no finite radius applies. A nil receiver behaves like the defaults.
func (s *Settings) RadiusMiles() (miles float64, unlimited bool, err error) {
	if s == nil || s.DistanceRadius == "" {
		return 0, true, nil
	}
	if strings.EqualFold(s.DistanceRadius, DistanceUnlimited) {
		return 0, true, nil
	}

	// Client-written values carry a unit label ("30 miles"); only the
	// leading token is the number.
	fields := strings.Fields(s.DistanceRadius)
	if len(fields) == 0 {
		return 0, false, ErrInvalidDistanceRadius
	}
	miles, err = strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false, ErrInvalidDistanceRadius
	}
	return miles, false, nil
}

// Preference returns the gender preference, defaulting empty to "all".
func (s *Settings) Preference() string {
	if s == nil || s.GenderPreference == "" {
		return GenderPreferenceAll
	}
	return s.GenderPreference
}

// Profile is a user profile document.
type Profile struct {
	ID                string `json:"id"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
	ProfilePictureURL string `json:"profilePictureURL,omitempty"`

	// Location is the user's declared coordinates; optional until the
	// client reports them.
	Location *Location `json:"location,omitempty"`

	// Settings is optional; absent settings are read as DefaultSettings
	// and backfilled opportunistically on profile writes.
	Settings *Settings `json:"settings,omitempty"`

	// HasComputedRecommendations and CurrentRecommendationSize are
	// maintained by the recommendation engine, not by profile edits.
	HasComputedRecommendations bool `json:"hasComputedRecommendations"`
	CurrentRecommendationSize  int  `json:"currentRecommendationSize"`

	// IndexedLocation mirrors the coordinates last written to the
	// storage layer's spatial index. A stale or missing mirror means the
	// index must be refreshed before proximity queries are trustworthy.
	IndexedLocation *Location `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingsOrDefault returns the profile's settings, substituting the
// defaults when none are stored.
func (p *Profile) SettingsOrDefault() Settings {
	if p == nil || p.Settings == nil {
		return DefaultSettings()
	}
	return *p.Settings
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Location != nil {
		loc := *p.Location
		cp.Location = &loc
	}
	if p.Settings != nil {
		s := *p.Settings
		cp.Settings = &s
	}
	if p.IndexedLocation != nil {
		loc := *p.IndexedLocation
		cp.IndexedLocation = &loc
	}
	return &cp
}

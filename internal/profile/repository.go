package profile

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// NearbyProfile is a proximity query result. DistanceKM is supplied by the
// spatial index and must be converted to miles before display.
type NearbyProfile struct {
	Profile    *Profile
	DistanceKM float64
}

// ProximityQuery selects discoverable profiles within a radius of a point.
type ProximityQuery struct {
	Center   Location
	RadiusKM float64

	// Gender filters candidates when non-empty; empty means no filter.
	Gender string

	// Limit caps the result size.
	Limit int
}

// RecencyQuery pages through discoverable profiles ordered by creation time
// descending. Cursor is opaque; pass the cursor returned by the previous
// page, or empty for the first page.
type RecencyQuery struct {
	Gender string
	Cursor string
	Limit  int
}

// Repository defines the interface for profile persistence.
type Repository interface {
	// Get retrieves a profile by ID.
	Get(ctx context.Context, id string) (*Profile, error)

	// Create creates a new profile.
	Create(ctx context.Context, p *Profile) error

	// Update replaces an existing profile.
	Update(ctx context.Context, p *Profile) error

	// UpdateSettings writes only the settings fields of a profile.
	UpdateSettings(ctx context.Context, id string, s Settings) error

	// SetComputedState records the outcome of a recomputation cycle:
	// hasComputedRecommendations becomes true and the size is updated.
	// When settings is non-nil the stored settings are backfilled too.
	SetComputedState(ctx context.Context, id string, size int, settings *Settings) error

	// UpdateGeoIndex writes the profile's coordinates to the spatial
	// index and records them as the indexed mirror.
	UpdateGeoIndex(ctx context.Context, id string, loc Location) error

	// Nearby returns discoverable (show_me) profiles within the query
	// radius, annotated with their distance from the center in
	// kilometers, closest first.
	Nearby(ctx context.Context, q ProximityQuery) ([]NearbyProfile, error)

	// ListRecent returns one page of discoverable profiles ordered by
	// creation time descending, plus the cursor for the next page. An
	// empty page signals end of stream.
	ListRecent(ctx context.Context, q RecencyQuery) ([]*Profile, string, error)
}

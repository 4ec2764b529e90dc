package recommendation

import (
	"context"
	"errors"
	"fmt"

	"github.com/kindlingapp/kindling/internal/geo"
	"github.com/kindlingapp/kindling/internal/profile"
	"github.com/kindlingapp/kindling/internal/swipe"
)

// ErrNoLocation is returned when a bounded-radius query is requested for a
// user with no coordinates on record.
var ErrNoLocation = errors.New("user has no location")

// Source assembles candidate batches from the profile store. A bounded
// distance_radius runs one spatial-index query; an unlimited radius pages
// through profiles by recency until the batch ceiling is reached or the
// stream ends.
type Source struct {
	profiles profile.Repository
}

// NewSource creates a new candidate source.
func NewSource(profiles profile.Repository) *Source {
	return &Source{profiles: profiles}
}

// Candidates returns up to BatchFetchLimit candidates for the user, already
// filtered against the exclusion map and the user's own profile. The caller
// owns exclusion-map construction.
func (s *Source) Candidates(ctx context.Context, u *profile.Profile, exclude map[string]swipe.Type) ([]Candidate, error) {
	settings := u.SettingsOrDefault()

	miles, unlimited, err := settings.RadiusMiles()
	if err != nil {
		return nil, fmt.Errorf("distance radius %q: %w", settings.DistanceRadius, err)
	}

	if unlimited {
		return s.recentCandidates(ctx, u, &settings, exclude)
	}
	return s.nearbyCandidates(ctx, u, &settings, miles, exclude)
}

// nearbyCandidates runs a single proximity query. The radius setting is in
// miles; the spatial index speaks kilometers.
func (s *Source) nearbyCandidates(ctx context.Context, u *profile.Profile, settings *profile.Settings, miles float64, exclude map[string]swipe.Type) ([]Candidate, error) {
	if u.Location == nil {
		return nil, ErrNoLocation
	}

	nearby, err := s.profiles.Nearby(ctx, profile.ProximityQuery{
		Center:   *u.Location,
		RadiusKM: miles * geo.MilesToKilometers,
		Gender:   genderFilter(settings),
		Limit:    BatchFetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("proximity query: %w", err)
	}

	candidates := make([]Candidate, 0, len(nearby))
	for _, n := range nearby {
		if n.Profile.ID == u.ID {
			continue
		}
		if _, swiped := exclude[n.Profile.ID]; swiped {
			continue
		}
		candidates = append(candidates, Candidate{
			Profile:  *n.Profile,
			Distance: geo.DistanceString(n.DistanceKM / geo.MilesToKilometers),
		})
		if len(candidates) == BatchFetchLimit {
			break
		}
	}
	return candidates, nil
}

// recentCandidates pages newest-first through every discoverable profile.
// Accumulation stops at the batch ceiling or at the first empty page,
// whichever comes first; pages past the stopping point are never fetched.
func (s *Source) recentCandidates(ctx context.Context, u *profile.Profile, settings *profile.Settings, exclude map[string]swipe.Type) ([]Candidate, error) {
	var (
		candidates []Candidate
		cursor     string
	)

	for len(candidates) < BatchFetchLimit {
		page, next, err := s.profiles.ListRecent(ctx, profile.RecencyQuery{
			Gender: genderFilter(settings),
			Cursor: cursor,
			Limit:  BatchFetchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("recency query: %w", err)
		}
		if len(page) == 0 {
			break
		}
		cursor = next

		for _, p := range page {
			if p.ID == u.ID {
				continue
			}
			if _, swiped := exclude[p.ID]; swiped {
				continue
			}
			candidates = append(candidates, Candidate{
				Profile:  *p,
				Distance: candidateDistance(u, p),
			})
			if len(candidates) == BatchFetchLimit {
				return candidates, nil
			}
		}
	}
	return candidates, nil
}

// candidateDistance formats the distance between the user and a candidate.
// Either party may lack coordinates in the unlimited-radius path.
func candidateDistance(u, p *profile.Profile) string {
	if u.Location == nil || p.Location == nil {
		return ""
	}
	return geo.DistanceBetween(
		p.Location.Latitude, p.Location.Longitude,
		u.Location.Latitude, u.Location.Longitude,
		geo.UnitMiles,
	)
}

// genderFilter maps the gender_preference setting onto the repository
// filter; "all" means no filter.
func genderFilter(settings *profile.Settings) string {
	pref := settings.Preference()
	if pref == profile.GenderPreferenceAll {
		return ""
	}
	return pref
}

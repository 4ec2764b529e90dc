package profile

import (
	"context"
	"math"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository used by
// tests and local development.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*Profile),
	}
}

// Get retrieves a profile by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

// Create creates a new profile.
func (r *InMemoryRepository) Create(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[p.ID] = p.Clone()
	return nil
}

// Update replaces an existing profile.
func (r *InMemoryRepository) Update(_ context.Context, p *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[p.ID]; !ok {
		return ErrProfileNotFound
	}
	r.profiles[p.ID] = p.Clone()
	return nil
}

// UpdateSettings writes only the settings fields of a profile.
func (r *InMemoryRepository) UpdateSettings(_ context.Context, id string, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	settings := s
	p.Settings = &settings
	return nil
}

// SetComputedState records the outcome of a recomputation cycle.
func (r *InMemoryRepository) SetComputedState(_ context.Context, id string, size int, settings *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	p.HasComputedRecommendations = true
	p.CurrentRecommendationSize = size
	if settings != nil {
		s := *settings
		p.Settings = &s
	}
	return nil
}

// UpdateGeoIndex records the profile's coordinates as indexed.
func (r *InMemoryRepository) UpdateGeoIndex(_ context.Context, id string, loc Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return ErrProfileNotFound
	}
	indexed := loc
	p.IndexedLocation = &indexed
	return nil
}

// Nearby returns discoverable profiles within the query radius.
func (r *InMemoryRepository) Nearby(_ context.Context, q ProximityQuery) ([]NearbyProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []NearbyProfile
	for _, p := range r.profiles {
		if !r.discoverable(p, q.Gender) || p.IndexedLocation == nil {
			continue
		}
		km := kilometersBetween(q.Center, *p.IndexedLocation)
		if km > q.RadiusKM {
			continue
		}
		results = append(results, NearbyProfile{Profile: p.Clone(), DistanceKM: km})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceKM != results[j].DistanceKM {
			return results[i].DistanceKM < results[j].DistanceKM
		}
		return results[i].Profile.ID < results[j].Profile.ID
	})

	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, nil
}

// ListRecent returns one page of discoverable profiles, newest first.
func (r *InMemoryRepository) ListRecent(_ context.Context, q RecencyQuery) ([]*Profile, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Profile
	for _, p := range r.profiles {
		if r.discoverable(p, q.Gender) {
			all = append(all, p)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	start := 0
	if q.Cursor != "" {
		for i, p := range all {
			if p.ID == q.Cursor {
				start = i + 1
				break
			}
		}
	}
	if start >= len(all) {
		return nil, "", nil
	}

	end := len(all)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	page := make([]*Profile, 0, end-start)
	for _, p := range all[start:end] {
		page = append(page, p.Clone())
	}

	next := ""
	if len(page) > 0 {
		next = page[len(page)-1].ID
	}
	return page, next, nil
}

func (r *InMemoryRepository) discoverable(p *Profile, gender string) bool {
	s := p.SettingsOrDefault()
	if !s.ShowMe {
		return false
	}
	if gender != "" && s.Gender != gender {
		return false
	}
	return true
}

// kilometersBetween mirrors the spatial index's law-of-cosines distance.
func kilometersBetween(a, b Location) float64 {
	if a.Equal(b) {
		return 0
	}
	radLat1 := a.Latitude * math.Pi / 180
	radLat2 := b.Latitude * math.Pi / 180
	radTheta := (a.Longitude - b.Longitude) * math.Pi / 180

	cosine := math.Sin(radLat1)*math.Sin(radLat2) +
		math.Cos(radLat1)*math.Cos(radLat2)*math.Cos(radTheta)
	if cosine > 1 {
		cosine = 1
	}

	miles := math.Acos(cosine) * 180 / math.Pi * 60 * 1.1515
	return miles * 1.609344
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)

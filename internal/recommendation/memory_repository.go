package recommendation

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for tests
// and local development.
type InMemoryRepository struct {
	mu        sync.RWMutex
	sets      map[string][]Candidate
	computing map[string]bool
}

// NewInMemoryRepository creates a new in-memory recommendation repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sets:      make(map[string][]Candidate),
		computing: make(map[string]bool),
	}
}

// Replace swaps userID's entire set for the given candidates.
func (r *InMemoryRepository) Replace(_ context.Context, userID string, candidates []Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]Candidate, len(candidates))
	copy(next, candidates)
	r.sets[userID] = next
	return nil
}

// Remove deletes one entry; missing entries are ignored.
func (r *InMemoryRepository) Remove(_ context.Context, userID, candidateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set := r.sets[userID]
	for i, c := range set {
		if c.Profile.ID == candidateID {
			r.sets[userID] = append(set[:i:i], set[i+1:]...)
			return nil
		}
	}
	return nil
}

// Count returns the size of userID's set.
func (r *InMemoryRepository) Count(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sets[userID]), nil
}

// List returns one page of userID's set.
func (r *InMemoryRepository) List(_ context.Context, userID string, page, size int) ([]Candidate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.sets[userID]
	start := (page - 1) * size
	if start >= len(set) {
		return nil, nil
	}
	end := start + size
	if end > len(set) {
		end = len(set)
	}

	out := make([]Candidate, end-start)
	copy(out, set[start:end])
	return out, nil
}

// SetComputing flips the in-progress flag.
func (r *InMemoryRepository) SetComputing(_ context.Context, userID string, computing bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.computing[userID] = computing
	return nil
}

// Computing reads the in-progress flag.
func (r *InMemoryRepository) Computing(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.computing[userID], nil
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)

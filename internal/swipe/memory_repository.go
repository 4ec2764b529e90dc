package swipe

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository used by
// tests and local development.
type InMemoryRepository struct {
	mu sync.RWMutex
	// swipes is keyed author → category → target.
	swipes map[string]map[string]map[string]*Swipe
}

// NewInMemoryRepository creates a new in-memory swipe repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		swipes: make(map[string]map[string]map[string]*Swipe),
	}
}

// Record upserts a swipe into its (author, category, target) slot.
func (r *InMemoryRepository) Record(_ context.Context, s *Swipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byCategory, ok := r.swipes[s.AuthorID]
	if !ok {
		byCategory = make(map[string]map[string]*Swipe)
		r.swipes[s.AuthorID] = byCategory
	}
	byTarget, ok := byCategory[s.Type.Category()]
	if !ok {
		byTarget = make(map[string]*Swipe)
		byCategory[s.Type.Category()] = byTarget
	}

	cp := *s
	byTarget[s.SwipedProfileID] = &cp
	return nil
}

// Get retrieves the swipe stored for (authorID, category, targetID).
func (r *InMemoryRepository) Get(_ context.Context, authorID, category, targetID string) (*Swipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.swipes[authorID][category][targetID]
	if !ok {
		return nil, ErrSwipeNotFound
	}
	cp := *s
	return &cp, nil
}

// AllByAuthor merges the given categories into a target→type map.
func (r *InMemoryRepository) AllByAuthor(_ context.Context, authorID string, categories []string) (map[string]Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	merged := make(map[string]Type)
	for _, category := range categories {
		for target, s := range r.swipes[authorID][category] {
			merged[target] = s.Type
		}
	}
	return merged, nil
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)

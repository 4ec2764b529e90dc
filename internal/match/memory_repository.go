package match

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository used by
// tests and local development.
type InMemoryRepository struct {
	mu      sync.RWMutex
	matches map[string][]*Match
}

// NewInMemoryRepository creates a new in-memory match repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		matches: make(map[string][]*Match),
	}
}

// Add appends a match entry to ownerID's match list.
func (r *InMemoryRepository) Add(_ context.Context, ownerID string, m *Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *m
	cp.Match = *m.Match.Clone()
	r.matches[ownerID] = append(r.matches[ownerID], &cp)
	return nil
}

// List returns one page of ownerID's match list, newest first.
func (r *InMemoryRepository) List(_ context.Context, ownerID string, page, size int) ([]*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Match, len(r.matches[ownerID]))
	copy(all, r.matches[ownerID])
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(all) {
		return nil, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}

	out := make([]*Match, 0, end-start)
	for _, m := range all[start:end] {
		cp := *m
		cp.Match = *m.Match.Clone()
		out = append(out, &cp)
	}
	return out, nil
}

// Ensure InMemoryRepository implements Repository.
var _ Repository = (*InMemoryRepository)(nil)

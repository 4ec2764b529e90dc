package swipe

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrSwipeNotFound = errors.New("swipe not found")
)

// Repository defines the interface for swipe persistence. Swipes are keyed
// by (author, category, target); Record is last-write-wins per slot.
type Repository interface {
	// Record upserts a swipe into its (author, category, target) slot.
	Record(ctx context.Context, s *Swipe) error

	// Get retrieves the swipe stored for (authorID, category, targetID).
	Get(ctx context.Context, authorID, category, targetID string) (*Swipe, error)

	// AllByAuthor merges the given categories of an author's swipes into
	// a target→type map, used as the recomputation exclusion filter.
	AllByAuthor(ctx context.Context, authorID string, categories []string) (map[string]Type, error)
}

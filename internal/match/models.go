// Package match detects mutual-interest events and maintains each user's
// match list.
package match

import (
	"context"
	"time"

	"github.com/kindlingapp/kindling/internal/profile"
)

// Match is one entry in a user's match list. ID is the other user's profile
// ID and Match is a snapshot of their profile taken at match time.
type Match struct {
	ID          string          `json:"id"`
	Match       profile.Profile `json:"match"`
	HasBeenSeen bool            `json:"hasBeenSeen"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Repository defines the interface for match-list persistence.
type Repository interface {
	// Add appends a match entry to ownerID's match list.
	Add(ctx context.Context, ownerID string, m *Match) error

	// List returns one page of ownerID's match list, newest first.
	// Page numbering starts at 1. An empty list is not an error.
	List(ctx context.Context, ownerID string, page, size int) ([]*Match, error)
}

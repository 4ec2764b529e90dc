package recommendation

import "context"

// Repository defines the interface for recommendation-set persistence. Each
// user's set is paired with a flag row recording whether a recomputation is
// in progress.
type Repository interface {
	// Replace atomically deletes every existing recommendation for
	// userID and inserts the given candidates as one all-or-nothing
	// operation. A concurrent reader never observes a partially
	// rewritten set.
	Replace(ctx context.Context, userID string, candidates []Candidate) error

	// Remove deletes a single entry from userID's set. Removing an
	// entry that is already gone is not an error.
	Remove(ctx context.Context, userID, candidateID string) error

	// Count returns the number of entries currently in userID's set.
	Count(ctx context.Context, userID string) (int, error)

	// List returns one page of userID's set. Page numbering starts at 1.
	List(ctx context.Context, userID string, page, size int) ([]Candidate, error)

	// SetComputing flips the in-progress flag for userID.
	SetComputing(ctx context.Context, userID string, computing bool) error

	// Computing reads the in-progress flag; a user with no flag row
	// reads as false.
	Computing(ctx context.Context, userID string) (bool, error)
}

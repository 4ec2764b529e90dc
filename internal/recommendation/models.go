// Package recommendation computes and stores each user's recommendation
// set: the batch of candidate profiles presented for swiping.
package recommendation

import "github.com/kindlingapp/kindling/internal/profile"

// Pipeline constants. These are product parameters, not deployment
// configuration.
const (
	// BatchFetchLimit caps the candidates accumulated per recomputation
	// cycle. The unbounded-radius pagination loop never exceeds it.
	BatchFetchLimit = 200

	// LowWaterMark is the remaining-count threshold at which a shrinking
	// recommendation set is replenished.
	LowWaterMark = 15
)

// Candidate is one recommendation: a profile snapshot annotated with a
// display distance.
type Candidate struct {
	Profile  profile.Profile `json:"profile"`
	Distance string          `json:"distance,omitempty"`
}

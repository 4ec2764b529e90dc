// Package changefeed carries data-change events from the API to the worker
// over Pub/Sub: profile writes and recommendation deletions.
package changefeed

import "github.com/kindlingapp/kindling/internal/profile"

// Event kinds.
const (
	KindProfileWrite         = "profile_write"
	KindRecommendationDelete = "recommendation_delete"
)

// Message is the wire format for one change event. Before/After are set for
// profile writes; UserID and Remaining for recommendation deletions.
type Message struct {
	Kind string `json:"kind"`

	Before *profile.Profile `json:"before,omitempty"`
	After  *profile.Profile `json:"after,omitempty"`

	UserID    string `json:"userId,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
}

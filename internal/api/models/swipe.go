package models

import "github.com/kindlingapp/kindling/internal/profile"

// SwipeRequest is the body of POST /v1/swipes.
type SwipeRequest struct {
	SwipedProfileID string `json:"swipedProfileId"`
	Type            string `json:"type"`
}

// SwipeResponse reports the outcome of a swipe. MatchedUser is null unless
// the swipe completed a mutual match.
type SwipeResponse struct {
	MatchedUser *profile.Profile `json:"matchedUser"`
}

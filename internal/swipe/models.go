// Package swipe records like/dislike/superlike decisions and hosts the
// swipe-ingestion entry point.
package swipe

import "time"

// Type is the direction of a swipe decision.
type Type string

// Swipe types.
const (
	TypeLike      Type = "like"
	TypeDislike   Type = "dislike"
	TypeSuperlike Type = "superlike"
)

// Valid reports whether t is a known swipe type.
func (t Type) Valid() bool {
	switch t {
	case TypeLike, TypeDislike, TypeSuperlike:
		return true
	}
	return false
}

// Positive reports whether t expresses interest and can produce a match.
func (t Type) Positive() bool {
	return t == TypeLike || t == TypeSuperlike
}

// Category names the storage bucket for a swipe type. Each (author, category,
// target) slot holds at most one swipe; a later swipe of the same category
// overwrites the earlier one.
func (t Type) Category() string {
	return string(t) + "s"
}

// ExclusionCategories are the categories merged into the recomputation
// exclusion map: likes and dislikes. Superlikes keep their own category and
// stay out of the map, so a superliked profile can resurface as a
// recommendation.
var ExclusionCategories = []string{TypeLike.Category(), TypeDislike.Category()}

// Swipe is one recorded decision by AuthorID about SwipedProfileID.
type Swipe struct {
	AuthorID        string    `json:"authorID"`
	SwipedProfileID string    `json:"swipedProfileID"`
	Type            Type      `json:"type"`
	CreatedAt       time.Time `json:"createdAt"`
}

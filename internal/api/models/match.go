package models

import "github.com/kindlingapp/kindling/internal/match"

// MatchesResponse is the body of GET /v1/me/matches. The endpoint always
// reports success; an empty page and a backend fault look the same to the
// client.
type MatchesResponse struct {
	Matches []*match.Match `json:"matches"`
	Success bool           `json:"success"`
}

package models

import "github.com/kindlingapp/kindling/internal/recommendation"

// RecommendationsResponse is the body of GET /v1/me/recommendations.
// IsComputing tells the client a recomputation is rewriting the set.
type RecommendationsResponse struct {
	Recommendations []recommendation.Candidate `json:"recommendations"`
	IsComputing     bool                       `json:"isComputing"`
}

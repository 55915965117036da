package model

import "time"

// Recommendation statuses.
const (
	RecommendationReady  = "ready"
	RecommendationNoGaps = "no_gaps" // nothing to analyze: no rating has a positive gap
)

// Recommendation is the result of one successful pipeline invocation.
type Recommendation struct {
	Status      string    `json:"status"`
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model,omitempty"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generatedAt"`
}

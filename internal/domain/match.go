package domain

import "time"

// RankedCandidate is a scored candidate returned by the match orchestrator.
type RankedCandidate struct {
	Candidate               MatchingProfile
	CompatibilityScore      float64
	CompatibilityPercentage int
}

// InterestResult reports the outcome of registering one-sided interest.
type InterestResult struct {
	TargetID      string
	IsMutualMatch bool
}

// MatchSummary is a mutual match as presented in the match list.
type MatchSummary struct {
	User      User
	Interests Interests
	MatchedAt *time.Time
}

// RecommendationStats describes the recommendation pool for a user.
type RecommendationStats struct {
	TotalCandidates      int
	UserHasProfile       bool
	UserInterestsCount   int
	AverageCompatibility float64
}

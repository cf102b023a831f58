// Package scoring implements the weighted compatibility score between two
// matching profiles. Scoring is pure: it never touches the store and never
// fails, absent data simply contributes nothing.
package scoring

import (
	"math"

	"github.com/priyal/unimatch/backend/internal/domain"
)

// Weights distributes the final score across the four compatibility
// dimensions. They are expected to sum to 1.0.
type Weights struct {
	Interests    float64
	Personality  float64
	Demographics float64
	Affiliation  float64
}

// DefaultWeights returns the canonical weight split.
func DefaultWeights() Weights {
	return Weights{
		Interests:    0.40,
		Personality:  0.35,
		Demographics: 0.15,
		Affiliation:  0.10,
	}
}

func (w Weights) isZero() bool {
	return w.Interests == 0 && w.Personality == 0 && w.Demographics == 0 && w.Affiliation == 0
}

// Each interest category carries an equal share of the interest dimension.
const categoryWeight = 0.25

// Scorer computes compatibility scores under a fixed weight configuration.
type Scorer struct {
	weights Weights
}

// New constructs a Scorer; zero-value weights fall back to the defaults.
func New(weights Weights) *Scorer {
	if weights.isZero() {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// Score returns the weighted compatibility between a and b in [0, 1].
// Every sub-score is symmetric, so Score(a, b) == Score(b, a).
func (s *Scorer) Score(a, b domain.MatchingProfile) float64 {
	total := s.weights.Interests * interestSimilarity(a.Interests, b.Interests)
	total += s.weights.Personality * personalitySimilarity(a.Profile, b.Profile)
	total += s.weights.Demographics * demographicSimilarity(a.User.Age, b.User.Age)
	total += s.weights.Affiliation * affiliationSimilarity(a.User.University, b.User.University)

	return math.Min(1, total)
}

// Percentage converts a score to the rounded percentage shown to users.
func Percentage(score float64) int {
	return int(math.Round(score * 100))
}

// interestSimilarity sums the per-category Jaccard index, each category
// weighted equally. A category where either side has no interests earns no
// similarity credit; it is not skipped or renormalized.
func interestSimilarity(a, b domain.Interests) float64 {
	var total float64
	for _, category := range domain.Categories() {
		left, right := a[category], b[category]
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		total += jaccard(left, right) * categoryWeight
	}
	return total
}

// jaccard computes |intersection| / |union| over the two name lists,
// treating them as sets.
func jaccard(a, b []string) float64 {
	union := make(map[string]struct{}, len(a)+len(b))
	left := make(map[string]struct{}, len(a))
	for _, name := range a {
		left[name] = struct{}{}
		union[name] = struct{}{}
	}
	intersection := 0
	seen := make(map[string]struct{}, len(b))
	for _, name := range b {
		union[name] = struct{}{}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := left[name]; ok {
			intersection++
		}
	}
	if len(union) == 0 {
		return 0
	}
	return float64(intersection) / float64(len(union))
}

// personalitySimilarity counts exact matches among the personality fields
// present on both profiles.
func personalitySimilarity(a, b *domain.Profile) float64 {
	if a == nil || b == nil {
		return 0
	}

	fieldsA := a.PersonalityFields()
	fieldsB := b.PersonalityFields()

	matches, comparable := 0, 0
	for i := range fieldsA {
		if fieldsA[i] == "" || fieldsB[i] == "" {
			continue
		}
		comparable++
		if fieldsA[i] == fieldsB[i] {
			matches++
		}
	}
	if comparable == 0 {
		return 0
	}
	return float64(matches) / float64(comparable)
}

// demographicSimilarity is a step function of absolute age difference.
func demographicSimilarity(ageA, ageB int) float64 {
	diff := ageA - ageB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 1:
		return 1.0
	case diff == 2:
		return 0.8
	case diff == 3:
		return 0.6
	case diff == 4:
		return 0.4
	case diff == 5:
		return 0.2
	default:
		return 0
	}
}

// affiliationSimilarity is a binary same-university signal.
func affiliationSimilarity(a, b string) float64 {
	if a != "" && a == b {
		return 1.0
	}
	return 0
}

package repository

import (
	"context"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/graph"
)

// DefaultCandidateLimit caps the candidate pool pulled from the store when
// no explicit limit is configured.
const DefaultCandidateLimit = 100

// CandidateRepository retrieves the pool of match candidates the scoring
// pipeline ranks.
type CandidateRepository struct {
	client graph.Client
}

// NewCandidateRepository instantiates a CandidateRepository backed by the
// supplied graph client.
func NewCandidateRepository(client graph.Client) *CandidateRepository {
	return &CandidateRepository{client: client}
}

// FindCandidates returns completed, active, opposite-gender profiles inside
// the seeker's age window, excluding anyone already matched with or disliked
// by the seeker. Results come back in stable id order so ranking is
// deterministic across calls.
func (r *CandidateRepository) FindCandidates(ctx context.Context, seeker domain.User, limit int) ([]domain.MatchingProfile, error) {
	if seeker.ID == "" {
		return nil, errs.Validation("user id is required")
	}
	if !seeker.Gender.Valid() {
		return nil, errs.Validation("user %s has no valid gender set", seeker.ID)
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	minAge := seeker.Age - 5
	if minAge < domain.MinAge {
		minAge = domain.MinAge
	}
	maxAge := seeker.Age + 5
	if maxAge > domain.MaxAge {
		maxAge = domain.MaxAge
	}

	res, err := r.client.ExecuteRead(ctx, findCandidatesCypher, map[string]any{
		"userId": seeker.ID,
		"gender": string(seeker.Gender.Opposite()),
		"minAge": minAge,
		"maxAge": maxAge,
		"limit":  limit,
	})
	if err != nil {
		return nil, errs.StoreUnavailable("loading candidates failed", err)
	}

	candidates := make([]domain.MatchingProfile, 0, len(res.Records))
	for _, record := range res.Records {
		profile := decodeProfile(record)
		candidates = append(candidates, domain.MatchingProfile{
			User:      decodeUser(record),
			Interests: domain.OrganizeInterests(decodeInterests(record["interests"])),
			Profile:   &profile,
		})
	}
	return candidates, nil
}

const findCandidatesCypher = `
MATCH (me:User {id: $userId})
MATCH (candidate:User)-[:HAS_PROFILE]->(p:Profile)
WHERE candidate.id <> $userId
  AND candidate.isActive = true
  AND candidate.gender = $gender
  AND candidate.age >= $minAge
  AND candidate.age <= $maxAge
  AND p.completedAt IS NOT NULL
  AND NOT (me)-[:MATCHED_WITH]-(candidate)
  AND NOT (me)-[:DISLIKES]->(candidate)
OPTIONAL MATCH (candidate)-[:LIKES]->(i:Interest)
RETURN candidate.id AS id,
       candidate.name AS name,
       candidate.email AS email,
       candidate.age AS age,
       candidate.gender AS gender,
       candidate.university AS university,
       candidate.career AS career,
       candidate.semester AS semester,
       candidate.instagram AS instagram,
       candidate.isActive AS isActive,
       candidate.createdAt AS createdAt,
       candidate.updatedAt AS updatedAt,
       p.relationshipValues AS relationshipValues,
       p.weekendPreference AS weekendPreference,
       p.conversationStyle AS conversationStyle,
       p.socialLife AS socialLife,
       p.relationshipGoal AS relationshipGoal,
       p.completedAt AS completedAt,
       p.lastUpdated AS lastUpdated,
       collect(DISTINCT {name: i.name, category: i.category}) AS interests
ORDER BY candidate.id
LIMIT $limit
`

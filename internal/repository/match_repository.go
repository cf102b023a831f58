package repository

import (
	"context"
	"errors"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/graph"
)

// MatchRepository records expressions of interest and reads back confirmed
// mutual matches.
type MatchRepository struct {
	client graph.Client
}

// NewMatchRepository instantiates a MatchRepository backed by the supplied
// graph client.
func NewMatchRepository(client graph.Client) *MatchRepository {
	return &MatchRepository{client: client}
}

// RegisterInterest records that userID is interested in targetID. If the
// target had already expressed interest back, a symmetric MATCHED_WITH pair
// is created in the same statement and true is returned. Re-registering the
// same interest only bumps its updatedAt stamp.
func (r *MatchRepository) RegisterInterest(ctx context.Context, userID, targetID string) (bool, error) {
	if userID == "" || targetID == "" {
		return false, errs.Validation("user id and target id are required")
	}

	var mutual bool
	err := r.client.ExecuteWriteTx(ctx, func(ctx context.Context, tx graph.Tx) error {
		res, err := tx.Run(ctx, matchUserCypher, map[string]any{"userId": targetID})
		if err != nil {
			return err
		}
		if len(res.Records) == 0 {
			return errs.NotFound("user %s does not exist", targetID)
		}

		res, err = tx.Run(ctx, registerInterestCypher, map[string]any{
			"userId":   userID,
			"targetId": targetID,
		})
		if err != nil {
			return err
		}
		if len(res.Records) == 0 {
			return errs.NotFound("user %s does not exist", userID)
		}
		mutual = toBool(res.Records[0]["isMutual"])
		return nil
	})
	if err != nil {
		var typed *errs.Error
		if errors.As(err, &typed) {
			return false, err
		}
		return false, errs.StoreUnavailable("registering interest failed", err)
	}
	return mutual, nil
}

// ListMutualMatches returns the user's confirmed matches with their
// interests and the time the match was made, ordered by name.
func (r *MatchRepository) ListMutualMatches(ctx context.Context, userID string) ([]domain.MatchSummary, error) {
	if userID == "" {
		return nil, errs.Validation("user id is required")
	}

	res, err := r.client.ExecuteRead(ctx, listMutualMatchesCypher, map[string]any{"userId": userID})
	if err != nil {
		return nil, errs.StoreUnavailable("loading matches failed", err)
	}

	matches := make([]domain.MatchSummary, 0, len(res.Records))
	for _, record := range res.Records {
		matches = append(matches, domain.MatchSummary{
			User:      decodeUser(record),
			Interests: domain.OrganizeInterests(decodeInterests(record["interests"])),
			MatchedAt: toTimePtr(record["matchedAt"]),
		})
	}
	return matches, nil
}

// The reciprocal edge is probed with OPTIONAL MATCH and the MATCHED_WITH
// pair is created inside FOREACH, which runs zero or one times depending on
// whether the probe found anything. Both directions are written so either
// side's exclusion filter sees the match.
const registerInterestCypher = `
MATCH (me:User {id: $userId})
MATCH (target:User {id: $targetId})
MERGE (me)-[r:INTERESTED_IN]->(target)
ON CREATE SET r.createdAt = datetime()
ON MATCH SET r.updatedAt = datetime()
WITH me, target
OPTIONAL MATCH (target)-[reciprocal:INTERESTED_IN]->(me)
FOREACH (_ IN CASE WHEN reciprocal IS NOT NULL THEN [1] ELSE [] END |
	MERGE (me)-[m1:MATCHED_WITH]->(target)
	ON CREATE SET m1.createdAt = datetime()
	MERGE (target)-[m2:MATCHED_WITH]->(me)
	ON CREATE SET m2.createdAt = datetime()
)
RETURN reciprocal IS NOT NULL AS isMutual
`

const listMutualMatchesCypher = `
MATCH (me:User {id: $userId})-[m:MATCHED_WITH]->(match:User)
OPTIONAL MATCH (match)-[:LIKES]->(i:Interest)
RETURN match.id AS id,
       match.name AS name,
       match.email AS email,
       match.age AS age,
       match.gender AS gender,
       match.university AS university,
       match.career AS career,
       match.semester AS semester,
       match.instagram AS instagram,
       match.isActive AS isActive,
       match.createdAt AS createdAt,
       match.updatedAt AS updatedAt,
       m.createdAt AS matchedAt,
       collect(DISTINCT {name: i.name, category: i.category}) AS interests
ORDER BY match.name, match.id
`

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/graph"
)

// ProfileRepository loads and writes a user's full matching profile:
// the user node, its liked interests, and the personality profile.
type ProfileRepository struct {
	client graph.Client
}

// NewProfileRepository instantiates a ProfileRepository backed by the
// supplied graph client.
func NewProfileRepository(client graph.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// EnsureSchema creates the uniqueness constraints the data model relies on.
func (r *ProfileRepository) EnsureSchema(ctx context.Context) error {
	for _, constraint := range schemaConstraints {
		if _, err := r.client.ExecuteWrite(ctx, constraint, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// GetProfile fetches a user's matching profile. A user without a completed
// questionnaire is returned with a nil Profile, which is distinct from the
// user not existing at all.
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (domain.MatchingProfile, error) {
	if userID == "" {
		return domain.MatchingProfile{}, errs.Validation("user id is required")
	}

	res, err := r.client.ExecuteRead(ctx, getProfileCypher, map[string]any{"userId": userID})
	if err != nil {
		return domain.MatchingProfile{}, errs.StoreUnavailable("loading profile failed", err)
	}
	if len(res.Records) == 0 {
		return domain.MatchingProfile{}, errs.NotFound("user %s does not exist", userID)
	}

	record := res.Records[0]
	profile := domain.MatchingProfile{
		User:      decodeUser(record),
		Interests: domain.OrganizeInterests(decodeInterests(record["interests"])),
	}
	if toBool(record["hasProfile"]) {
		p := decodeProfile(record)
		profile.Profile = &p
	}
	return profile, nil
}

// SaveQuestionnaire replaces the user's questionnaire state in a single
// store transaction: the personality profile is upserted and stamped, all
// existing LIKES edges are deleted, and the submitted interests are
// recreated, upserting Interest nodes by name. The category of an Interest
// node is set only when the node is first created.
func (r *ProfileRepository) SaveQuestionnaire(ctx context.Context, userID string, profile domain.Profile, interests []domain.Interest) error {
	if userID == "" {
		return errs.Validation("user id is required")
	}
	if err := requireAllCategories(interests); err != nil {
		return err
	}

	err := r.client.ExecuteWriteTx(ctx, func(ctx context.Context, tx graph.Tx) error {
		res, err := tx.Run(ctx, matchUserCypher, map[string]any{"userId": userID})
		if err != nil {
			return err
		}
		if len(res.Records) == 0 {
			return errs.NotFound("user %s does not exist", userID)
		}

		if _, err := tx.Run(ctx, upsertProfileCypher, map[string]any{
			"userId":             userID,
			"relationshipValues": profile.RelationshipValues,
			"weekendPreference":  profile.WeekendPreference,
			"conversationStyle":  profile.ConversationStyle,
			"socialLife":         profile.SocialLife,
			"relationshipGoal":   profile.RelationshipGoal,
		}); err != nil {
			return err
		}

		if _, err := tx.Run(ctx, deleteLikesCypher, map[string]any{"userId": userID}); err != nil {
			return err
		}

		_, err = tx.Run(ctx, replaceLikesCypher, map[string]any{
			"userId":    userID,
			"interests": interestParams(interests),
		})
		return err
	})
	if err != nil {
		var typed *errs.Error
		if errors.As(err, &typed) {
			return err
		}
		return errs.StoreUnavailable("saving questionnaire failed", err)
	}
	return nil
}

// CreateUser persists a new user node, enforcing email uniqueness.
func (r *ProfileRepository) CreateUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return errs.Validation("user id is required")
	}

	err := r.client.ExecuteWriteTx(ctx, func(ctx context.Context, tx graph.Tx) error {
		res, err := tx.Run(ctx, matchUserByEmailCypher, map[string]any{"email": user.Email})
		if err != nil {
			return err
		}
		if len(res.Records) > 0 {
			return errs.Conflict("email %s is already registered", user.Email)
		}

		_, err = tx.Run(ctx, createUserCypher, map[string]any{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"age":        user.Age,
			"gender":     string(user.Gender),
			"university": user.University,
			"career":     user.Career,
			"semester":   user.Semester,
			"instagram":  user.Instagram,
		})
		return err
	})
	if err != nil {
		var typed *errs.Error
		if errors.As(err, &typed) {
			return err
		}
		return errs.StoreUnavailable("creating user failed", err)
	}
	return nil
}

// UserUpdate is one of a fixed set of typed profile update operations, each
// bound to its own parameterized statement.
type UserUpdate interface {
	statement() (cypher string, value any)
}

// UpdateName changes the display name.
type UpdateName string

// UpdateCareer changes the degree program.
type UpdateCareer string

// UpdateSemester changes the semester label.
type UpdateSemester string

// UpdateInstagram changes the Instagram handle.
type UpdateInstagram string

// UpdateAge changes the age within the allowed bounds.
type UpdateAge int

func (u UpdateName) statement() (string, any)      { return setNameCypher, string(u) }
func (u UpdateCareer) statement() (string, any)    { return setCareerCypher, string(u) }
func (u UpdateSemester) statement() (string, any)  { return setSemesterCypher, string(u) }
func (u UpdateInstagram) statement() (string, any) { return setInstagramCypher, string(u) }
func (u UpdateAge) statement() (string, any)       { return setAgeCypher, int(u) }

// UpdateUser applies the given update operations atomically.
func (r *ProfileRepository) UpdateUser(ctx context.Context, userID string, updates []UserUpdate) error {
	if userID == "" {
		return errs.Validation("user id is required")
	}
	if len(updates) == 0 {
		return errs.Validation("no fields to update")
	}

	err := r.client.ExecuteWriteTx(ctx, func(ctx context.Context, tx graph.Tx) error {
		res, err := tx.Run(ctx, matchUserCypher, map[string]any{"userId": userID})
		if err != nil {
			return err
		}
		if len(res.Records) == 0 {
			return errs.NotFound("user %s does not exist", userID)
		}

		for _, update := range updates {
			cypher, value := update.statement()
			if _, err := tx.Run(ctx, cypher, map[string]any{
				"userId": userID,
				"value":  value,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var typed *errs.Error
		if errors.As(err, &typed) {
			return err
		}
		return errs.StoreUnavailable("updating user failed", err)
	}
	return nil
}

// DeactivateUser marks the user inactive. The node is never removed.
func (r *ProfileRepository) DeactivateUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errs.Validation("user id is required")
	}

	res, err := r.client.ExecuteWrite(ctx, deactivateUserCypher, map[string]any{"userId": userID})
	if err != nil {
		return errs.StoreUnavailable("deactivating user failed", err)
	}
	if len(res.Records) == 0 {
		return errs.NotFound("user %s does not exist", userID)
	}
	return nil
}

// requireAllCategories rejects submissions that leave any required category
// empty. Upper bounds are the orchestrator's concern; an empty category
// would silently zero out part of the interest dimension for every match.
func requireAllCategories(interests []domain.Interest) error {
	counts := make(map[domain.InterestCategory]int, len(domain.Categories()))
	for _, interest := range interests {
		counts[interest.Category]++
	}
	for _, category := range domain.Categories() {
		if counts[category] == 0 {
			return errs.Validation("at least one %s interest is required", category)
		}
	}
	return nil
}

var schemaConstraints = []string{
	`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
	`CREATE CONSTRAINT user_email_unique IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE`,
	`CREATE CONSTRAINT interest_name_unique IF NOT EXISTS FOR (i:Interest) REQUIRE i.name IS UNIQUE`,
}

const matchUserCypher = `
MATCH (u:User {id: $userId})
RETURN u.id AS id
`

const matchUserByEmailCypher = `
MATCH (u:User {email: $email})
RETURN u.id AS id
`

const createUserCypher = `
CREATE (u:User {
	id: $id,
	name: $name,
	email: $email,
	age: $age,
	gender: $gender,
	university: $university,
	career: $career,
	semester: $semester,
	instagram: $instagram,
	isActive: true,
	createdAt: datetime()
})
RETURN u.id AS id
`

const getProfileCypher = `
MATCH (u:User {id: $userId})
OPTIONAL MATCH (u)-[:HAS_PROFILE]->(p:Profile)
OPTIONAL MATCH (u)-[:LIKES]->(i:Interest)
RETURN u.id AS id,
       u.name AS name,
       u.email AS email,
       u.age AS age,
       u.gender AS gender,
       u.university AS university,
       u.career AS career,
       u.semester AS semester,
       u.instagram AS instagram,
       u.isActive AS isActive,
       u.createdAt AS createdAt,
       u.updatedAt AS updatedAt,
       p IS NOT NULL AS hasProfile,
       p.relationshipValues AS relationshipValues,
       p.weekendPreference AS weekendPreference,
       p.conversationStyle AS conversationStyle,
       p.socialLife AS socialLife,
       p.relationshipGoal AS relationshipGoal,
       p.completedAt AS completedAt,
       p.lastUpdated AS lastUpdated,
       collect(DISTINCT {name: i.name, category: i.category}) AS interests
`

const upsertProfileCypher = `
MATCH (u:User {id: $userId})
MERGE (u)-[:HAS_PROFILE]->(p:Profile)
SET p.relationshipValues = $relationshipValues,
    p.weekendPreference = $weekendPreference,
    p.conversationStyle = $conversationStyle,
    p.socialLife = $socialLife,
    p.relationshipGoal = $relationshipGoal,
    p.completedAt = datetime(),
    p.lastUpdated = datetime()
RETURN p
`

const deleteLikesCypher = `
MATCH (u:User {id: $userId})-[l:LIKES]->(:Interest)
DELETE l
`

const replaceLikesCypher = `
MATCH (u:User {id: $userId})
UNWIND $interests AS item
MERGE (i:Interest {name: item.name})
ON CREATE SET i.category = item.category
MERGE (u)-[l:LIKES]->(i)
SET l.rating = item.rating,
    l.createdAt = datetime()
`

const deactivateUserCypher = `
MATCH (u:User {id: $userId})
SET u.isActive = false,
    u.updatedAt = datetime()
RETURN u.id AS id
`

const setNameCypher = `
MATCH (u:User {id: $userId})
SET u.name = $value, u.updatedAt = datetime()
`

const setCareerCypher = `
MATCH (u:User {id: $userId})
SET u.career = $value, u.updatedAt = datetime()
`

const setSemesterCypher = `
MATCH (u:User {id: $userId})
SET u.semester = $value, u.updatedAt = datetime()
`

const setInstagramCypher = `
MATCH (u:User {id: $userId})
SET u.instagram = $value, u.updatedAt = datetime()
`

const setAgeCypher = `
MATCH (u:User {id: $userId})
SET u.age = $value, u.updatedAt = datetime()
`

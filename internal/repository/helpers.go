package repository

import (
	"fmt"
	"time"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/graph"
)

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt(val any) int {
	switch v := val.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toBool(val any) bool {
	b, ok := val.(bool)
	return ok && b
}

func toTimePtr(val any) *time.Time {
	switch v := val.(type) {
	case time.Time:
		return &v
	case string:
		if v == "" {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return &parsed
		}
	}
	return nil
}

// decodeInterests converts the collected {name, category} maps returned by
// the store into a flat interest list. Entries without a name are dropped
// (an OPTIONAL MATCH with no LIKES edges collects a single null entry).
func decodeInterests(val any) []domain.Interest {
	raw, ok := val.([]any)
	if !ok {
		return nil
	}
	var interests []domain.Interest
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := toString(entry["name"])
		if name == "" {
			continue
		}
		interests = append(interests, domain.Interest{
			Name:     name,
			Category: domain.InterestCategory(toString(entry["category"])),
			Rating:   toInt(entry["rating"]),
		})
	}
	return interests
}

func decodeUser(record graph.Record) domain.User {
	user := domain.User{
		ID:         toString(record["id"]),
		Name:       toString(record["name"]),
		Email:      toString(record["email"]),
		Age:        toInt(record["age"]),
		Gender:     domain.Gender(toString(record["gender"])),
		University: toString(record["university"]),
		Career:     toString(record["career"]),
		Semester:   toString(record["semester"]),
		Instagram:  toString(record["instagram"]),
		IsActive:   toBool(record["isActive"]),
	}
	if created := toTimePtr(record["createdAt"]); created != nil {
		user.CreatedAt = *created
	}
	if updated := toTimePtr(record["updatedAt"]); updated != nil {
		user.UpdatedAt = *updated
	}
	return user
}

func decodeProfile(record graph.Record) domain.Profile {
	return domain.Profile{
		RelationshipValues: toString(record["relationshipValues"]),
		WeekendPreference:  toString(record["weekendPreference"]),
		ConversationStyle:  toString(record["conversationStyle"]),
		SocialLife:         toString(record["socialLife"]),
		RelationshipGoal:   toString(record["relationshipGoal"]),
		CompletedAt:        toTimePtr(record["completedAt"]),
		LastUpdated:        toTimePtr(record["lastUpdated"]),
	}
}

func interestParams(interests []domain.Interest) []map[string]any {
	result := make([]map[string]any, 0, len(interests))
	for _, interest := range interests {
		rating := interest.Rating
		if rating <= 0 {
			rating = 1
		}
		result = append(result, map[string]any{
			"name":     interest.Name,
			"category": string(interest.Category),
			"rating":   rating,
		})
	}
	return result
}

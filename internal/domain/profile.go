package domain

import "time"

// Profile holds the personality answers from the questionnaire. Exactly one
// exists per user once the questionnaire has been completed, none before.
type Profile struct {
	RelationshipValues string
	WeekendPreference  string
	ConversationStyle  string
	SocialLife         string
	RelationshipGoal   string
	CompletedAt        *time.Time
	LastUpdated        *time.Time
}

// PersonalityFields returns the answers in the fixed order the scorer
// compares them in.
func (p Profile) PersonalityFields() []string {
	return []string{
		p.RelationshipValues,
		p.WeekendPreference,
		p.ConversationStyle,
		p.SocialLife,
		p.RelationshipGoal,
	}
}

// MatchingProfile is the unit of data the scorer consumes: the user node,
// its interests grouped by category, and the personality profile when the
// questionnaire has been completed.
type MatchingProfile struct {
	User      User
	Interests Interests
	Profile   *Profile
}

// HasCompletedQuestionnaire reports whether a personality profile exists.
func (mp MatchingProfile) HasCompletedQuestionnaire() bool {
	return mp.Profile != nil
}

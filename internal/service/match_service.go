// Package service orchestrates the matching workflows on top of the graph
// repositories: questionnaire intake, candidate ranking, interest
// registration, and match listing.
package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/repository"
	"github.com/priyal/unimatch/backend/internal/scoring"
)

// ProfileStore is the profile persistence surface the service depends on.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (domain.MatchingProfile, error)
	SaveQuestionnaire(ctx context.Context, userID string, profile domain.Profile, interests []domain.Interest) error
	CreateUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, userID string, updates []repository.UserUpdate) error
	DeactivateUser(ctx context.Context, userID string) error
}

// CandidateStore supplies the raw candidate pool for ranking.
type CandidateStore interface {
	FindCandidates(ctx context.Context, seeker domain.User, limit int) ([]domain.MatchingProfile, error)
}

// MatchStore records interests and reads back mutual matches.
type MatchStore interface {
	RegisterInterest(ctx context.Context, userID, targetID string) (bool, error)
	ListMutualMatches(ctx context.Context, userID string) ([]domain.MatchSummary, error)
}

// RankingCache caches computed rankings. Implementations must tolerate
// being handed a nil receiver through the interface.
type RankingCache interface {
	GetRanked(ctx context.Context, userID string, limit int) ([]domain.RankedCandidate, bool)
	SetRanked(ctx context.Context, userID string, limit int, ranked []domain.RankedCandidate)
	InvalidateUser(ctx context.Context, userID string)
}

// CategoryBound is the allowed selection count for one interest category.
type CategoryBound struct {
	Min int
	Max int
}

// Limits bundles the tunables of the matching pipeline.
type Limits struct {
	Categories        map[domain.InterestCategory]CategoryBound
	CandidateLimit    int
	DefaultMatchLimit int
	MaxMatchLimit     int
}

// DefaultLimits returns the product defaults: up to three music and
// entertainment picks, up to four sports and hobbies, a candidate pool of
// a hundred, and rankings of ten capped at fifty.
func DefaultLimits() Limits {
	return Limits{
		Categories: map[domain.InterestCategory]CategoryBound{
			domain.CategoryMusic:         {Min: 1, Max: 3},
			domain.CategoryEntertainment: {Min: 1, Max: 3},
			domain.CategorySports:        {Min: 1, Max: 4},
			domain.CategoryHobbies:       {Min: 1, Max: 4},
		},
		CandidateLimit:    repository.DefaultCandidateLimit,
		DefaultMatchLimit: 10,
		MaxMatchLimit:     50,
	}
}

type noopCache struct{}

func (noopCache) GetRanked(context.Context, string, int) ([]domain.RankedCandidate, bool) {
	return nil, false
}
func (noopCache) SetRanked(context.Context, string, int, []domain.RankedCandidate) {}
func (noopCache) InvalidateUser(context.Context, string)                           {}

// MatchService is the orchestrator for all matching operations.
type MatchService struct {
	profiles   ProfileStore
	candidates CandidateStore
	matches    MatchStore
	scorer     *scoring.Scorer
	cache      RankingCache
	validate   *validator.Validate
	limits     Limits
	logger     *slog.Logger
}

// NewMatchService wires the service. cache may be nil when Redis is not
// configured.
func NewMatchService(
	profiles ProfileStore,
	candidates CandidateStore,
	matches MatchStore,
	scorer *scoring.Scorer,
	cache RankingCache,
	limits Limits,
	logger *slog.Logger,
) *MatchService {
	if limits.Categories == nil {
		limits = DefaultLimits()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = noopCache{}
	}
	return &MatchService{
		profiles:   profiles,
		candidates: candidates,
		matches:    matches,
		scorer:     scorer,
		cache:      cache,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		limits:     limits,
		logger:     logger,
	}
}

// Registration is the payload for creating a new user.
type Registration struct {
	ID         string `validate:"omitempty,uuid4"`
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Age        int    `validate:"gte=18,lte=35"`
	Gender     string `validate:"required,oneof=female male"`
	University string `validate:"required"`
	Career     string
	Semester   string
	Instagram  string
}

// RegisterUser creates a new user, minting an id when none is supplied.
func (s *MatchService) RegisterUser(ctx context.Context, reg Registration) (domain.User, error) {
	if err := s.validate.Struct(reg); err != nil {
		return domain.User{}, errs.Validation("invalid registration: %v", err)
	}

	user := domain.User{
		ID:         reg.ID,
		Name:       reg.Name,
		Email:      reg.Email,
		Age:        reg.Age,
		Gender:     domain.Gender(reg.Gender),
		University: reg.University,
		Career:     reg.Career,
		Semester:   reg.Semester,
		Instagram:  reg.Instagram,
		IsActive:   true,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	if err := s.profiles.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.logger.Info("user registered", "userId", user.ID, "university", user.University)
	return user, nil
}

// GetUserProfile returns the user's full matching profile.
func (s *MatchService) GetUserProfile(ctx context.Context, userID string) (domain.MatchingProfile, error) {
	return s.profiles.GetProfile(ctx, userID)
}

// ProfileUpdates carries the optional user fields an update may change.
// Nil fields are left untouched.
type ProfileUpdates struct {
	Name      *string
	Career    *string
	Semester  *string
	Instagram *string
	Age       *int `validate:"omitempty,gte=18,lte=35"`
}

// UpdateProfile applies the non-nil fields of updates to the user.
func (s *MatchService) UpdateProfile(ctx context.Context, userID string, updates ProfileUpdates) error {
	if err := s.validate.Struct(updates); err != nil {
		return errs.Validation("invalid update: %v", err)
	}

	var ops []repository.UserUpdate
	if updates.Name != nil {
		ops = append(ops, repository.UpdateName(*updates.Name))
	}
	if updates.Career != nil {
		ops = append(ops, repository.UpdateCareer(*updates.Career))
	}
	if updates.Semester != nil {
		ops = append(ops, repository.UpdateSemester(*updates.Semester))
	}
	if updates.Instagram != nil {
		ops = append(ops, repository.UpdateInstagram(*updates.Instagram))
	}
	if updates.Age != nil {
		ops = append(ops, repository.UpdateAge(*updates.Age))
	}
	if len(ops) == 0 {
		return errs.Validation("no fields to update")
	}

	if err := s.profiles.UpdateUser(ctx, userID, ops); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// DeactivateUser removes the user from matching without deleting data.
func (s *MatchService) DeactivateUser(ctx context.Context, userID string) error {
	if err := s.profiles.DeactivateUser(ctx, userID); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// QuestionnaireAnswers is the questionnaire submission payload: interest
// selections per category plus the five personality answers.
type QuestionnaireAnswers struct {
	Music         []string `validate:"required,min=1,dive,required"`
	Entertainment []string `validate:"required,min=1,dive,required"`
	Sports        []string `validate:"required,min=1,dive,required"`
	Hobbies       []string `validate:"required,min=1,dive,required"`

	RelationshipValues string `validate:"required"`
	WeekendPreference  string `validate:"required"`
	ConversationStyle  string `validate:"required"`
	SocialLife         string `validate:"required"`
	RelationshipGoal   string `validate:"required"`
}

// SaveQuestionnaire validates and persists a full questionnaire submission,
// replacing any previous answers, and drops the user's cached rankings.
func (s *MatchService) SaveQuestionnaire(ctx context.Context, userID string, answers QuestionnaireAnswers) error {
	if err := s.validate.Struct(answers); err != nil {
		return errs.Validation("invalid questionnaire: %v", err)
	}

	selections := map[domain.InterestCategory][]string{
		domain.CategoryMusic:         answers.Music,
		domain.CategoryEntertainment: answers.Entertainment,
		domain.CategorySports:        answers.Sports,
		domain.CategoryHobbies:       answers.Hobbies,
	}
	var interests []domain.Interest
	for _, category := range domain.Categories() {
		names := selections[category]
		bound := s.limits.Categories[category]
		if bound.Max > 0 && len(names) > bound.Max {
			return errs.Validation("at most %d %s interests allowed, got %d", bound.Max, category, len(names))
		}
		for _, name := range names {
			interests = append(interests, domain.Interest{Name: name, Category: category})
		}
	}

	profile := domain.Profile{
		RelationshipValues: answers.RelationshipValues,
		WeekendPreference:  answers.WeekendPreference,
		ConversationStyle:  answers.ConversationStyle,
		SocialLife:         answers.SocialLife,
		RelationshipGoal:   answers.RelationshipGoal,
	}

	if err := s.profiles.SaveQuestionnaire(ctx, userID, profile, interests); err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, userID)
	s.logger.Info("questionnaire saved", "userId", userID, "interests", len(interests))
	return nil
}

// FindMatches ranks candidates for the user by compatibility. It requires a
// completed questionnaire and returns at most limit candidates, highest
// score first with candidate id as tiebreak.
func (s *MatchService) FindMatches(ctx context.Context, userID string, limit int) ([]domain.RankedCandidate, error) {
	if limit <= 0 {
		limit = s.limits.DefaultMatchLimit
	}
	if limit > s.limits.MaxMatchLimit {
		limit = s.limits.MaxMatchLimit
	}

	if ranked, ok := s.cache.GetRanked(ctx, userID, limit); ok {
		return ranked, nil
	}

	seeker, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !seeker.HasCompletedQuestionnaire() {
		return nil, errs.IncompleteProfile("user %s has not completed the questionnaire", userID)
	}

	candidates, err := s.candidates.FindCandidates(ctx, seeker.User, s.limits.CandidateLimit)
	if err != nil {
		return nil, err
	}

	ranked := s.rank(seeker, candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	s.cache.SetRanked(ctx, userID, limit, ranked)
	return ranked, nil
}

func (s *MatchService) rank(seeker domain.MatchingProfile, candidates []domain.MatchingProfile) []domain.RankedCandidate {
	ranked := make([]domain.RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		score := s.scorer.Score(seeker, candidate)
		ranked = append(ranked, domain.RankedCandidate{
			Candidate:               candidate,
			CompatibilityScore:      score,
			CompatibilityPercentage: scoring.Percentage(score),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompatibilityScore != ranked[j].CompatibilityScore {
			return ranked[i].CompatibilityScore > ranked[j].CompatibilityScore
		}
		return ranked[i].Candidate.User.ID < ranked[j].Candidate.User.ID
	})
	return ranked
}

// RegisterInterest records that userID likes targetID and reports whether
// that completed a mutual match. Self-interest is rejected.
func (s *MatchService) RegisterInterest(ctx context.Context, userID, targetID string) (domain.InterestResult, error) {
	if userID == targetID {
		return domain.InterestResult{}, errs.Conflict("cannot register interest in yourself")
	}

	mutual, err := s.matches.RegisterInterest(ctx, userID, targetID)
	if err != nil {
		return domain.InterestResult{}, err
	}
	if mutual {
		// A new match changes both users' candidate pools.
		s.cache.InvalidateUser(ctx, userID)
		s.cache.InvalidateUser(ctx, targetID)
		s.logger.Info("mutual match", "userId", userID, "targetId", targetID)
	}
	return domain.InterestResult{TargetID: targetID, IsMutualMatch: mutual}, nil
}

// ListMutualMatches returns the user's confirmed matches.
func (s *MatchService) ListMutualMatches(ctx context.Context, userID string) ([]domain.MatchSummary, error) {
	return s.matches.ListMutualMatches(ctx, userID)
}

// RecommendationStats summarizes the user's current matching situation.
func (s *MatchService) RecommendationStats(ctx context.Context, userID string) (domain.RecommendationStats, error) {
	seeker, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return domain.RecommendationStats{}, err
	}

	stats := domain.RecommendationStats{
		UserHasProfile:     seeker.HasCompletedQuestionnaire(),
		UserInterestsCount: seeker.Interests.Count(),
	}
	if !stats.UserHasProfile {
		return stats, nil
	}

	candidates, err := s.candidates.FindCandidates(ctx, seeker.User, s.limits.CandidateLimit)
	if err != nil {
		return domain.RecommendationStats{}, err
	}
	stats.TotalCandidates = len(candidates)

	if len(candidates) > 0 {
		var total float64
		for _, candidate := range candidates {
			total += s.scorer.Score(seeker, candidate)
		}
		stats.AverageCompatibility = total / float64(len(candidates))
	}
	return stats, nil
}

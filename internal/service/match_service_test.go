package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/repository"
	"github.com/priyal/unimatch/backend/internal/scoring"
)

type stubProfileStore struct {
	profile domain.MatchingProfile
	getErr  error

	savedUserID    string
	savedProfile   domain.Profile
	savedInterests []domain.Interest
	saveErr        error

	createdUser domain.User
	updates     []repository.UserUpdate
	deactivated string
}

func (s *stubProfileStore) GetProfile(ctx context.Context, userID string) (domain.MatchingProfile, error) {
	return s.profile, s.getErr
}

func (s *stubProfileStore) SaveQuestionnaire(ctx context.Context, userID string, profile domain.Profile, interests []domain.Interest) error {
	s.savedUserID = userID
	s.savedProfile = profile
	s.savedInterests = interests
	return s.saveErr
}

func (s *stubProfileStore) CreateUser(ctx context.Context, user domain.User) error {
	s.createdUser = user
	return nil
}

func (s *stubProfileStore) UpdateUser(ctx context.Context, userID string, updates []repository.UserUpdate) error {
	s.updates = updates
	return nil
}

func (s *stubProfileStore) DeactivateUser(ctx context.Context, userID string) error {
	s.deactivated = userID
	return nil
}

type stubCandidateStore struct {
	candidates []domain.MatchingProfile
	err        error
	limit      int
}

func (s *stubCandidateStore) FindCandidates(ctx context.Context, seeker domain.User, limit int) ([]domain.MatchingProfile, error) {
	s.limit = limit
	return s.candidates, s.err
}

type stubMatchStore struct {
	mutual  bool
	err     error
	matches []domain.MatchSummary
}

func (s *stubMatchStore) RegisterInterest(ctx context.Context, userID, targetID string) (bool, error) {
	return s.mutual, s.err
}

func (s *stubMatchStore) ListMutualMatches(ctx context.Context, userID string) ([]domain.MatchSummary, error) {
	return s.matches, s.err
}

type recordingCache struct {
	stored      map[string][]domain.RankedCandidate
	invalidated []string
	hits        int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stored: map[string][]domain.RankedCandidate{}}
}

func (c *recordingCache) GetRanked(ctx context.Context, userID string, limit int) ([]domain.RankedCandidate, bool) {
	ranked, ok := c.stored[userID]
	if ok {
		c.hits++
	}
	return ranked, ok
}

func (c *recordingCache) SetRanked(ctx context.Context, userID string, limit int, ranked []domain.RankedCandidate) {
	c.stored[userID] = ranked
}

func (c *recordingCache) InvalidateUser(ctx context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
	delete(c.stored, userID)
}

func completedProfile(id string, age int, university string) domain.MatchingProfile {
	return domain.MatchingProfile{
		User: domain.User{
			ID:         id,
			Age:        age,
			Gender:     domain.GenderFemale,
			University: university,
			IsActive:   true,
		},
		Interests: domain.Interests{
			domain.CategoryMusic: {"rock"},
		},
		Profile: &domain.Profile{
			RelationshipValues: "honesty",
			WeekendPreference:  "party",
			ConversationStyle:  "deep",
			SocialLife:         "extrovert",
			RelationshipGoal:   "serious",
		},
	}
}

func newTestService(profiles *stubProfileStore, candidates *stubCandidateStore, matches *stubMatchStore, cache RankingCache) *MatchService {
	return NewMatchService(profiles, candidates, matches, scoring.New(scoring.DefaultWeights()), cache, DefaultLimits(), nil)
}

func TestFindMatches_RanksByScoreThenID(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")

	// far: different university and age gap, so lowest score.
	far := completedProfile("z-far", 28, "Universidad Javeriana")
	far.Interests = domain.Interests{domain.CategoryMusic: {"jazz"}}
	far.Profile.RelationshipGoal = "casual"

	// closeA and closeB are identical candidates apart from their ids.
	closeA := completedProfile("a-close", 22, "Universidad Nacional")
	closeB := completedProfile("b-close", 22, "Universidad Nacional")

	profiles := &stubProfileStore{profile: seeker}
	candidates := &stubCandidateStore{candidates: []domain.MatchingProfile{far, closeB, closeA}}
	svc := newTestService(profiles, candidates, &stubMatchStore{}, nil)

	ranked, err := svc.FindMatches(context.Background(), "me", 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "a-close", ranked[0].Candidate.User.ID)
	assert.Equal(t, "b-close", ranked[1].Candidate.User.ID)
	assert.Equal(t, "z-far", ranked[2].Candidate.User.ID)
	assert.Greater(t, ranked[0].CompatibilityScore, ranked[2].CompatibilityScore)
	assert.Equal(t, scoring.Percentage(ranked[0].CompatibilityScore), ranked[0].CompatibilityPercentage)
}

func TestFindMatches_TruncatesToLimit(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")
	var pool []domain.MatchingProfile
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		pool = append(pool, completedProfile(id, 22, "Universidad Nacional"))
	}

	profiles := &stubProfileStore{profile: seeker}
	svc := newTestService(profiles, &stubCandidateStore{candidates: pool}, &stubMatchStore{}, nil)

	ranked, err := svc.FindMatches(context.Background(), "me", 2)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestFindMatches_DefaultAndMaxLimit(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")
	profiles := &stubProfileStore{profile: seeker}
	candidates := &stubCandidateStore{}
	svc := newTestService(profiles, candidates, &stubMatchStore{}, nil)

	_, err := svc.FindMatches(context.Background(), "me", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimits().CandidateLimit, candidates.limit)

	_, err = svc.FindMatches(context.Background(), "me", 500)
	require.NoError(t, err)
}

func TestFindMatches_IncompleteProfile(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")
	seeker.Profile = nil

	svc := newTestService(&stubProfileStore{profile: seeker}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	_, err := svc.FindMatches(context.Background(), "me", 10)
	assert.True(t, errs.IsKind(err, errs.KindIncompleteProfile))
}

func TestFindMatches_UsesCache(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")
	pool := []domain.MatchingProfile{completedProfile("c1", 22, "Universidad Nacional")}

	cache := newRecordingCache()
	profiles := &stubProfileStore{profile: seeker}
	svc := newTestService(profiles, &stubCandidateStore{candidates: pool}, &stubMatchStore{}, cache)

	first, err := svc.FindMatches(context.Background(), "me", 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.FindMatches(context.Background(), "me", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
}

func validAnswers() QuestionnaireAnswers {
	return QuestionnaireAnswers{
		Music:              []string{"rock"},
		Entertainment:      []string{"movies"},
		Sports:             []string{"gym"},
		Hobbies:            []string{"cooking"},
		RelationshipValues: "honesty",
		WeekendPreference:  "party",
		ConversationStyle:  "deep",
		SocialLife:         "extrovert",
		RelationshipGoal:   "serious",
	}
}

func TestSaveQuestionnaire(t *testing.T) {
	profiles := &stubProfileStore{}
	cache := newRecordingCache()
	cache.stored["me"] = []domain.RankedCandidate{}
	svc := newTestService(profiles, &stubCandidateStore{}, &stubMatchStore{}, cache)

	err := svc.SaveQuestionnaire(context.Background(), "me", validAnswers())
	require.NoError(t, err)

	assert.Equal(t, "me", profiles.savedUserID)
	assert.Equal(t, "honesty", profiles.savedProfile.RelationshipValues)
	require.Len(t, profiles.savedInterests, 4)
	assert.Equal(t, domain.CategoryMusic, profiles.savedInterests[0].Category)
	assert.Equal(t, "rock", profiles.savedInterests[0].Name)

	assert.Contains(t, cache.invalidated, "me")
}

func TestSaveQuestionnaire_MissingCategory(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	answers := validAnswers()
	answers.Sports = nil
	err := svc.SaveQuestionnaire(context.Background(), "me", answers)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestSaveQuestionnaire_TooManySelections(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	answers := validAnswers()
	answers.Music = []string{"rock", "pop", "jazz", "indie"}
	err := svc.SaveQuestionnaire(context.Background(), "me", answers)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestSaveQuestionnaire_MissingPersonalityAnswer(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	answers := validAnswers()
	answers.RelationshipGoal = ""
	err := svc.SaveQuestionnaire(context.Background(), "me", answers)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestRegisterInterest_Self(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	_, err := svc.RegisterInterest(context.Background(), "me", "me")
	assert.True(t, errs.IsKind(err, errs.KindConflict))
}

func TestRegisterInterest_MutualInvalidatesBothCaches(t *testing.T) {
	cache := newRecordingCache()
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{mutual: true}, cache)

	result, err := svc.RegisterInterest(context.Background(), "me", "them")
	require.NoError(t, err)
	assert.True(t, result.IsMutualMatch)
	assert.Equal(t, "them", result.TargetID)
	assert.ElementsMatch(t, []string{"me", "them"}, cache.invalidated)
}

func TestRegisterInterest_OneSidedKeepsCache(t *testing.T) {
	cache := newRecordingCache()
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{mutual: false}, cache)

	result, err := svc.RegisterInterest(context.Background(), "me", "them")
	require.NoError(t, err)
	assert.False(t, result.IsMutualMatch)
	assert.Empty(t, cache.invalidated)
}

func TestRegisterUser(t *testing.T) {
	profiles := &stubProfileStore{}
	svc := newTestService(profiles, &stubCandidateStore{}, &stubMatchStore{}, nil)

	user, err := svc.RegisterUser(context.Background(), Registration{
		Name:       "Sofia",
		Email:      "sofia@university.edu",
		Age:        22,
		Gender:     "female",
		University: "Universidad Nacional",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.Equal(t, user.ID, profiles.createdUser.ID)
	assert.Equal(t, domain.GenderFemale, profiles.createdUser.Gender)
}

func TestRegisterUser_Invalid(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	cases := []Registration{
		{Email: "sofia@university.edu", Age: 22, Gender: "female", University: "UN"},
		{Name: "Sofia", Email: "not-an-email", Age: 22, Gender: "female", University: "UN"},
		{Name: "Sofia", Email: "sofia@university.edu", Age: 17, Gender: "female", University: "UN"},
		{Name: "Sofia", Email: "sofia@university.edu", Age: 22, Gender: "nonbinary", University: "UN"},
		{Name: "Sofia", Email: "sofia@university.edu", Age: 22, Gender: "female"},
	}
	for i, reg := range cases {
		_, err := svc.RegisterUser(context.Background(), reg)
		assert.True(t, errs.IsKind(err, errs.KindValidation), "case %d", i)
	}
}

func TestUpdateProfile(t *testing.T) {
	profiles := &stubProfileStore{}
	cache := newRecordingCache()
	svc := newTestService(profiles, &stubCandidateStore{}, &stubMatchStore{}, cache)

	name := "Sofi"
	age := 23
	err := svc.UpdateProfile(context.Background(), "me", ProfileUpdates{Name: &name, Age: &age})
	require.NoError(t, err)

	require.Len(t, profiles.updates, 2)
	assert.Equal(t, repository.UpdateName("Sofi"), profiles.updates[0])
	assert.Equal(t, repository.UpdateAge(23), profiles.updates[1])
	assert.Contains(t, cache.invalidated, "me")
}

func TestUpdateProfile_NoFields(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	err := svc.UpdateProfile(context.Background(), "me", ProfileUpdates{})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestUpdateProfile_AgeOutOfRange(t *testing.T) {
	svc := newTestService(&stubProfileStore{}, &stubCandidateStore{}, &stubMatchStore{}, nil)

	age := 40
	err := svc.UpdateProfile(context.Background(), "me", ProfileUpdates{Age: &age})
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestRecommendationStats(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")
	pool := []domain.MatchingProfile{
		completedProfile("c1", 22, "Universidad Nacional"),
		completedProfile("c2", 30, "Universidad Javeriana"),
	}

	svc := newTestService(&stubProfileStore{profile: seeker}, &stubCandidateStore{candidates: pool}, &stubMatchStore{}, nil)

	stats, err := svc.RecommendationStats(context.Background(), "me")
	require.NoError(t, err)

	assert.True(t, stats.UserHasProfile)
	assert.Equal(t, 1, stats.UserInterestsCount)
	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Greater(t, stats.AverageCompatibility, 0.0)
	assert.LessOrEqual(t, stats.AverageCompatibility, 1.0)
}

func TestRecommendationStats_NoProfile(t *testing.T) {
	seeker := completedProfile("me", 22, "Universidad Nacional")
	seeker.Profile = nil
	candidates := &stubCandidateStore{}

	svc := newTestService(&stubProfileStore{profile: seeker}, candidates, &stubMatchStore{}, nil)

	stats, err := svc.RecommendationStats(context.Background(), "me")
	require.NoError(t, err)
	assert.False(t, stats.UserHasProfile)
	assert.Equal(t, 0, stats.TotalCandidates)
	assert.Equal(t, 0, candidates.limit)
}

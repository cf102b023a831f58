package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyal/unimatch/backend/internal/domain"
	"github.com/priyal/unimatch/backend/internal/errs"
	"github.com/priyal/unimatch/backend/internal/graph"
)

func seeker(age int) domain.User {
	return domain.User{ID: "me", Age: age, Gender: domain.GenderFemale}
}

func TestCandidateRepository_FindCandidates(t *testing.T) {
	mem := graph.NewMemoryClient()
	record := fullUserRecord("c1")
	record["gender"] = "male"
	record["relationshipValues"] = "honesty"
	record["weekendPreference"] = "party"
	record["conversationStyle"] = "deep"
	record["socialLife"] = "extrovert"
	record["relationshipGoal"] = "serious"
	record["completedAt"] = "2026-08-02T09:30:00Z"
	record["interests"] = []any{
		map[string]any{"name": "gym", "category": "sports"},
	}
	mem.PushReadResult(graph.Result{Records: []graph.Record{record}})

	repo := NewCandidateRepository(mem)
	candidates, err := repo.FindCandidates(context.Background(), seeker(22), 25)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	candidate := candidates[0]
	assert.Equal(t, "c1", candidate.User.ID)
	require.NotNil(t, candidate.Profile)
	assert.Equal(t, "honesty", candidate.Profile.RelationshipValues)
	assert.Equal(t, []string{"gym"}, candidate.Interests[domain.CategorySports])

	calls := mem.ReadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, findCandidatesCypher, calls[0].Query)
	assert.Equal(t, "me", calls[0].Params["userId"])
	assert.Equal(t, "male", calls[0].Params["gender"])
	assert.Equal(t, 18, calls[0].Params["minAge"])
	assert.Equal(t, 27, calls[0].Params["maxAge"])
	assert.Equal(t, 25, calls[0].Params["limit"])
}

func TestCandidateRepository_FindCandidates_AgeWindowClamped(t *testing.T) {
	cases := []struct {
		age     int
		wantMin int
		wantMax int
	}{
		{18, 18, 23},
		{20, 18, 25},
		{26, 21, 31},
		{33, 28, 35},
		{35, 30, 35},
	}

	for _, tc := range cases {
		mem := graph.NewMemoryClient()
		mem.PushReadResult(graph.Result{})

		repo := NewCandidateRepository(mem)
		_, err := repo.FindCandidates(context.Background(), seeker(tc.age), 10)
		require.NoError(t, err)

		call := mem.ReadCalls()[0]
		assert.Equal(t, tc.wantMin, call.Params["minAge"], "age %d", tc.age)
		assert.Equal(t, tc.wantMax, call.Params["maxAge"], "age %d", tc.age)
	}
}

func TestCandidateRepository_FindCandidates_DefaultLimit(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{})

	repo := NewCandidateRepository(mem)
	_, err := repo.FindCandidates(context.Background(), seeker(22), 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultCandidateLimit, mem.ReadCalls()[0].Params["limit"])
}

func TestCandidateRepository_FindCandidates_InvalidSeeker(t *testing.T) {
	repo := NewCandidateRepository(graph.NewMemoryClient())

	_, err := repo.FindCandidates(context.Background(), domain.User{}, 10)
	assert.True(t, errs.IsKind(err, errs.KindValidation))

	_, err = repo.FindCandidates(context.Background(), domain.User{ID: "me", Gender: "other"}, 10)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestCandidateRepository_FindCandidates_StoreFailure(t *testing.T) {
	storeErr := errors.New("socket closed")
	mem := graph.NewMemoryClient().WithError(storeErr)

	repo := NewCandidateRepository(mem)
	_, err := repo.FindCandidates(context.Background(), seeker(22), 10)
	assert.True(t, errs.IsKind(err, errs.KindStoreUnavailable))
	assert.True(t, errors.Is(err, storeErr))
}

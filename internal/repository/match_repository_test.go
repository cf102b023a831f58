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

func TestMatchRepository_RegisterInterest(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"id": "target"}}})
	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"isMutual": false}}})

	repo := NewMatchRepository(mem)
	mutual, err := repo.RegisterInterest(context.Background(), "me", "target")
	require.NoError(t, err)
	assert.False(t, mutual)

	calls := mem.WriteCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, matchUserCypher, calls[0].Query)
	assert.Equal(t, "target", calls[0].Params["userId"])
	assert.Equal(t, registerInterestCypher, calls[1].Query)
	assert.Equal(t, "me", calls[1].Params["userId"])
	assert.Equal(t, "target", calls[1].Params["targetId"])
}

func TestMatchRepository_RegisterInterest_Mutual(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"id": "target"}}})
	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"isMutual": true}}})

	repo := NewMatchRepository(mem)
	mutual, err := repo.RegisterInterest(context.Background(), "me", "target")
	require.NoError(t, err)
	assert.True(t, mutual)
}

func TestMatchRepository_RegisterInterest_TargetNotFound(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushWriteResult(graph.Result{})

	repo := NewMatchRepository(mem)
	_, err := repo.RegisterInterest(context.Background(), "me", "ghost")
	assert.True(t, errs.IsKind(err, errs.KindNotFound))
	assert.Len(t, mem.WriteCalls(), 1)
}

func TestMatchRepository_RegisterInterest_MissingIDs(t *testing.T) {
	repo := NewMatchRepository(graph.NewMemoryClient())
	_, err := repo.RegisterInterest(context.Background(), "", "target")
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestMatchRepository_RegisterInterest_StoreFailure(t *testing.T) {
	storeErr := errors.New("leader switch")
	mem := graph.NewMemoryClient().WithError(storeErr)

	repo := NewMatchRepository(mem)
	_, err := repo.RegisterInterest(context.Background(), "me", "target")
	assert.True(t, errs.IsKind(err, errs.KindStoreUnavailable))
	assert.True(t, errors.Is(err, storeErr))
}

func TestMatchRepository_ListMutualMatches(t *testing.T) {
	mem := graph.NewMemoryClient()
	record := fullUserRecord("m1")
	record["matchedAt"] = "2026-08-15T20:00:00Z"
	record["interests"] = []any{
		map[string]any{"name": "cooking", "category": "hobbies"},
	}
	mem.PushReadResult(graph.Result{Records: []graph.Record{record}})

	repo := NewMatchRepository(mem)
	matches, err := repo.ListMutualMatches(context.Background(), "me")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	match := matches[0]
	assert.Equal(t, "m1", match.User.ID)
	assert.Equal(t, []string{"cooking"}, match.Interests[domain.CategoryHobbies])
	require.NotNil(t, match.MatchedAt)
	assert.Equal(t, 2026, match.MatchedAt.Year())

	calls := mem.ReadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, listMutualMatchesCypher, calls[0].Query)
	assert.Equal(t, "me", calls[0].Params["userId"])
}

func TestMatchRepository_ListMutualMatches_Empty(t *testing.T) {
	mem := graph.NewMemoryClient()
	mem.PushReadResult(graph.Result{})

	repo := NewMatchRepository(mem)
	matches, err := repo.ListMutualMatches(context.Background(), "me")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

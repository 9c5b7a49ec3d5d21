package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/repository"
)

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupTestDB(t))

	first, created, err := repo.CreateIfAbsent(ctx, "user-b", "user-a")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "user-a", first.LowUserID)
	assert.Equal(t, "user-b", first.HighUserID)

	// same unordered pair from the other direction: no second row, no error
	second, created, err := repo.CreateIfAbsent(ctx, "user-a", "user-b")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	matches, err := repo.ListForUser(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestUpdateLastMessageMonotonicGuard(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewMatchRepository(database)

	match, _, err := repo.CreateIfAbsent(ctx, "a", "b")
	require.NoError(t, err)

	t2 := time.Now().UTC().Truncate(time.Millisecond)
	t1 := t2.Add(-time.Minute)
	t3 := t2.Add(time.Minute)

	require.NoError(t, repo.UpdateLastMessage(ctx, match.ID, "there", t2))

	// a backdated delivery must not regress the summary
	require.NoError(t, repo.UpdateLastMessage(ctx, match.ID, "hi", t1))

	got, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastMessageText)
	assert.Equal(t, "there", *got.LastMessageText)
	assert.True(t, got.LastMessageAt.Equal(t2))

	// a newer message moves it forward
	require.NoError(t, repo.UpdateLastMessage(ctx, match.ID, "newest", t3))
	got, err = repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, "newest", *got.LastMessageText)
	assert.True(t, got.LastMessageAt.Equal(t3))
}

func TestListForUserMembership(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMatchRepository(setupTestDB(t))

	_, _, err := repo.CreateIfAbsent(ctx, "a", "b")
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, "a", "c")
	require.NoError(t, err)
	_, _, err = repo.CreateIfAbsent(ctx, "b", "c")
	require.NoError(t, err)

	matches, err := repo.ListForUser(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, matches, 2)
	for _, m := range matches {
		assert.True(t, m.HasMember("a"))
	}
}

func TestSortPairTotalOrder(t *testing.T) {
	low, high := db.SortPair("zed", "amy")
	assert.Equal(t, "amy", low)
	assert.Equal(t, "zed", high)

	low2, high2 := db.SortPair("amy", "zed")
	assert.Equal(t, low, low2)
	assert.Equal(t, high, high2)
}

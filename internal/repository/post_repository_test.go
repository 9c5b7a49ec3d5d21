package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/repository"
)

func TestCreateLikeRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPostRepository(setupTestDB(t))

	post := &db.Post{ID: db.NewID(), AuthorID: "a", Content: "hello"}
	require.NoError(t, repo.CreatePost(ctx, post))

	require.NoError(t, repo.CreateLike(ctx, &db.Like{ID: db.NewID(), PostID: post.ID, UserID: "u1"}))

	err := repo.CreateLike(ctx, &db.Like{ID: db.NewID(), PostID: post.ID, UserID: "u1"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateLike)
}

func TestAdjustLikesCount(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPostRepository(setupTestDB(t))

	post := &db.Post{ID: db.NewID(), AuthorID: "a", Content: "hello"}
	require.NoError(t, repo.CreatePost(ctx, post))

	require.NoError(t, repo.AdjustLikesCount(ctx, post.ID, 1))
	require.NoError(t, repo.AdjustLikesCount(ctx, post.ID, 1))
	require.NoError(t, repo.AdjustLikesCount(ctx, post.ID, -1))

	got, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
}

func TestAdjustLikesCountMissingPost(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPostRepository(setupTestDB(t))

	err := repo.AdjustLikesCount(ctx, "no-such-post", 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeleteLikeNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPostRepository(setupTestDB(t))

	post := &db.Post{ID: db.NewID(), AuthorID: "a", Content: "hello"}
	require.NoError(t, repo.CreatePost(ctx, post))

	err := repo.DeleteLike(ctx, post.ID, "never-liked")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

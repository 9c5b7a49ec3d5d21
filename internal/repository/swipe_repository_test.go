package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db.Models()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestCreateSwipeRejectsDuplicatePair(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSwipeRepository(setupTestDB(t))

	err := repo.Create(ctx, &db.Swipe{SwiperID: "a", TargetID: "b", Direction: db.DirectionLike})
	require.NoError(t, err)

	// second decision for the same ordered pair must not overwrite the first
	err = repo.Create(ctx, &db.Swipe{SwiperID: "a", TargetID: "b", Direction: db.DirectionPass})
	assert.ErrorIs(t, err, apperr.ErrDuplicateSwipe)

	stored, err := repo.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, db.DirectionLike, stored.Direction)
}

func TestCreateSwipeOppositeDirectionAllowed(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSwipeRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &db.Swipe{SwiperID: "a", TargetID: "b", Direction: db.DirectionLike}))
	// b -> a is a different ordered pair
	require.NoError(t, repo.Create(ctx, &db.Swipe{SwiperID: "b", TargetID: "a", Direction: db.DirectionLike}))
}

func TestHasPositiveSwipe(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSwipeRepository(setupTestDB(t))

	require.NoError(t, repo.Create(ctx, &db.Swipe{SwiperID: "a", TargetID: "b", Direction: db.DirectionPass}))
	require.NoError(t, repo.Create(ctx, &db.Swipe{SwiperID: "a", TargetID: "c", Direction: db.DirectionSuperLike}))

	got, err := repo.HasPositiveSwipe(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, got, "pass must not count toward a mutual like")

	got, err = repo.HasPositiveSwipe(ctx, "a", "c")
	require.NoError(t, err)
	assert.True(t, got, "super_like counts toward a mutual like")

	got, err = repo.HasPositiveSwipe(ctx, "c", "a")
	require.NoError(t, err)
	assert.False(t, got, "direction matters")
}

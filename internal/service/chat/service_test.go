package chat_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/app"
	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/events"
	"github.com/oggyb/ember/internal/repository"
	"github.com/oggyb/ember/internal/service/chat"
)

func setupService(t *testing.T) (*chat.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db.Models()...))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(database, nil, events.NewPublisher("", ""), logger)
	return chat.NewService(appCtx), database
}

// seedMatch creates two users and their match, returning (userA, userB, matchID).
func seedMatch(t *testing.T, database *gorm.DB) (string, string, string) {
	t.Helper()

	a := db.User{ID: db.NewID(), Username: "a", Email: "a@test.com", PasswordHash: "x", Gender: "male"}
	b := db.User{ID: db.NewID(), Username: "b", Email: "b@test.com", PasswordHash: "x", Gender: "female"}
	require.NoError(t, database.Create(&a).Error)
	require.NoError(t, database.Create(&b).Error)

	low, high := db.SortPair(a.ID, b.ID)
	match := db.Match{ID: db.NewID(), LowUserID: low, HighUserID: high}
	require.NoError(t, database.Create(&match).Error)

	return a.ID, b.ID, match.ID
}

func TestSendMessageUpdatesSummary(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, _, matchID := seedMatch(t, database)

	m1, err := svc.SendMessage(ctx, userA, matchID, "hi", "")
	require.NoError(t, err)

	// the summary always reflects the newest message
	m2, err := svc.SendMessage(ctx, userA, matchID, "there", "")
	require.NoError(t, err)
	require.False(t, m2.CreatedAt.Before(m1.CreatedAt))

	var match db.Match
	require.NoError(t, database.First(&match, "id = ?", matchID).Error)
	require.NotNil(t, match.LastMessageText)
	assert.Equal(t, "there", *match.LastMessageText)
	assert.True(t, match.LastMessageAt.Equal(m2.CreatedAt))
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	_, _, matchID := seedMatch(t, database)

	outsider := db.User{ID: db.NewID(), Username: "c", Email: "c@test.com", PasswordHash: "x", Gender: "male"}
	require.NoError(t, database.Create(&outsider).Error)

	_, err := svc.SendMessage(ctx, outsider.ID, matchID, "let me in", "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestSendMessageRejectsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, _, matchID := seedMatch(t, database)

	_, err := svc.SendMessage(ctx, userA, matchID, "   ", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestSendMessageImageOnlyAllowed(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, _, matchID := seedMatch(t, database)

	msg, err := svc.SendMessage(ctx, userA, matchID, "", "photos/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "photos/1.jpg", msg.ImageRef)
}

func TestSendMessageUnknownMatch(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, _, _ := seedMatch(t, database)

	_, err := svc.SendMessage(ctx, userA, "no-such-match", "hi", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListMessagesOrderAndPagination(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, userB, matchID := seedMatch(t, database)

	for i := 0; i < 7; i++ {
		sender := userA
		if i%2 == 1 {
			sender = userB
		}
		_, err := svc.SendMessage(ctx, sender, matchID, fmt.Sprintf("msg-%d", i), "")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct created_at per message
	}

	page1, next, err := svc.ListMessages(ctx, userA, matchID, nil, 5)
	require.NoError(t, err)
	require.Len(t, page1, 5)
	require.NotNil(t, next)
	assert.Equal(t, "msg-6", page1[0].Content, "newest first")

	page2, next2, err := svc.ListMessages(ctx, userA, matchID, next, 5)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Nil(t, next2)
	assert.Equal(t, "msg-1", page2[0].Content)
	assert.Equal(t, "msg-0", page2[1].Content)
}

func TestListMessagesRejectsNonMember(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	_, _, matchID := seedMatch(t, database)

	outsider := db.User{ID: db.NewID(), Username: "c", Email: "c@test.com", PasswordHash: "x", Gender: "male"}
	require.NoError(t, database.Create(&outsider).Error)

	_, _, err := svc.ListMessages(ctx, outsider.ID, matchID, nil, 10)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestListMatchesShowsLastMessage(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, userB, _ := seedMatch(t, database)

	matches, err := svc.ListMatches(ctx, userA)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Nil(t, matches[0].LastMessageText)

	_, err = svc.SendMessage(ctx, userB, matches[0].ID, "hey", "")
	require.NoError(t, err)

	matches, err = svc.ListMatches(ctx, userA)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].LastMessageText)
	assert.Equal(t, "hey", *matches[0].LastMessageText)
}

func TestMarkReadRecipientOnly(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, userB, matchID := seedMatch(t, database)

	msg, err := svc.SendMessage(ctx, userA, matchID, "hi", "")
	require.NoError(t, err)

	// sender cannot mark their own message read
	err = svc.MarkRead(ctx, userA, msg.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, svc.MarkRead(ctx, userB, msg.ID))

	var stored db.Message
	require.NoError(t, database.First(&stored, "id = ?", msg.ID).Error)
	assert.True(t, stored.Read)
}

func TestBackdatedDeliveryKeepsSummary(t *testing.T) {
	ctx := context.Background()
	svc, database := setupService(t)
	userA, _, matchID := seedMatch(t, database)

	_, err := svc.SendMessage(ctx, userA, matchID, "current", "")
	require.NoError(t, err)

	// simulate an out-of-order delivery landing with an older timestamp
	matches := repository.NewMatchRepository(database)
	old := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, matches.UpdateLastMessage(ctx, matchID, "stale", old))

	var match db.Match
	require.NoError(t, database.First(&match, "id = ?", matchID).Error)
	require.NotNil(t, match.LastMessageText)
	assert.Equal(t, "current", *match.LastMessageText)
}

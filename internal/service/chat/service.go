package chat

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/app"
	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/events"
	"github.com/oggyb/ember/internal/policy"
	"github.com/oggyb/ember/internal/repository"
)

const maxContentLen = 2048

// Service owns messaging within matches and the denormalized last-message
// summary on each match (the conversation aggregate).
type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
}

// NewService creates the chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// SendMessage stores a message and refreshes the match's last-message
// summary, both inside one transaction. The summary update carries a
// monotonic guard so a delayed delivery cannot regress it.
func (s *Service) SendMessage(ctx context.Context, callerID, matchID, content, imageRef string) (*db.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" && imageRef == "" {
		return nil, apperr.InvalidArgument("message needs content or an image")
	}
	if len(content) > maxContentLen {
		return nil, apperr.InvalidArgument("message content too long")
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := policy.CanSendMessage(callerID, match); err != nil {
		return nil, err
	}

	msg := &db.Message{
		ID:       db.NewID(),
		MatchID:  match.ID,
		SenderID: callerID,
		Content:  content,
		ImageRef: imageRef,
	}

	err = db.Transact(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		messages := repository.NewMessageRepository(tx)
		matches := repository.NewMatchRepository(tx)

		if err := messages.Create(ctx, msg); err != nil {
			return err
		}
		return matches.UpdateLastMessage(ctx, match.ID, msg.Content, msg.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	_ = s.appCtx.Publisher.Publish(ctx, events.KeyMessageCreated, msg)
	return msg, nil
}

// ListMatches returns the caller's matches with last-message summaries,
// most recently active first.
func (s *Service) ListMatches(ctx context.Context, callerID string) ([]db.Match, error) {
	return s.matchRepo.ListForUser(ctx, callerID)
}

// ListMessages returns a match's messages newest first with cursor
// pagination. Only members may read.
func (s *Service) ListMessages(ctx context.Context, callerID, matchID string, token *string, limit int) ([]db.Message, *string, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if err := policy.CanReadMatch(callerID, match); err != nil {
		return nil, nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.messageRepo.ListForMatch(ctx, matchID, token, limit)
}

// MarkRead flips a message's read flag. Only the recipient may do so.
func (s *Service) MarkRead(ctx context.Context, callerID, messageID string) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	match, err := s.matchRepo.GetByID(ctx, msg.MatchID)
	if err != nil {
		return err
	}
	if err := policy.CanMarkRead(callerID, match, msg); err != nil {
		return err
	}

	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		return err
	}
	_ = s.appCtx.Publisher.Publish(ctx, events.KeyMessageRead, readReceipt{MessageID: messageID, ReaderID: callerID})
	return nil
}

type readReceipt struct {
	MessageID string `json:"message_id"`
	ReaderID  string `json:"reader_id"`
}

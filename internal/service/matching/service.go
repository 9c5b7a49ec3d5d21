package matching

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/app"
	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/events"
	"github.com/oggyb/ember/internal/observability"
	"github.com/oggyb/ember/internal/repository"
)

// Service owns the swipe ledger and match resolution. Both run inside one
// database transaction per swipe, so ledger and match state never diverge:
// a reader can never observe a mutual-like pair of swipes without the
// resulting match also being committed.
type Service struct {
	appCtx *app.AppContext
}

// NewService creates the matching service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

// SwipeResult is returned from RecordSwipe. Match is nil when no mutual like
// exists yet. MatchCreated distinguishes "this swipe materialized the match"
// from "the match already existed", so notification fires exactly once.
type SwipeResult struct {
	Swipe        *db.Swipe
	Match        *db.Match
	MatchCreated bool
}

// RecordSwipe appends a decision to the ledger and resolves a match when a
// reciprocal positive swipe exists.
//
// Behavior:
//   - Self-swipes and unknown directions are rejected before storage access.
//   - A block in either direction rejects the swipe (blocked users cannot
//     keep matching with their blocker).
//   - Duplicate (swiper, target) pairs fail with ErrDuplicateSwipe from the
//     ledger's storage constraint; the prior decision is immutable.
//   - Resolution runs only for like/super_like. Two opposite swipes racing
//     each other both succeed: CreateIfAbsent swallows the losing insert and
//     returns the winner's row.
//   - The whole unit rolls back together on failure or timeout; no orphan
//     swipe-without-resolution or match-without-swipe state can persist.
func (s *Service) RecordSwipe(ctx context.Context, swiperID, targetID string, direction db.Direction) (*SwipeResult, error) {
	if swiperID == targetID {
		return nil, apperr.InvalidArgument("cannot swipe on yourself")
	}
	if !direction.Valid() {
		return nil, apperr.InvalidArgument("direction must be like, pass or super_like")
	}

	var result SwipeResult
	err := db.Transact(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		rels := repository.NewRelationshipRepository(tx)
		swipes := repository.NewSwipeRepository(tx)
		matches := repository.NewMatchRepository(tx)

		exists, err := users.Exists(ctx, targetID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("target user not found")
		}

		blocked, err := rels.BlockExistsBetween(ctx, swiperID, targetID)
		if err != nil {
			return err
		}
		if blocked {
			return apperr.Forbidden("swiping is blocked between these users")
		}

		swipe := &db.Swipe{
			SwiperID:  swiperID,
			TargetID:  targetID,
			Direction: direction,
		}
		if err := swipes.Create(ctx, swipe); err != nil {
			return err
		}
		result.Swipe = swipe

		if !direction.Positive() {
			return nil
		}

		reciprocal, err := swipes.HasPositiveSwipe(ctx, targetID, swiperID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		match, created, err := matches.CreateIfAbsent(ctx, swiperID, targetID)
		if err != nil {
			return err
		}
		result.Match = match
		result.MatchCreated = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Metrics and events only after the transaction committed.
	observability.IncSwipeRecorded(string(direction))
	_ = s.appCtx.Publisher.Publish(ctx, events.KeySwipeCreated, result.Swipe)
	if result.MatchCreated {
		observability.IncMatchCreated()
		_ = s.appCtx.Publisher.Publish(ctx, events.KeyMatchCreated, result.Match)
		s.appCtx.Logger.Info("match created",
			"match_id", result.Match.ID,
			"low", result.Match.LowUserID,
			"high", result.Match.HighUserID,
		)
	}

	return &result, nil
}

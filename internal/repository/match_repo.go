package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
)

// MatchRepository provides data access for canonical match records.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateIfAbsent inserts the canonical match for two users, or returns the
// existing one.
//
// Behavior:
//   - The pair is canonicalized via db.SortPair before insert.
//   - clause.OnConflict{DoNothing} turns a concurrent-resolution race into a
//     silent no-op: when both directions of a mutual like resolve at the same
//     moment, one insert wins and the other observes RowsAffected == 0. The
//     loser then reads the winner's row. Neither caller sees an error.
//   - created reports whether this call actually inserted the row, so the
//     caller can emit the new-match event exactly once.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, userA, userB string) (*db.Match, bool, error) {
	low, high := db.SortPair(userA, userB)
	match := db.Match{
		ID:         db.NewID(),
		LowUserID:  low,
		HighUserID: high,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "low_user_id"}, {Name: "high_user_id"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil {
		return nil, false, res.Error
	}

	if res.RowsAffected == 0 {
		existing, err := r.GetByPair(ctx, low, high)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return &match, true, nil
}

// GetByPair looks up the match for a canonical (low, high) pair.
func (r *MatchRepository) GetByPair(ctx context.Context, low, high string) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("low_user_id = ? AND high_user_id = ?", low, high).
		First(&match).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("match not found")
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByID returns a match by id, or ErrNotFound.
func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).First(&match, "id = ?", matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("match not found")
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns every match the user is a member of, most recently
// active first (last message time, falling back to creation time).
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("low_user_id = ? OR high_user_id = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// UpdateLastMessage overwrites the match's denormalized last-message summary.
//
// Monotonic guard: the update applies only when the incoming timestamp is not
// older than the stored one, so an out-of-order or backdated delivery can
// never roll the summary back. Equal timestamps are last-writer-wins.
func (r *MatchRepository) UpdateLastMessage(ctx context.Context, matchID, text string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", matchID).
		Where("last_message_at IS NULL OR last_message_at <= ?", at).
		UpdateColumns(map[string]any{
			"last_message_text": text,
			"last_message_at":   at,
		}).Error
}

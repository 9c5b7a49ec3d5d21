package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
)

// SwipeRepository provides data access for the append-only swipe ledger.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB
// connection. Bind it to a transaction handle to run inside that
// transaction.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Create appends a swipe to the ledger.
//
// Behavior:
//   - The composite PK (swiper_id, target_id) rejects a second swipe for the
//     same ordered pair at the storage layer. There is deliberately no
//     pre-check: check-then-insert would leave a race window.
//   - A constraint violation comes back as ErrDuplicateSwipe; the prior
//     decision stands.
func (r *SwipeRepository) Create(ctx context.Context, swipe *db.Swipe) error {
	err := r.db.WithContext(ctx).Create(swipe).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateSwipe
	}
	return err
}

// HasPositiveSwipe reports whether swiper has a like or super_like recorded
// toward target. Used for the reciprocal lookup in match resolution; served
// by idx_target_swiper_direction.
func (r *SwipeRepository) HasPositiveSwipe(ctx context.Context, swiperID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("swiper_id = ? AND target_id = ? AND direction IN ?",
			swiperID, targetID, []db.Direction{db.DirectionLike, db.DirectionSuperLike}).
		Count(&count).Error
	return count > 0, err
}

// Get returns the swipe for an ordered pair, or ErrNotFound.
func (r *SwipeRepository) Get(ctx context.Context, swiperID, targetID string) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.db.WithContext(ctx).
		Where("swiper_id = ? AND target_id = ?", swiperID, targetID).
		First(&swipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("swipe not found")
	}
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
)

// RelationshipRepository provides data access for blocks and reports.
type RelationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository creates a new repository bound to the given DB connection.
func NewRelationshipRepository(database *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: database}
}

// CreateBlock stores a block. Re-blocking the same user is a no-op.
func (r *RelationshipRepository) CreateBlock(ctx context.Context, block *db.Block) error {
	err := r.db.WithContext(ctx).Create(block).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// DeleteBlock removes a block held by blocker against blocked.
func (r *RelationshipRepository) DeleteBlock(ctx context.Context, blockerID, blockedID string) error {
	res := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&db.Block{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("block not found")
	}
	return nil
}

// BlockExistsBetween reports whether either user has blocked the other.
// Consulted by the swipe ledger before any decision is recorded.
func (r *RelationshipRepository) BlockExistsBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

// ListBlocks returns the caller's own blocks.
func (r *RelationshipRepository) ListBlocks(ctx context.Context, blockerID string) ([]db.Block, error) {
	var blocks []db.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	return blocks, err
}

// CreateReport stores a report.
func (r *RelationshipRepository) CreateReport(ctx context.Context, report *db.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// ListReports returns the caller's own reports.
func (r *RelationshipRepository) ListReports(ctx context.Context, reporterID string) ([]db.Report, error) {
	var reports []db.Report
	err := r.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

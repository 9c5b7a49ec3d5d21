package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
)

// UserRepository provides data access for identity records.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create stores a new user. Username/email collisions surface as
// InvalidArgument rather than leaking constraint details.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.InvalidArgument("username or email already taken")
	}
	return err
}

// GetByID returns a user by id, or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user id is known.
func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfile applies owner-editable profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// TouchLastActive records user activity.
func (r *UserRepository) TouchLastActive(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_active_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

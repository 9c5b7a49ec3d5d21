package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
)

// PostRepository provides data access for posts, likes and comments,
// including the denormalized engagement counters on posts.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new repository bound to the given DB connection.
func NewPostRepository(database *gorm.DB) *PostRepository {
	return &PostRepository{db: database}
}

// CreatePost stores a new post with zeroed counters.
func (r *PostRepository) CreatePost(ctx context.Context, post *db.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPost returns a post by id, or ErrNotFound.
func (r *PostRepository) GetPost(ctx context.Context, postID string) (*db.Post, error) {
	var post db.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateLike inserts a like row. idx_post_user rejects a second like from
// the same user at the storage layer; surfaced as ErrDuplicateLike.
func (r *PostRepository) CreateLike(ctx context.Context, like *db.Like) error {
	err := r.db.WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.ErrDuplicateLike
	}
	return err
}

// DeleteLike removes a user's like from a post. Returns ErrNotFound when no
// such like exists, so the caller aborts before touching the counter.
func (r *PostRepository) DeleteLike(ctx context.Context, postID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&db.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("like not found")
	}
	return nil
}

// CreateComment stores a comment.
func (r *PostRepository) CreateComment(ctx context.Context, comment *db.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetComment returns a comment by id, or ErrNotFound.
func (r *PostRepository) GetComment(ctx context.Context, commentID string) (*db.Comment, error) {
	var comment db.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("comment not found")
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment.
func (r *PostRepository) DeleteComment(ctx context.Context, commentID string) error {
	res := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&db.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	return nil
}

// AdjustLikesCount applies a single atomic in-place increment to a post's
// likes counter. The read-modify-write happens inside the UPDATE statement;
// concurrent adjustments cannot lose updates.
func (r *PostRepository) AdjustLikesCount(ctx context.Context, postID string, delta int) error {
	return r.adjustCounter(ctx, postID, "likes_count", delta)
}

// AdjustCommentsCount applies a single atomic in-place increment to a post's
// comments counter.
func (r *PostRepository) AdjustCommentsCount(ctx context.Context, postID string, delta int) error {
	return r.adjustCounter(ctx, postID, "comments_count", delta)
}

func (r *PostRepository) adjustCounter(ctx context.Context, postID, column string, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("post not found")
	}
	return nil
}

// ListPosts returns recent posts, newest first.
func (r *PostRepository) ListPosts(ctx context.Context, limit int) ([]db.Post, error) {
	var posts []db.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListComments returns a post's comments oldest first.
func (r *PostRepository) ListComments(ctx context.Context, postID string, limit int) ([]db.Comment, error) {
	var comments []db.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

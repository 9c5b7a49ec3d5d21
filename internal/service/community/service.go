package community

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

// Service owns community posts and the engagement counters on them.
//
// Counter rule: likes_count/comments_count change only here, always paired
// with the child-row write in one transaction, always as an atomic in-place
// increment. There is no other mutation path.
type Service struct {
	appCtx   *app.AppContext
	postRepo *repository.PostRepository
}

// NewService creates the community service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		postRepo: repository.NewPostRepository(appCtx.DB),
	}
}

// CreatePost stores a new post by the caller.
func (s *Service) CreatePost(ctx context.Context, callerID, content, imageRef string) (*db.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("post content must not be empty")
	}

	post := &db.Post{
		ID:       db.NewID(),
		AuthorID: callerID,
		Content:  content,
		ImageRef: imageRef,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	_ = s.appCtx.Publisher.Publish(ctx, events.KeyPostCreated, post)
	return post, nil
}

// GetPost is a public read.
func (s *Service) GetPost(ctx context.Context, postID string) (*db.Post, error) {
	return s.postRepo.GetPost(ctx, postID)
}

// ListPosts is a public read of recent posts.
func (s *Service) ListPosts(ctx context.Context, limit int) ([]db.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.postRepo.ListPosts(ctx, limit)
}

// LikePost records the caller's like and bumps the counter atomically.
//
// A repeated like by the same user hits the (post_id, user_id) constraint
// and rolls back before the counter is touched, so the count can never
// include a double-like. A like on a missing post rolls back the same way
// when the counter update matches zero rows.
func (s *Service) LikePost(ctx context.Context, callerID, postID string) (*db.Like, error) {
	like := &db.Like{
		ID:     db.NewID(),
		PostID: postID,
		UserID: callerID,
	}

	err := db.Transact(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		if err := posts.CreateLike(ctx, like); err != nil {
			return err
		}
		return posts.AdjustLikesCount(ctx, postID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.adjustCachedLikes(ctx, postID, 1)
	_ = s.appCtx.Publisher.Publish(ctx, events.KeyPostLiked, like)
	return like, nil
}

// UnlikePost removes the caller's like and decrements the counter.
//
// Removing a like that does not exist aborts with NotFound before the
// decrement runs; the counter can never go negative.
func (s *Service) UnlikePost(ctx context.Context, callerID, postID string) error {
	err := db.Transact(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		if err := posts.DeleteLike(ctx, postID, callerID); err != nil {
			return err
		}
		return posts.AdjustLikesCount(ctx, postID, -1)
	})
	if err != nil {
		return err
	}

	s.adjustCachedLikes(ctx, postID, -1)
	_ = s.appCtx.Publisher.Publish(ctx, events.KeyPostUnliked, map[string]string{
		"post_id": postID,
		"user_id": callerID,
	})
	return nil
}

// adjustCachedLikes nudges the cached count after a committed write. If the
// adjustment fails the stale entry is dropped so the next read repopulates
// from the DB counter.
func (s *Service) adjustCachedLikes(ctx context.Context, postID string, delta int64) {
	if err := s.appCtx.RedisCache.AdjustPostLikeCount(ctx, postID, delta); err != nil {
		s.appCtx.Logger.Warn("like count cache adjust failed, invalidating", "post_id", postID, "err", err)
		_ = s.appCtx.RedisCache.InvalidatePostLikes(ctx, postID)
	}
}

// GetLikeCount returns a post's like count, cache-first with the
// denormalized DB counter as fallback and source of truth.
func (s *Service) GetLikeCount(ctx context.Context, postID string) (int64, error) {
	if count, found, err := s.appCtx.RedisCache.GetPostLikeCount(ctx, postID); err == nil && found {
		return count, nil
	}

	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return 0, err
	}

	_ = s.appCtx.RedisCache.SetPostLikeCount(ctx, postID, post.LikesCount)
	return post.LikesCount, nil
}

// AddComment stores the caller's comment and bumps the counter atomically.
func (s *Service) AddComment(ctx context.Context, callerID, postID, content string) (*db.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("comment content must not be empty")
	}

	comment := &db.Comment{
		ID:       db.NewID(),
		PostID:   postID,
		AuthorID: callerID,
		Content:  content,
	}

	err := db.Transact(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		if err := posts.CreateComment(ctx, comment); err != nil {
			return err
		}
		return posts.AdjustCommentsCount(ctx, postID, 1)
	})
	if err != nil {
		return nil, err
	}

	_ = s.appCtx.Publisher.Publish(ctx, events.KeyCommentCreated, comment)
	return comment, nil
}

// DeleteComment removes the caller's own comment and decrements the counter.
func (s *Service) DeleteComment(ctx context.Context, callerID, commentID string) error {
	comment, err := s.postRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteComment(callerID, comment); err != nil {
		return err
	}

	err = db.Transact(ctx, s.appCtx.DB, func(tx *gorm.DB) error {
		posts := repository.NewPostRepository(tx)
		if err := posts.DeleteComment(ctx, commentID); err != nil {
			return err
		}
		return posts.AdjustCommentsCount(ctx, comment.PostID, -1)
	})
	if err != nil {
		return err
	}

	_ = s.appCtx.Publisher.Publish(ctx, events.KeyCommentDeleted, map[string]string{
		"comment_id": commentID,
		"post_id":    comment.PostID,
	})
	return nil
}

// ListComments is a public read of a post's comments.
func (s *Service) ListComments(ctx context.Context, postID string, limit int) ([]db.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return s.postRepo.ListComments(ctx, postID, limit)
}

package community

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/policy"
)

type postView struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Content       string    `json:"content"`
	ImageRef      string    `json:"image_ref,omitempty"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func toPostView(p *db.Post) postView {
	return postView{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Content:       p.Content,
		ImageRef:      p.ImageRef,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
	}
}

type createPostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageRef string `json:"image_ref"`
}

// PostPost handles POST /v1/posts.
func (s *Service) PostPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := s.CreatePost(c.Request.Context(), policy.Caller(c), req.Content, req.ImageRef)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": toPostView(post)})
}

// GetPostByID handles GET /v1/posts/:post_id.
func (s *Service) GetPostByID(c *gin.Context) {
	post, err := s.GetPost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": toPostView(post)})
}

// GetPosts handles GET /v1/posts.
func (s *Service) GetPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	posts, err := s.ListPosts(c.Request.Context(), limit)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	views := make([]postView, 0, len(posts))
	for i := range posts {
		views = append(views, toPostView(&posts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"posts": views})
}

// PostLike handles POST /v1/posts/:post_id/likes.
func (s *Service) PostLike(c *gin.Context) {
	like, err := s.LikePost(c.Request.Context(), policy.Caller(c), c.Param("post_id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"like": gin.H{
		"id":         like.ID,
		"post_id":    like.PostID,
		"user_id":    like.UserID,
		"created_at": like.CreatedAt,
	}})
}

// DeleteLike handles DELETE /v1/posts/:post_id/likes.
func (s *Service) DeleteLike(c *gin.Context) {
	if err := s.UnlikePost(c.Request.Context(), policy.Caller(c), c.Param("post_id")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLikeCountHandler handles GET /v1/posts/:post_id/likes/count.
func (s *Service) GetLikeCountHandler(c *gin.Context) {
	count, err := s.GetLikeCount(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostComment handles POST /v1/posts/:post_id/comments.
func (s *Service) PostComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := s.AddComment(c.Request.Context(), policy.Caller(c), c.Param("post_id"), req.Content)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	}})
}

// DeleteCommentByID handles DELETE /v1/comments/:comment_id.
func (s *Service) DeleteCommentByID(c *gin.Context) {
	if err := s.DeleteComment(c.Request.Context(), policy.Caller(c), c.Param("comment_id")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetComments handles GET /v1/posts/:post_id/comments.
func (s *Service) GetComments(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	comments, err := s.ListComments(c.Request.Context(), c.Param("post_id"), limit)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	views := make([]gin.H, 0, len(comments))
	for i := range comments {
		views = append(views, gin.H{
			"id":         comments[i].ID,
			"post_id":    comments[i].PostID,
			"author_id":  comments[i].AuthorID,
			"content":    comments[i].Content,
			"created_at": comments[i].CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"comments": views})
}

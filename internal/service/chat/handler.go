package chat

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/policy"
)

type matchView struct {
	ID              string     `json:"id"`
	Users           [2]string  `json:"users"`
	LastMessageText *string    `json:"last_message_text,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type messageView struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"match_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	ImageRef  string    `json:"image_ref,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageView(m *db.Message) messageView {
	return messageView{
		ID:        m.ID,
		MatchID:   m.MatchID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		ImageRef:  m.ImageRef,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

// GetMatches handles GET /v1/matches.
func (s *Service) GetMatches(c *gin.Context) {
	caller := policy.Caller(c)
	matches, err := s.ListMatches(c.Request.Context(), caller)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	views := make([]matchView, 0, len(matches))
	for i := range matches {
		m := &matches[i]
		views = append(views, matchView{
			ID:              m.ID,
			Users:           [2]string{m.LowUserID, m.HighUserID},
			LastMessageText: m.LastMessageText,
			LastMessageAt:   m.LastMessageAt,
			CreatedAt:       m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"matches": views})
}

// GetMessages handles GET /v1/matches/:match_id/messages.
func (s *Service) GetMessages(c *gin.Context) {
	caller := policy.Caller(c)
	matchID := c.Param("match_id")

	var token *string
	if v := c.Query("page_token"); v != "" {
		token = &v
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, nextToken, err := s.ListMessages(c.Request.Context(), caller, matchID, token, limit)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	views := make([]messageView, 0, len(messages))
	for i := range messages {
		views = append(views, toMessageView(&messages[i]))
	}
	resp := gin.H{"messages": views}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	c.JSON(http.StatusOK, resp)
}

type sendMessageRequest struct {
	Content  string `json:"content"`
	ImageRef string `json:"image_ref"`
}

// PostMessage handles POST /v1/matches/:match_id/messages.
func (s *Service) PostMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := policy.Caller(c)
	msg, err := s.SendMessage(c.Request.Context(), caller, c.Param("match_id"), req.Content, req.ImageRef)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": toMessageView(msg)})
}

// PostMessageRead handles POST /v1/messages/:message_id/read.
func (s *Service) PostMessageRead(c *gin.Context) {
	caller := policy.Caller(c)
	if err := s.MarkRead(c.Request.Context(), caller, c.Param("message_id")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

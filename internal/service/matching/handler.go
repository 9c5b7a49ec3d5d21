package matching

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/policy"
)

type swipeRequest struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
	Direction    string `json:"direction" binding:"required"`
}

type swipeView struct {
	SwiperID  string    `json:"swiper_id"`
	TargetID  string    `json:"target_id"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

type matchView struct {
	ID              string     `json:"id"`
	Users           [2]string  `json:"users"`
	LastMessageText *string    `json:"last_message_text,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toMatchView(m *db.Match) matchView {
	return matchView{
		ID:              m.ID,
		Users:           [2]string{m.LowUserID, m.HighUserID},
		LastMessageText: m.LastMessageText,
		LastMessageAt:   m.LastMessageAt,
		CreatedAt:       m.CreatedAt,
	}
}

// PostSwipe handles POST /v1/swipes. The swiper is always the caller;
// swiping on someone else's behalf is not expressible.
func (s *Service) PostSwipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := policy.Caller(c)
	result, err := s.RecordSwipe(c.Request.Context(), caller, req.TargetUserID, db.Direction(req.Direction))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	resp := gin.H{"swipe": swipeView{
		SwiperID:  result.Swipe.SwiperID,
		TargetID:  result.Swipe.TargetID,
		Direction: string(result.Swipe.Direction),
		CreatedAt: result.Swipe.CreatedAt,
	}}
	if result.Match != nil {
		resp["match"] = toMatchView(result.Match)
		resp["match_created"] = result.MatchCreated
	}

	c.JSON(http.StatusCreated, resp)
}

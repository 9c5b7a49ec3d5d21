package profile

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/apperr"
	"github.com/oggyb/ember/internal/db"
	"github.com/oggyb/ember/internal/policy"
)

// userView never exposes email or password hash to other callers.
type userView struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Gender       string    `json:"gender"`
	GenderPrefs  []string  `json:"gender_prefs,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	LastActiveAt time.Time `json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserView(u *db.User) userView {
	var prefs []string
	if u.GenderPrefs != "" {
		prefs = strings.Split(u.GenderPrefs, ",")
	}
	return userView{
		ID:           u.ID,
		Username:     u.Username,
		Gender:       u.Gender,
		GenderPrefs:  prefs,
		Bio:          u.Bio,
		LastActiveAt: u.LastActiveAt,
		CreatedAt:    u.CreatedAt,
	}
}

type registerRequest struct {
	Username    string   `json:"username" binding:"required"`
	Email       string   `json:"email" binding:"required"`
	Password    string   `json:"password" binding:"required"`
	Gender      string   `json:"gender" binding:"required"`
	GenderPrefs []string `json:"gender_prefs"`
	Bio         string   `json:"bio"`
}

// PostUser handles POST /v1/users (unauthenticated registration).
func (s *Service) PostUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.Register(c.Request.Context(), RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Gender:      req.Gender,
		GenderPrefs: req.GenderPrefs,
		Bio:         req.Bio,
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": toUserView(user)})
}

// GetUserByID handles GET /v1/users/:user_id.
func (s *Service) GetUserByID(c *gin.Context) {
	user, err := s.GetUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserView(user)})
}

type updateProfileRequest struct {
	Bio         *string  `json:"bio"`
	GenderPrefs []string `json:"gender_prefs"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
}

// PatchUser handles PATCH /v1/users/:user_id (owner only).
func (s *Service) PatchUser(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.GenderPrefs != nil {
		fields["gender_prefs"] = strings.Join(req.GenderPrefs, ",")
	}
	if req.Lat != nil {
		fields["lat"] = *req.Lat
	}
	if req.Lon != nil {
		fields["lon"] = *req.Lon
	}

	err := s.UpdateProfile(c.Request.Context(), policy.Caller(c), c.Param("user_id"), fields)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

type blockRequest struct {
	BlockedUserID string `json:"blocked_user_id" binding:"required"`
}

// PostBlock handles POST /v1/blocks.
func (s *Service) PostBlock(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Block(c.Request.Context(), policy.Caller(c), req.BlockedUserID); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteBlock handles DELETE /v1/blocks/:user_id.
func (s *Service) DeleteBlock(c *gin.Context) {
	if err := s.Unblock(c.Request.Context(), policy.Caller(c), c.Param("user_id")); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBlocks handles GET /v1/blocks (caller's own blocks).
func (s *Service) GetBlocks(c *gin.Context) {
	blocks, err := s.ListBlocks(c.Request.Context(), policy.Caller(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	views := make([]gin.H, 0, len(blocks))
	for _, b := range blocks {
		views = append(views, gin.H{
			"id":              b.ID,
			"blocked_user_id": b.BlockedID,
			"created_at":      b.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"blocks": views})
}

type reportRequest struct {
	ReportedUserID string `json:"reported_user_id" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
}

// PostReport handles POST /v1/reports.
func (s *Service) PostReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.Report(c.Request.Context(), policy.Caller(c), req.ReportedUserID, req.Reason); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}
	c.Status(http.StatusCreated)
}

// GetReports handles GET /v1/reports (caller's own reports).
func (s *Service) GetReports(c *gin.Context) {
	reports, err := s.ListReports(c.Request.Context(), policy.Caller(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.Message(err)})
		return
	}

	views := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		views = append(views, gin.H{
			"id":               r.ID,
			"reported_user_id": r.ReportedID,
			"reason":           r.Reason,
			"created_at":       r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reports": views})
}

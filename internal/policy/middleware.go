package policy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/repository"
)

// CallerKey is the gin context key holding the authenticated caller id.
const CallerKey = "callerID"

// Identity authenticates requests by the X-User-Id header. The id must name
// an existing user; everything downstream trusts the caller id set here.
//
// Token-based auth lives at the edge gateway; this core only needs a
// verified identity.
func Identity(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.GetHeader("X-User-Id")
		if callerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-Id header"})
			return
		}

		exists, err := users.Exists(c.Request.Context(), callerID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		// activity tracking is best effort
		_ = users.TouchLastActive(c.Request.Context(), callerID)

		c.Set(CallerKey, callerID)
		c.Next()
	}
}

// Caller returns the authenticated caller id set by Identity.
func Caller(c *gin.Context) string {
	return c.GetString(CallerKey)
}

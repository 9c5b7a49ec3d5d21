package matching

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/app"
)

// Registrar ties the matching service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the matching service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the matching routes to the authenticated route group.
func (r *Registrar) Register(public, private *gin.RouterGroup) {
	service := NewService(r.appCtx)
	private.POST("/swipes", service.PostSwipe)
}

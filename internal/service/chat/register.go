package chat

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/app"
)

// Registrar ties the chat service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the chat routes to the authenticated route group.
func (r *Registrar) Register(public, private *gin.RouterGroup) {
	service := NewService(r.appCtx)
	private.GET("/matches", service.GetMatches)
	private.GET("/matches/:match_id/messages", service.GetMessages)
	private.POST("/matches/:match_id/messages", service.PostMessage)
	private.POST("/messages/:message_id/read", service.PostMessageRead)
}

package profile

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/app"
)

// Registrar ties the profile service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the profile service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile routes. Registration stays on the public
// group; everything else requires an authenticated caller.
func (r *Registrar) Register(public, private *gin.RouterGroup) {
	service := NewService(r.appCtx)
	public.POST("/users", service.PostUser)
	private.GET("/users/:user_id", service.GetUserByID)
	private.PATCH("/users/:user_id", service.PatchUser)
	private.POST("/blocks", service.PostBlock)
	private.GET("/blocks", service.GetBlocks)
	private.DELETE("/blocks/:user_id", service.DeleteBlock)
	private.POST("/reports", service.PostReport)
	private.GET("/reports", service.GetReports)
}

package community

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/app"
)

// Registrar ties the community service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the community service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the community routes to the authenticated route group.
// Reads are public in policy terms but still require an authenticated caller.
func (r *Registrar) Register(public, private *gin.RouterGroup) {
	service := NewService(r.appCtx)
	private.POST("/posts", service.PostPost)
	private.GET("/posts", service.GetPosts)
	private.GET("/posts/:post_id", service.GetPostByID)
	private.POST("/posts/:post_id/likes", service.PostLike)
	private.DELETE("/posts/:post_id/likes", service.DeleteLike)
	private.GET("/posts/:post_id/likes/count", service.GetLikeCountHandler)
	private.POST("/posts/:post_id/comments", service.PostComment)
	private.GET("/posts/:post_id/comments", service.GetComments)
	private.DELETE("/comments/:comment_id", service.DeleteCommentByID)
}

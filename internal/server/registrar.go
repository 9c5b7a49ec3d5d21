package server

import "github.com/gin-gonic/gin"

// Registrar is a common interface for all HTTP service registrars.
// Routes attach either to the public group or the authenticated one.
type Registrar interface {
	Register(public, private *gin.RouterGroup)
}

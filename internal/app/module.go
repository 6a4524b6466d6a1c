package app

import "github.com/gin-gonic/gin"

// Module registers its own JSON routes on api (mounted at /api) and its
// pages on pages (mounted at /).
type Module interface {
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}

package route

import (
	"github.com/gin-gonic/gin"
)

// Protected registers the routes that require a valid session token.
func Protected(router *gin.Engine, h Handlers, gate gin.HandlerFunc) {
	protected := router.Group("/api")

	protected.Use(gate)
	protected.POST("/upload", h.Images.Upload)
	protected.GET("/images", h.Images.List)
	protected.DELETE("/images/:id", h.Images.Delete)
}

package route

import (
	"github.com/gin-gonic/gin"
)

// Unprotected registers session management, image detail and the public image URLs.
func Unprotected(router *gin.Engine, h Handlers, loginLimit gin.HandlerFunc) {
	api := router.Group("/api")

	if loginLimit != nil {
		api.POST("/login", loginLimit, h.Auth.Login)
	} else {
		api.POST("/login", h.Auth.Login)
	}
	api.POST("/logout", h.Auth.Logout)
	api.GET("/check-auth", h.Auth.CheckAuth)
	api.GET("/images/:id", h.Images.Detail)

	router.GET("/i/:id", h.Images.Serve)
	router.HEAD("/i/:id", h.Images.Serve)
}

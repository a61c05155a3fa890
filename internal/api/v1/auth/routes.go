package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	group := router.Group("/auth")
	group.GET("/status", h.Status)
	group.GET("/login", h.Login)
	group.POST("/logout", h.Logout)
}

package web

import (
	"github.com/gin-gonic/gin"

	"promptgen-backend/internal/middleware"
)

func RegisterRoutes(router *gin.Engine, h *Handler) {
	page := router.Group("/")
	page.Use(middleware.PageAuth(h.authn, h.Consent))
	{
		page.GET("/", h.Index)
		page.POST("/generate", h.Generate)
		page.POST("/clear", h.Clear)
	}
	router.GET("/logout", h.Logout)
}

package prompt

import (
	"github.com/gin-gonic/gin"

	"promptgen-backend/internal/middleware"
)

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	router.GET("/options", h.Options)

	prompts := router.Group("/prompts")
	{
		prompts.POST("/preview", h.Preview)

		authorized := prompts.Group("")
		authorized.Use(middleware.APIAuth(h.authn))
		{
			authorized.POST("", h.Create)
			authorized.GET("", h.List)
		}
	}
}

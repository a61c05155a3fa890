package api

import (
	"errors"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"promptgen-backend/config"
	_ "promptgen-backend/docs"
	apiauth "promptgen-backend/internal/api/v1/auth"
	"promptgen-backend/internal/api/v1/prompt"
	"promptgen-backend/internal/api/web"
	"promptgen-backend/internal/auth"
	"promptgen-backend/internal/middleware"
	"promptgen-backend/internal/services"
	"promptgen-backend/internal/session"
	"promptgen-backend/internal/store"
)

// Dependencies are the collaborators the router hands to its handlers.
type Dependencies struct {
	Config        *config.Config
	Sessions      session.Store
	Authenticator auth.Authenticator
	Stores        store.Factory
	Prompts       *services.PromptService
}

func (d Dependencies) validate() error {
	switch {
	case d.Config == nil:
		return errors.New("router: missing config")
	case d.Sessions == nil:
		return errors.New("router: missing session store")
	case d.Authenticator == nil:
		return errors.New("router: missing authenticator")
	case d.Stores == nil:
		return errors.New("router: missing record store")
	}
	return nil
}

func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Prompts == nil {
		deps.Prompts = services.NewPromptService()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())
	router.SetHTMLTemplate(tmpl)

	if len(deps.Config.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.Config.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Use(middleware.Session(deps.Sessions, []byte(deps.Config.SessionSecret), deps.Config.SessionTTL))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	web.RegisterRoutes(router, web.NewHandler(deps.Authenticator, deps.Stores, deps.Prompts))

	v1 := router.Group("/api/v1")
	{
		apiauth.RegisterRoutes(v1, apiauth.NewHandler(deps.Authenticator))
		prompt.RegisterRoutes(v1, prompt.NewHandler(deps.Authenticator, deps.Stores, deps.Prompts))
	}

	return router, nil
}

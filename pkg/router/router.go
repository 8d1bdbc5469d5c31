package router

import (
	"kamgar-sahayak/backend/internal/api"
	"kamgar-sahayak/backend/internal/ws"
	"kamgar-sahayak/backend/pkg/config"
	"kamgar-sahayak/backend/pkg/di"
	"kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"
	"kamgar-sahayak/backend/pkg/middleware"
	"kamgar-sahayak/backend/pkg/observability"

	"github.com/gin-gonic/gin"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	cfg := config.Get()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Request ID first, then the logger so every later middleware sees the
	// request-scoped logger
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateLimiter := middleware.NewRateLimiter(container.Logger)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	chatHandler := api.NewChatHandler(r.Container.ChatService, r.Logger)
	adminHandler := api.NewAdminHandler(
		r.Container.AuthService,
		r.Container.ReviewService,
		r.Container.JWTService,
		r.Logger,
	)
	healthHandler := api.NewHealthHandler(r.Container.HealthChecker)
	wsHandler := ws.NewHandler(r.Container.ChatService, r.Logger)

	// API version 1 routes
	v1 := r.Engine.Group("/api/v1")
	chatHandler.RegisterRoutes(v1)
	adminHandler.RegisterRoutes(v1.Group("/admin"))

	// Legacy route prefixes for existing front-end clients.
	// These will eventually be phased out
	legacyChat := r.Engine.Group("/chat_api")
	chatHandler.RegisterRoutes(legacyChat)

	legacyAdmin := r.Engine.Group("/admin_api")
	adminHandler.RegisterRoutes(legacyAdmin)

	// WebSocket chat relay
	r.Engine.GET("/ws", wsHandler.ServeWS)

	// Operational endpoints
	healthHandler.RegisterRoutes(r.Engine)
	r.Engine.GET("/metrics", gin.WrapH(observability.Handler()))
}

// CORS allows the browser front-end and WebSocket clients through
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin, Upgrade, Connection, Cache-Control")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Upgrade, Connection")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}


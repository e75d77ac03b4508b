package main

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"propchat/internal/config"
	"propchat/internal/handler"
	"propchat/internal/metrics"
	"propchat/internal/middleware"
)

type routeHandlers struct {
	chat    *handler.ChatHandler
	context *handler.ContextHandler
	health  *handler.HealthHandler
}

func newRouter(cfg *config.Config, h routeHandlers, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logging(log), middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 0 || cfg.Server.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	corsConfig.AllowMethods = cfg.Server.AllowedMethods
	corsConfig.AllowHeaders = cfg.Server.AllowedHeaders
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/", h.health.Info)
	router.GET("/health", h.health.Health)
	router.GET("/version", h.health.Version)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/chat", h.chat.Chat)
		api.POST("/chat/clear-context", h.context.Clear)
		api.GET("/chat/context-stats", h.context.Stats)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			handler.NotFound(c)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

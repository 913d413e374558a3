package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/catmouse/internal/api/handlers"
	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/game"
	"github.com/playmatatu/catmouse/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, gm *game.GameManager, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(gm))
		v1.GET("/config", handlers.GetConfig(gm))
		v1.GET("/results", handlers.GetRecentResults(gm))
		v1.GET("/stats", handlers.GetStats(gm))

		// Game endpoints
		games := v1.Group("/games")
		{
			games.POST("", handlers.CreateGame(gm, cfg))
			games.GET("/:token", handlers.GetGameState(gm))
			games.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleGameWebSocket())
		}

		// Admin endpoints
		admin := v1.Group("/admin", handlers.AdminTokenMiddleware(cfg))
		{
			admin.GET("/games", handlers.AdminListGames(gm))
			admin.DELETE("/games/:token", handlers.AdminStopGame(gm))
		}
	}
}

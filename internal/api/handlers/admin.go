package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/catmouse/internal/auth"
	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/game"
)

// AdminTokenMiddleware requires an X-Admin-Token header matching ADMIN_TOKEN_HASH
func AdminTokenMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Admin-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing admin token"})
			return
		}
		if !auth.VerifyAdminToken(cfg.AdminTokenHash, token) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid admin token"})
			return
		}
		c.Next()
	}
}

// AdminListGames returns a snapshot of every running game
func AdminListGames(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		games := gm.ListGames()
		c.JSON(http.StatusOK, gin.H{"games": games, "count": len(games)})
	}
}

// AdminStopGame stops a running game and releases its timer
func AdminStopGame(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if err := gm.StopGame(token); err != nil {
			if errors.Is(err, game.ErrGameNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stopped": token})
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/catmouse/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck reports uptime and how many games this instance is running.
func HealthCheck(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		games := gm.ListGames()
		running := 0
		for _, f := range games {
			if !f.State.Outcome.IsTerminal() {
				running++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"service":       "catmouse-api",
			"version":       version,
			"uptime":        time.Since(startTime).String(),
			"games":         len(games),
			"games_running": running,
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/catmouse/internal/game"
)

// GetConfig returns the game settings a client needs to draw and predict frames
func GetConfig(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := gm.Params()
		c.JSON(http.StatusOK, gin.H{
			"cat_speed":         p.CatSpeed,
			"mouse_factor":      p.MouseFactor,
			"mouse_speed":       p.MouseSpeed(),
			"frame_rate":        p.FrameRate,
			"catch_range":       p.CatchRange,
			"initial_cat_angle": gm.InitialCatAngle(),
		})
	}
}

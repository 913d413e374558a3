package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/catmouse/internal/auth"
	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/game"
)

// CreateGame starts a new game and returns its token plus a player token for
// the websocket.
func CreateGame(gm *game.GameManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := gm.CreateGame()

		ttl := time.Duration(cfg.PlayerTokenHours) * time.Hour
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		playerToken, err := auth.IssuePlayerToken(cfg.JWTSecret, s.Token, ttl)
		if err != nil {
			log.Printf("[API] Failed to issue player token for %s: %v", s.Token, err)
			if stopErr := gm.StopGame(s.Token); stopErr != nil {
				log.Printf("[API] Failed to stop game %s: %v", s.Token, stopErr)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"game_token":   s.Token,
			"player_token": playerToken,
			"ws_url":       "/api/v1/games/" + s.Token + "/ws?pt=" + playerToken,
			"frame":        s.Snapshot(),
		})
	}
}

// GetGameState returns the latest frame of a game. Games owned by another
// server instance are served from the Redis snapshot.
func GetGameState(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		if s, err := gm.GetGame(token); err == nil {
			c.JSON(http.StatusOK, s.Snapshot())
			return
		}

		f, err := gm.LoadSnapshot(c.Request.Context(), token)
		if errors.Is(err, game.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		if err != nil {
			log.Printf("[API] Failed to load snapshot for %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, f)
	}
}

// GetRecentResults lists the latest finished games
func GetRecentResults(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = n
		}

		results, err := gm.RecentResults(limit)
		if err != nil {
			log.Printf("[API] Failed to load results: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// GetStats returns how many games the mouse escaped and how many it was caught
func GetStats(gm *game.GameManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := gm.Stats(c.Request.Context())
		if err != nil {
			log.Printf("[API] Failed to load stats: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

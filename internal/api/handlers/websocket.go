package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/catmouse/internal/ws"
)

// HandleGameWebSocket handles real-time game communication
func HandleGameWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}

package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/catmouse/internal/auth"
	"github.com/playmatatu/catmouse/internal/game"
)

// Client message payloads.
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScreenPointerData is a raw screen location plus the board's bounding box;
// the server maps it into board coordinates.
type ScreenPointerData struct {
	X     float64   `json:"x"`
	Y     float64   `json:"y"`
	Board game.Rect `json:"board"`
}

type ToggleData struct {
	Enabled bool `json:"enabled"`
}

// GameHub is the single hub for all games.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// AttachManager routes every frame of gm's games to connected clients.
func AttachManager(gm *game.GameManager) {
	gm.SetFrameSink(func(f game.Frame) {
		GameHub.BroadcastToGame(f.Token, frameMessage(f))
		// With Redis the game_over event arrives through the subscriber.
		if f.State.Outcome.IsTerminal() && rdbClient == nil {
			GameHub.BroadcastToGame(f.Token, gameOverMessage(f.State.Outcome, f.Number))
		}
	})
}

func frameMessage(f game.Frame) map[string]interface{} {
	return map[string]interface{}{
		"type":  "frame",
		"frame": f,
	}
}

func gameOverMessage(outcome game.Outcome, frames int) map[string]interface{} {
	return map[string]interface{}{
		"type":    "game_over",
		"outcome": outcome,
		"status":  game.StatusText(outcome),
		"frames":  frames,
	}
}

// HandleWebSocket connects a player to the game named in the path. The player
// token issued at game creation is passed as ?pt=.
func HandleWebSocket(c *gin.Context) {
	gameToken := c.Param("token")
	playerToken := c.Query("pt")

	if gameToken == "" || playerToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
		return
	}
	if wsConfig == nil || game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game service not ready"})
		return
	}

	granted, err := auth.ParsePlayerToken(wsConfig.JWTSecret, playerToken)
	if err != nil || granted != gameToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
		return
	}

	if _, err := game.Manager.GetGame(gameToken); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:      conn,
		gameToken: gameToken,
		send:      make(chan []byte, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGameHub registers and unregisters clients.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.gameRooms[client.gameToken]; !exists {
				h.gameRooms[client.gameToken] = make(map[*Client]bool)
			}
			h.gameRooms[client.gameToken][client] = true
			size := len(h.gameRooms[client.gameToken])
			h.mu.Unlock()

			log.Printf("[WS] Client connected to game %s (room_size=%d)", client.gameToken, size)

			if game.Manager == nil {
				continue
			}
			s, err := game.Manager.GetGame(client.gameToken)
			if err != nil {
				log.Printf("[WS] Game not found for token %s: %v", client.gameToken, err)
				client.sendError("Game not found")
				continue
			}
			client.sendJSON(frameMessage(s.Snapshot()))

		case client := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.gameRooms[client.gameToken]; ok && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.gameRooms, client.gameToken)
				}
				close(client.send)
				log.Printf("[WS] Client disconnected from game %s", client.gameToken)
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads player input until the connection drops.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] unexpected close in game %s: %v", c.gameToken, err)
			}
			break
		}
		// Any input counts as activity.
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage applies one player message to the game session.
func (c *Client) handleMessage(msg WSMessage) {
	s, err := game.Manager.GetGame(c.gameToken)
	if err != nil {
		c.sendError("Game not found")
		return
	}

	switch msg.Type {
	case "pointer":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		s.SetTarget(game.NewPoint(data.X, data.Y))

	case "pointer_screen":
		var data ScreenPointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		s.SetTarget(game.ScreenToNormalized(data.X, data.Y, data.Board))

	case "track":
		var data ToggleData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid track data")
			return
		}
		s.SetTracking(data.Enabled)

	case "freeze":
		var data ToggleData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid freeze data")
			return
		}
		s.SetFreeze(data.Enabled)

	case "reset":
		s.Reset()

	case "get_state":
		c.sendJSON(frameMessage(s.Snapshot()))

	default:
		c.sendError("Unknown message type")
	}
}

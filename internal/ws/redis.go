package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

// SetRedisClient wires Redis (may be nil) and config into the WS layer.
func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartGameEventSubscriber forwards game_events from Redis to connected clients.
func StartGameEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; game event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.GameEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.GameEventsChannel)
		for msg := range ch {
			handleGameEvent([]byte(msg.Payload))
		}
	}()
}

func handleGameEvent(payload []byte) {
	var ev game.GameEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid event payload: %v", err)
		return
	}

	switch ev.Type {
	case "game_over":
		if size := GameHub.RoomSize(ev.GameToken); size == 0 {
			log.Printf("[WS] no room for game %s; game_over will not be broadcast", ev.GameToken)
			return
		} else {
			log.Printf("[WS] broadcasting game_over for game %s (room_size=%d)", ev.GameToken, size)
		}
		GameHub.BroadcastToGame(ev.GameToken, gameOverMessage(ev.Outcome, ev.Frames))
	default:
		log.Printf("[WS] unknown event type: %s", ev.Type)
	}
}

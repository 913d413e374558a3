package game

import (
	"errors"
	"log"
	"time"
)

// StartIdleWorker stops sessions nobody has touched for the configured timeout.
func (gm *GameManager) StartIdleWorker() {
	every := 60 * time.Second
	timeout := 30 * time.Minute
	if gm.config != nil {
		if gm.config.ExpiryCheckSeconds > 0 {
			every = time.Duration(gm.config.ExpiryCheckSeconds) * time.Second
		}
		if gm.config.SessionTimeoutMin > 0 {
			timeout = time.Duration(gm.config.SessionTimeoutMin) * time.Minute
		}
	}

	log.Printf("[IDLE] Idle worker started (every=%s timeout=%s)", every, timeout)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-gm.ctx.Done():
			log.Println("[IDLE] Idle worker stopping")
			return
		case <-ticker.C:
			for _, token := range gm.expiredTokens(time.Now(), timeout) {
				log.Printf("[IDLE] Stopping idle game %s", token)
				if err := gm.StopGame(token); err != nil && !errors.Is(err, ErrGameNotFound) {
					log.Printf("[IDLE] Failed to stop game %s: %v", token, err)
				}
			}
		}
	}
}

func (gm *GameManager) expiredTokens(now time.Time, timeout time.Duration) []string {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	var tokens []string
	for token, s := range gm.sessions {
		if now.Sub(s.LastActivity()) > timeout {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

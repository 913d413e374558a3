package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/catmouse/internal/config"
	"github.com/playmatatu/catmouse/internal/models"
	"github.com/redis/go-redis/v9"
)

// Redis keys and channels.
const (
	GameEventsChannel = "game_events"
	statsKey          = "catmouse:stats"
	snapshotTTL       = time.Hour
)

var ErrGameNotFound = errors.New("game not found")

// GameManager keeps the running sessions and records how they end.
type GameManager struct {
	sessions map[string]*Session // keyed by game token
	rdb      *redis.Client       // Redis client for snapshots, counters and events
	db       *sqlx.DB            // SQL DB for finished game results
	config   *config.Config

	params          Params
	initialCatAngle float64
	interval        time.Duration
	snapshotEvery   int

	ctx    context.Context
	cancel context.CancelFunc

	escaped int64
	caught  int64

	frameSink func(Frame)
	mu        sync.RWMutex
}

// GameEvent is published on GameEventsChannel when a game ends.
type GameEvent struct {
	Type      string  `json:"type"`
	GameToken string  `json:"game_token"`
	Outcome   Outcome `json:"outcome"`
	Status    string  `json:"status"`
	Frames    int     `json:"frames"`
	Mouse     Point   `json:"mouse"`
	CatAngle  float64 `json:"cat"`
}

var (
	// Global game manager instance
	Manager *GameManager
)

// InitializeManager initializes the global game manager and its idle worker.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
	go Manager.StartIdleWorker()
}

// NewGameManager creates a game manager. db, rdb and cfg may be nil; without
// them results live only in memory and the default game settings apply.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	ctx, cancel := context.WithCancel(context.Background())
	gm := &GameManager{
		sessions:        make(map[string]*Session),
		rdb:             rdb,
		db:              db,
		config:          cfg,
		params:          DefaultParams(),
		initialCatAngle: DefaultInitialCatAngle,
		interval:        30 * time.Millisecond,
		snapshotEvery:   int(DefaultFrameRate),
		ctx:             ctx,
		cancel:          cancel,
	}
	if cfg != nil {
		gm.params = ParamsFromConfig(cfg)
		gm.initialCatAngle = cfg.InitialCatAngle
		gm.interval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
		if cfg.SnapshotEveryFrames > 0 {
			gm.snapshotEvery = cfg.SnapshotEveryFrames
		}
	}
	return gm
}

// ParamsFromConfig builds game parameters from configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	p := Params{
		CatSpeed:    cfg.CatSpeed,
		MouseFactor: cfg.MouseFactor,
		FrameRate:   cfg.FrameRate,
		CatchRange:  cfg.CatchRange,
	}
	if p.FrameRate <= 0 {
		p.FrameRate = DefaultFrameRate
	}
	return p
}

func (gm *GameManager) Params() Params {
	return gm.params
}

func (gm *GameManager) InitialCatAngle() float64 {
	return gm.initialCatAngle
}

// SetFrameSink registers the function that receives every frame of every game.
func (gm *GameManager) SetFrameSink(fn func(Frame)) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.frameSink = fn
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateGameToken() string {
	return "game_" + generateToken(8)
}

// CreateGame starts a new session and returns it.
func (gm *GameManager) CreateGame() *Session {
	s := NewSession(generateGameToken(), gm.params, gm.initialCatAngle, gm.interval)
	s.OnFrame = gm.handleFrame
	s.OnFinish = gm.handleFinish

	gm.mu.Lock()
	gm.sessions[s.Token] = s
	gm.mu.Unlock()

	s.Start(gm.ctx)
	if err := gm.saveSnapshotToRedis(s.Snapshot()); err != nil {
		log.Printf("[REDIS] Failed to save snapshot for %s: %v", s.Token, err)
	}

	log.Printf("[GAME] Created game %s (cat_speed=%.2f mouse_factor=%.2f frame_rate=%.0f)", s.Token, gm.params.CatSpeed, gm.params.MouseFactor, gm.params.FrameRate)
	return s
}

// GetGame returns the session for token.
func (gm *GameManager) GetGame(token string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	s, ok := gm.sessions[token]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// ListGames returns a snapshot of every running session ordered by token.
func (gm *GameManager) ListGames() []Frame {
	gm.mu.RLock()
	sessions := make([]*Session, 0, len(gm.sessions))
	for _, s := range gm.sessions {
		sessions = append(sessions, s)
	}
	gm.mu.RUnlock()

	out := make([]Frame, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out
}

// StopGame stops a session, releases its timer and forgets it.
func (gm *GameManager) StopGame(token string) error {
	gm.mu.Lock()
	s, ok := gm.sessions[token]
	delete(gm.sessions, token)
	gm.mu.Unlock()
	if !ok {
		return ErrGameNotFound
	}

	s.Stop()
	if gm.rdb != nil {
		if err := gm.rdb.Del(context.Background(), snapshotKey(token)).Err(); err != nil {
			log.Printf("[REDIS] Failed to delete snapshot for %s: %v", token, err)
		}
	}
	log.Printf("[GAME] Stopped game %s", token)
	return nil
}

// Shutdown stops every session.
func (gm *GameManager) Shutdown() {
	gm.cancel()
	gm.mu.Lock()
	sessions := gm.sessions
	gm.sessions = make(map[string]*Session)
	gm.mu.Unlock()
	for _, s := range sessions {
		s.Stop()
	}
}

func (gm *GameManager) handleFrame(f Frame) {
	gm.mu.RLock()
	sink := gm.frameSink
	gm.mu.RUnlock()
	if sink != nil {
		sink(f)
	}

	if f.Number > 0 && f.Number%gm.snapshotEvery == 0 {
		if err := gm.saveSnapshotToRedis(f); err != nil {
			log.Printf("[REDIS] Failed to save snapshot for %s: %v", f.Token, err)
		}
	}
}

func (gm *GameManager) handleFinish(f Frame) {
	gm.mu.Lock()
	switch f.State.Outcome {
	case OutcomeMouseEscaped:
		gm.escaped++
	case OutcomeMouseCaught:
		gm.caught++
	}
	gm.mu.Unlock()

	log.Printf("[GAME] Game %s over: %s", f.Token, StatusText(f.State.Outcome))

	if err := gm.saveSnapshotToRedis(f); err != nil {
		log.Printf("[REDIS] Failed to save final snapshot for %s: %v", f.Token, err)
	}
	if err := gm.RecordResult(f); err != nil {
		log.Printf("[DB] Failed to record result for %s: %v", f.Token, err)
	}
	gm.publishGameOver(f)
}

// RecordResult stores a finished game in game_results.
func (gm *GameManager) RecordResult(f Frame) error {
	if gm.db == nil {
		return nil
	}
	_, err := gm.db.Exec(
		`INSERT INTO game_results (game_token, outcome, frames, mouse_x, mouse_y, cat_angle, cat_speed, mouse_factor, frame_rate, catch_range, started_at, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())`,
		f.Token, string(f.State.Outcome), f.Number, f.State.Mouse.X, f.State.Mouse.Y, f.State.CatAngle,
		gm.params.CatSpeed, gm.params.MouseFactor, gm.params.FrameRate, gm.params.CatchRange, f.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}

// RecentResults returns the latest finished games, newest first.
func (gm *GameManager) RecentResults(limit int) ([]models.GameResult, error) {
	results := []models.GameResult{}
	if gm.db == nil {
		return results, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	err := gm.db.Select(&results,
		`SELECT id, game_token, outcome, frames, mouse_x, mouse_y, cat_angle, cat_speed, mouse_factor, frame_rate, catch_range, started_at, completed_at
		 FROM game_results ORDER BY completed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select game results: %w", err)
	}
	return results, nil
}

// Stats returns how many games ended each way. Redis counters are shared by
// every server instance; without Redis only this process is counted.
func (gm *GameManager) Stats(ctx context.Context) (map[string]int64, error) {
	if gm.rdb == nil {
		gm.mu.RLock()
		defer gm.mu.RUnlock()
		return map[string]int64{"escaped": gm.escaped, "caught": gm.caught}, nil
	}

	vals, err := gm.rdb.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	out := map[string]int64{"escaped": 0, "caught": 0}
	for k, v := range vals {
		var n int64
		if _, err := fmt.Sscan(v, &n); err == nil {
			out[k] = n
		}
	}
	return out, nil
}

func snapshotKey(token string) string {
	return "game:" + token + ":state"
}

// saveSnapshotToRedis caches the latest frame of a game.
func (gm *GameManager) saveSnapshotToRedis(f Frame) error {
	if gm.rdb == nil {
		return nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return gm.rdb.SetEx(context.Background(), snapshotKey(f.Token), data, snapshotTTL).Err()
}

// LoadSnapshot reads a cached frame, for games owned by another instance.
func (gm *GameManager) LoadSnapshot(ctx context.Context, token string) (*Frame, error) {
	if gm.rdb == nil {
		return nil, ErrGameNotFound
	}
	data, err := gm.rdb.Get(ctx, snapshotKey(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &f, nil
}

func (gm *GameManager) publishGameOver(f Frame) {
	if gm.rdb == nil {
		return
	}
	ctx := context.Background()

	field := "escaped"
	if f.State.Outcome == OutcomeMouseCaught {
		field = "caught"
	}
	if err := gm.rdb.HIncrBy(ctx, statsKey, field, 1).Err(); err != nil {
		log.Printf("[REDIS] Failed to increment %s: %v", field, err)
	}

	ev := GameEvent{
		Type:      "game_over",
		GameToken: f.Token,
		Outcome:   f.State.Outcome,
		Status:    f.Status,
		Frames:    f.Number,
		Mouse:     f.State.Mouse,
		CatAngle:  f.State.CatAngle,
	}
	b, _ := json.Marshal(ev)
	if n, err := gm.rdb.Publish(ctx, GameEventsChannel, b).Result(); err != nil {
		log.Printf("[REDIS] publish game_over failed: game=%s err=%v", f.Token, err)
	} else {
		log.Printf("[REDIS] published game_over: game=%s outcome=%s subscribers=%d", f.Token, f.State.Outcome, n)
	}
}

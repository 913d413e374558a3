package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Game Settings
	CatSpeed        float64
	MouseFactor     float64
	FrameRate       float64
	CatchRange      float64
	InitialCatAngle float64
	TickIntervalMs  int

	// Sessions
	SessionTimeoutMin   int
	ExpiryCheckSeconds  int
	SnapshotEveryFrames int

	// Security
	JWTSecret        string
	PlayerTokenHours int
	AdminTokenHash   string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Game Settings (defaults match the browser version)
		CatSpeed:        getEnvFloat("CAT_SPEED", 2),
		MouseFactor:     getEnvFloat("MOUSE_FACTOR", 0.3),
		FrameRate:       getEnvFloat("FRAME_RATE", 30),
		CatchRange:      getEnvFloat("CATCH_RANGE", 0.05),
		InitialCatAngle: getEnvFloat("INITIAL_CAT_ANGLE", 0.5),
		TickIntervalMs:  getEnvInt("TICK_INTERVAL_MS", 30),

		// Sessions
		SessionTimeoutMin:   getEnvInt("SESSION_TIMEOUT_MIN", 30),
		ExpiryCheckSeconds:  getEnvInt("EXPIRY_CHECK_SECONDS", 60),
		SnapshotEveryFrames: getEnvInt("SNAPSHOT_EVERY_FRAMES", 30),

		// Security
		JWTSecret:        getEnv("JWT_SECRET", "change-me-in-production"),
		PlayerTokenHours: getEnvInt("PLAYER_TOKEN_HOURS", 24),
		AdminTokenHash:   getEnv("ADMIN_TOKEN_HASH", ""),
	}

	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 30
	}
	if cfg.TickIntervalMs <= 0 {
		cfg.TickIntervalMs = 30
	}
	if cfg.SnapshotEveryFrames <= 0 {
		cfg.SnapshotEveryFrames = 30
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

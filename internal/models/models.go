package models

import "time"

// GameResult is the final record of one finished game.
type GameResult struct {
	ID          int       `db:"id" json:"id"`
	GameToken   string    `db:"game_token" json:"game_token"`
	Outcome     string    `db:"outcome" json:"outcome"`
	Frames      int       `db:"frames" json:"frames"`
	MouseX      float64   `db:"mouse_x" json:"mouse_x"`
	MouseY      float64   `db:"mouse_y" json:"mouse_y"`
	CatAngle    float64   `db:"cat_angle" json:"cat_angle"`
	CatSpeed    float64   `db:"cat_speed" json:"cat_speed"`
	MouseFactor float64   `db:"mouse_factor" json:"mouse_factor"`
	FrameRate   float64   `db:"frame_rate" json:"frame_rate"`
	CatchRange  float64   `db:"catch_range" json:"catch_range"`
	StartedAt   time.Time `db:"started_at" json:"started_at"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

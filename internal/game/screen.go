package game

// Rect is the on-screen bounding box of the board.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ScreenToNormalized maps a screen location into board coordinates, where the
// board's bounding box spans [-1, 1] on both axes. Screen y grows downward and
// so does board y. Locations outside the box map outside [-1, 1]; a zero-sized
// rect maps everything to the origin.
func ScreenToNormalized(x, y float64, r Rect) Point {
	if r.Width == 0 || r.Height == 0 {
		return Origin
	}
	radiusX := r.Width / 2
	radiusY := r.Height / 2
	centerX := r.Left + radiusX
	centerY := r.Top + radiusY
	return Point{
		X: (x - centerX) / radiusX,
		Y: (y - centerY) / radiusY,
	}
}

// NormalizedToScreen is the inverse of ScreenToNormalized.
func NormalizedToScreen(p Point, r Rect) (float64, float64) {
	radiusX := r.Width / 2
	radiusY := r.Height / 2
	return r.Left + radiusX + p.X*radiusX, r.Top + radiusY + p.Y*radiusY
}

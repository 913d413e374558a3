package game

import "math"

// Point is a Cartesian position on the board. The board is the unit disk
// centered at the origin; a Point may lie outside it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Origin is the center of the board.
var Origin = Point{}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Plus(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Minus(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Times(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

func (p Point) MagnitudeSquared() float64 {
	return p.X*p.X + p.Y*p.Y
}

func (p Point) Magnitude() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// DistanceTo returns the Euclidean distance between p and o.
func (p Point) DistanceTo(o Point) float64 {
	return p.Minus(o).Magnitude()
}

func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

func (p Point) IsEqualTo(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

// CatPosition converts an angle on the rim into board coordinates.
func CatPosition(angle float64) Point {
	return Point{X: math.Cos(angle), Y: math.Sin(angle)}
}

// IsInsideOrOnDisk reports whether p lies inside the board or on its rim.
func IsInsideOrOnDisk(p Point) bool {
	return p.Magnitude() <= 1
}

// IsWithinCatchRange reports whether the cat at catAngle is within
// threshold of the mouse.
func IsWithinCatchRange(mouse Point, catAngle, threshold float64) bool {
	return mouse.DistanceTo(CatPosition(catAngle)) <= threshold
}

// BoundToCircle returns the point where segment a->b leaves the unit circle,
// or b if the segment never reaches the rim going forward.
//
// The origin is projected onto line ab to find the closest point d; the exit
// point lies half a chord further along ab from d.
func BoundToCircle(a, b Point) Point {
	ab := b.Minus(a)
	abLenSq := ab.MagnitudeSquared()
	if abLenSq == 0 {
		return b
	}

	ac := Origin.Minus(a)
	ad := ab.Times(ac.Dot(ab) / abLenSq)

	// cd is the perpendicular from the origin to the line.
	cd := ad.Minus(ac)
	halfChordSq := 1 - cd.MagnitudeSquared()
	if halfChordSq < 0 {
		return b
	}

	k := math.Sqrt(halfChordSq) / math.Sqrt(abLenSq)
	e := a.Plus(ad).Plus(ab.Times(k))

	if withinBox(a, e, b) {
		return e
	}
	return b
}

// withinBox reports whether p lies in the axis-aligned box spanned by a and b
// on both axes.
func withinBox(a, p, b Point) bool {
	return between(a.X, p.X, b.X) && between(a.Y, p.Y, b.Y)
}

func between(lo, v, hi float64) bool {
	return (lo <= v && v <= hi) || (hi <= v && v <= lo)
}

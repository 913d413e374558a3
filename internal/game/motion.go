package game

import "math"

// AdvanceMouse moves the mouse from current toward target by speed/frameRate
// units. A step that would leave the box spanned by current and target lands
// exactly on target instead.
func AdvanceMouse(current, target Point, speed, frameRate float64) Point {
	if current.IsEqualTo(target) {
		return target
	}

	ab := target.Minus(current)
	k := 1 / math.Sqrt(ab.X*ab.X+ab.Y*ab.Y) * (speed / frameRate)
	next := current.Plus(ab.Times(k))

	if withinBox(current, next, target) {
		return next
	}
	return target
}

// AdvanceCat moves the cat along the rim toward the angle nearest to
// mouseNext, by at most speed/frameRate radians, taking the shorter way round.
// The result is always in (-π, π].
func AdvanceCat(mouseNext Point, catAngle, speed, frameRate float64) float64 {
	// Every rim point is equally close to the center.
	if mouseNext.IsZero() {
		return catAngle
	}

	aim := AimAngle(mouseNext)
	delta := WrapAngle(aim - catAngle)

	maxStep := speed / frameRate
	d := WrapAngle(catAngle + sign(delta)*maxStep)

	if math.Abs(maxStep) < math.Abs(delta) {
		return d
	}
	return aim
}

// AimAngle returns the rim angle closest to p, in (-π, π].
func AimAngle(p Point) float64 {
	return WrapAngle(math.Atan2(p.Y, p.X))
}

// WrapAngle renormalizes a into (-π, π].
func WrapAngle(a float64) float64 {
	a = wrapOnce(a)
	if a > math.Pi || a <= -math.Pi {
		a = wrapOnce(math.Mod(a, 2*math.Pi))
	}
	return a
}

func wrapOnce(a float64) float64 {
	if a > math.Pi {
		return a - 2*math.Pi
	}
	if a <= -math.Pi {
		return a + 2*math.Pi
	}
	return a
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package game

import (
	"math"
	"testing"
)

func TestNewSimulationState(t *testing.T) {
	s := NewSimulationState(DefaultInitialCatAngle)
	if s.Mouse != Origin || s.Target != Origin {
		t.Errorf("new game should start at the center, got mouse=%v target=%v", s.Mouse, s.Target)
	}
	if s.CatAngle != 0.5 {
		t.Errorf("CatAngle = %v, want 0.5", s.CatAngle)
	}
	if s.Outcome != OutcomeUndetermined {
		t.Errorf("Outcome = %v, want undetermined", s.Outcome)
	}
}

func TestStepFrameFirstFrame(t *testing.T) {
	s := SimulationState{Mouse: Point{0, 0}, Target: Point{1, 0}, CatAngle: 0, Outcome: OutcomeUndetermined}

	next := StepFrame(s, DefaultParams())

	if !near(next.Mouse.X, 0.02) || next.Mouse.Y != 0 {
		t.Errorf("mouse = %v, want (0.02, 0)", next.Mouse)
	}
	if next.CatAngle != 0 {
		t.Errorf("cat = %v, want 0", next.CatAngle)
	}
	if next.Outcome != OutcomeUndetermined {
		t.Errorf("outcome = %v, want undetermined", next.Outcome)
	}
	if next.Target != s.Target {
		t.Errorf("target changed to %v", next.Target)
	}
}

func TestStepFrameCatAimsAtNewMousePosition(t *testing.T) {
	// From the center the cat has no aim; after one frame the mouse is on
	// the +x axis and the cat heads for angle 0.
	s := SimulationState{Mouse: Point{0, 0}, Target: Point{1, 0}, CatAngle: 1, Outcome: OutcomeUndetermined}

	next := StepFrame(s, DefaultParams())

	if want := 1 - 2.0/30; !near(next.CatAngle, want) {
		t.Errorf("cat = %v, want %v", next.CatAngle, want)
	}
}

func runUntilDone(s SimulationState, p Params, maxFrames int) (SimulationState, int) {
	for i := 1; i <= maxFrames; i++ {
		s = StepFrame(s, p)
		if s.Outcome.IsTerminal() {
			return s, i
		}
	}
	return s, maxFrames
}

func TestStepFrameMouseCaughtAtRim(t *testing.T) {
	s := SimulationState{Mouse: Point{0.99, 0}, Target: Point{2, 0}, CatAngle: 0, Outcome: OutcomeUndetermined}

	final, frames := runUntilDone(s, DefaultParams(), 10)

	if final.Outcome != OutcomeMouseCaught {
		t.Fatalf("outcome = %v after %d frames, want caught", final.Outcome, frames)
	}
	if IsInsideOrOnDisk(final.Mouse) {
		t.Errorf("mouse %v should be outside the disk", final.Mouse)
	}
	if !IsWithinCatchRange(final.Mouse, final.CatAngle, DefaultCatchRange) {
		t.Errorf("caught but cat %v is not within range of %v", final.CatAngle, final.Mouse)
	}
}

func TestStepFrameMouseEscapes(t *testing.T) {
	s := SimulationState{Mouse: Point{0.99, 0}, Target: Point{2, 0}, CatAngle: math.Pi, Outcome: OutcomeUndetermined}

	final, frames := runUntilDone(s, DefaultParams(), 10)

	if final.Outcome != OutcomeMouseEscaped {
		t.Fatalf("outcome = %v after %d frames, want escaped", final.Outcome, frames)
	}
	if IsWithinCatchRange(final.Mouse, final.CatAngle, DefaultCatchRange) {
		t.Errorf("escaped but cat %v is within range of %v", final.CatAngle, final.Mouse)
	}
}

func TestStepFrameOutcomeDecidedOnExit(t *testing.T) {
	cases := []struct {
		name string
		cat  float64
	}{
		{"cat on the exit", 0},
		{"cat close", 0.3},
		{"cat across", math.Pi},
		{"cat below", -1.5},
	}
	for _, tc := range cases {
		s := SimulationState{Mouse: Point{0.99, 0}, Target: Point{2, 0}, CatAngle: tc.cat, Outcome: OutcomeUndetermined}
		final, _ := runUntilDone(s, DefaultParams(), 10)
		if !final.Outcome.IsTerminal() {
			t.Fatalf("%s: game did not finish", tc.name)
		}
		want := OutcomeMouseEscaped
		if IsWithinCatchRange(final.Mouse, final.CatAngle, DefaultCatchRange) {
			want = OutcomeMouseCaught
		}
		if final.Outcome != want {
			t.Errorf("%s: outcome = %v, want %v", tc.name, final.Outcome, want)
		}
	}
}

func TestStepFrameFinishedGameIsFrozen(t *testing.T) {
	for _, o := range []Outcome{OutcomeMouseCaught, OutcomeMouseEscaped} {
		s := SimulationState{Mouse: Point{1.01, 0}, Target: Point{2, 0}, CatAngle: 0.2, Outcome: o}
		if got := StepFrame(s, DefaultParams()); got != s {
			t.Errorf("StepFrame on %v changed state: %+v", o, got)
		}
		if got := StepFrameWithTarget(s, Point{-1, -1}, Controls{Tracking: true}, DefaultParams()); got != s {
			t.Errorf("StepFrameWithTarget on %v changed state: %+v", o, got)
		}
	}
}

func TestStepFrameWithTargetGates(t *testing.T) {
	s := NewSimulationState(0.5)
	target := Point{0.5, 0.5}

	idle := StepFrameWithTarget(s, target, Controls{}, DefaultParams())
	if idle.Mouse != s.Mouse || idle.CatAngle != s.CatAngle {
		t.Errorf("untracked frame moved actors: %+v", idle)
	}
	if idle.Target != target {
		t.Errorf("target = %v, want %v", idle.Target, target)
	}

	frozen := StepFrameWithTarget(s, target, Controls{Tracking: true, FreezeTime: true}, DefaultParams())
	if frozen.Mouse != s.Mouse || frozen.CatAngle != s.CatAngle {
		t.Errorf("frozen frame moved actors: %+v", frozen)
	}

	moved := StepFrameWithTarget(s, target, Controls{Tracking: true}, DefaultParams())
	if moved.Mouse == s.Mouse {
		t.Error("tracked frame should move the mouse")
	}
}

func TestStepFrameDeterminism(t *testing.T) {
	run := func() SimulationState {
		s := NewSimulationState(0.5)
		s.Target = Point{-0.7, 1.4}
		for i := 0; i < 200; i++ {
			s = StepFrame(s, DefaultParams())
		}
		return s
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("non-deterministic: run1=%+v run2=%+v", a, b)
	}
}

func TestStepFrameCatAngleStaysInRange(t *testing.T) {
	s := NewSimulationState(3.1)
	targets := []Point{{-0.9, 0.1}, {-0.9, -0.1}, {0.2, 0.8}, {-0.5, -0.5}}
	for i := 0; i < 400; i++ {
		s.Target = targets[(i/25)%len(targets)]
		s = StepFrame(s, DefaultParams())
		if s.CatAngle <= -math.Pi || s.CatAngle > math.Pi {
			t.Fatalf("frame %d: cat angle %v out of (-π, π]", i, s.CatAngle)
		}
	}
}

func TestStatusText(t *testing.T) {
	if got := StatusText(OutcomeMouseEscaped); got != "The mouse escapes!" {
		t.Errorf("escaped status = %q", got)
	}
	if got := StatusText(OutcomeMouseCaught); got != "The cat has caught the mouse" {
		t.Errorf("caught status = %q", got)
	}
	if got := StatusText(OutcomeUndetermined); got != "" {
		t.Errorf("undetermined status = %q", got)
	}
}

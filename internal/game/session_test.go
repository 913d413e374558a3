package game

import (
	"context"
	"testing"
	"time"
)

func newTestSession() (*Session, chan Frame, chan Frame) {
	s := NewSession("test", DefaultParams(), DefaultInitialCatAngle, time.Millisecond)
	frames := make(chan Frame, 1024)
	finished := make(chan Frame, 4)
	s.OnFrame = func(f Frame) {
		select {
		case frames <- f:
		default:
		}
	}
	s.OnFinish = func(f Frame) {
		finished <- f
	}
	return s, frames, finished
}

func TestSessionPlaysToTheEnd(t *testing.T) {
	s, _, finished := newTestSession()
	s.Start(context.Background())
	defer s.Stop()

	s.SetTarget(Point{2, 0})
	s.SetTracking(true)

	select {
	case f := <-finished:
		if f.State.Outcome != OutcomeMouseCaught {
			t.Errorf("outcome = %v, want caught (cat starts next to the exit)", f.State.Outcome)
		}
		if f.Status != StatusText(OutcomeMouseCaught) {
			t.Errorf("status = %q", f.Status)
		}
		if f.Number < 50 {
			t.Errorf("finished after %d frames, mouse needs at least 50 to reach the rim", f.Number)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for game to finish")
	}

	// The finished game no longer changes.
	before := s.Snapshot()
	time.Sleep(20 * time.Millisecond)
	after := s.Snapshot()
	if before != after {
		t.Errorf("finished game kept changing: %+v -> %+v", before, after)
	}
}

func TestSessionIdleWithoutTracking(t *testing.T) {
	s, _, _ := newTestSession()
	s.Start(context.Background())
	defer s.Stop()

	s.SetTarget(Point{0.5, 0})
	time.Sleep(30 * time.Millisecond)

	f := s.Snapshot()
	if f.Number != 0 || f.State.Mouse != Origin {
		t.Errorf("untracked session advanced: frame=%d mouse=%v", f.Number, f.State.Mouse)
	}
	if f.State.Target != (Point{0.5, 0}) {
		t.Errorf("target = %v, want (0.5, 0)", f.State.Target)
	}
}

func TestSessionFreezeTime(t *testing.T) {
	s, _, _ := newTestSession()
	s.Start(context.Background())
	defer s.Stop()

	s.SetFreeze(true)
	s.SetTracking(true)
	s.SetTarget(Point{0.5, 0})
	time.Sleep(30 * time.Millisecond)

	f := s.Snapshot()
	if !f.Controls.FreezeTime || !f.Controls.Tracking {
		t.Fatalf("controls = %+v, want tracking and frozen", f.Controls)
	}
	if f.Number != 0 {
		t.Errorf("frozen session advanced to frame %d", f.Number)
	}

	s.SetFreeze(false)
	deadline := time.After(time.Second)
	for s.Snapshot().Number == 0 {
		select {
		case <-deadline:
			t.Fatal("session did not resume after unfreezing")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestSessionToggleFreeze(t *testing.T) {
	s, _, _ := newTestSession()
	s.Start(context.Background())
	defer s.Stop()

	s.ToggleFreeze()
	s.ToggleFreeze()
	s.ToggleFreeze()
	s.SetTarget(Point{0.1, 0}) // processed after the toggles

	deadline := time.After(time.Second)
	for s.Snapshot().State.Target != (Point{0.1, 0}) {
		select {
		case <-deadline:
			t.Fatal("commands were not applied")
		case <-time.After(2 * time.Millisecond):
		}
	}
	if !s.Snapshot().Controls.FreezeTime {
		t.Error("three toggles should leave time frozen")
	}
}

func TestSessionResetStartsNewGame(t *testing.T) {
	s, frames, finished := newTestSession()
	s.Start(context.Background())
	defer s.Stop()

	s.SetTarget(Point{2, 0})
	s.SetTracking(true)
	select {
	case <-finished:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for game to finish")
	}

	s.Reset()
	s.SetTarget(Point{0, 0.5})

	deadline := time.After(time.Second)
	for {
		select {
		case f := <-frames:
			if f.State.Outcome.IsTerminal() || f.Number == 0 {
				continue
			}
			if f.State.Mouse.Y <= 0 {
				continue
			}
			// A fresh game moving toward the new target.
			if f.State.Mouse.X != 0 {
				t.Errorf("mouse = %v, want it on the y axis", f.State.Mouse)
			}
			return
		case <-deadline:
			t.Fatal("no frames after reset")
		}
	}
}

func TestSessionStopIsSafe(t *testing.T) {
	s, _, _ := newTestSession()
	s.Stop() // never started
	s.Stop()
	s.SetTarget(Point{1, 1}) // must not block

	s2, _, _ := newTestSession()
	s2.Start(context.Background())
	s2.Stop()
	s2.Stop()
	s2.SetTracking(true)
}

func TestSessionStopsWithContext(t *testing.T) {
	s, _, _ := newTestSession()
	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after context cancel")
	}
}

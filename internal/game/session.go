package game

import (
	"context"
	"log"
	"sync"
	"time"
)

// Frame is what a session publishes after every change: the simulation state
// plus what a client needs to draw it.
type Frame struct {
	Token       string          `json:"token"`
	Number      int             `json:"frame"`
	State       SimulationState `json:"state"`
	CatPosition Point           `json:"cat_position"`
	Controls    Controls        `json:"controls"`
	Status      string          `json:"status"`
	StartedAt   time.Time       `json:"started_at"`
}

type setTarget struct{ target Point }
type setTracking struct{ enabled bool }
type setFreeze struct{ enabled bool }
type toggleFreeze struct{}
type resetGame struct{}

// Session drives one game. It owns the frame timer: the timer runs while the
// game is undecided and is released when the game ends or the session stops.
type Session struct {
	Token     string
	CreatedAt time.Time

	params          Params
	initialCatAngle float64
	interval        time.Duration

	inbox chan any
	quit  chan struct{}
	done  chan struct{}

	mu           sync.RWMutex
	state        SimulationState
	controls     Controls
	frame        int
	startedAt    time.Time
	lastActivity time.Time

	startOnce sync.Once
	stopOnce  sync.Once

	// OnFrame is called from the session goroutine after every step or reset.
	OnFrame func(Frame)
	// OnFinish is called once per game when the outcome is decided.
	OnFinish func(Frame)
}

// NewSession creates a stopped session. interval is the wall-clock period
// between frames; it does not affect how far the actors move per frame.
func NewSession(token string, params Params, initialCatAngle float64, interval time.Duration) *Session {
	if interval <= 0 {
		interval = time.Second / time.Duration(DefaultFrameRate)
	}
	now := time.Now()
	return &Session{
		Token:           token,
		CreatedAt:       now,
		params:          params,
		initialCatAngle: initialCatAngle,
		interval:        interval,
		inbox:           make(chan any, 256),
		quit:            make(chan struct{}),
		done:            make(chan struct{}),
		state:           NewSimulationState(initialCatAngle),
		startedAt:       now,
		lastActivity:    now,
	}
}

func (s *Session) Params() Params {
	return s.params
}

// Start launches the session loop. Calling Start more than once has no effect.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		go s.run(ctx)
	})
}

// Stop ends the session loop and waits for it to exit.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
	})
	// A session that never started has no loop to close done.
	s.startOnce.Do(func() {
		close(s.done)
	})
	<-s.done
}

func (s *Session) SetTarget(p Point) {
	s.send(setTarget{target: p})
}

func (s *Session) SetTracking(enabled bool) {
	s.send(setTracking{enabled: enabled})
}

func (s *Session) SetFreeze(enabled bool) {
	s.send(setFreeze{enabled: enabled})
}

// ToggleFreeze flips the freeze-time gate.
func (s *Session) ToggleFreeze() {
	s.send(toggleFreeze{})
}

// Reset replaces the game with a fresh one.
func (s *Session) Reset() {
	s.send(resetGame{})
}

func (s *Session) send(cmd any) {
	select {
	case s.inbox <- cmd:
	case <-s.quit:
	case <-s.done:
	}
}

// Snapshot returns the current frame.
func (s *Session) Snapshot() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frameLocked()
}

// LastActivity is the time of the last command from the player.
func (s *Session) LastActivity() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

func (s *Session) frameLocked() Frame {
	return Frame{
		Token:       s.Token,
		Number:      s.frame,
		State:       s.state,
		CatPosition: CatPosition(s.state.CatAngle),
		Controls:    s.controls,
		Status:      StatusText(s.state.Outcome),
		StartedAt:   s.startedAt,
	}
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	tickC := ticker.C
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case cmd := <-s.inbox:
			if s.handleCommand(cmd) && ticker == nil {
				ticker = time.NewTicker(s.interval)
				tickC = ticker.C
			}
		case <-tickC:
			if finished := s.tick(); finished {
				ticker.Stop()
				ticker = nil
				tickC = nil
			}
		}
	}
}

// handleCommand applies cmd and reports whether a new game was started.
func (s *Session) handleCommand(cmd any) bool {
	s.mu.Lock()
	s.lastActivity = time.Now()
	var (
		restarted bool
		publish   bool
	)
	switch c := cmd.(type) {
	case setTarget:
		if !s.state.Outcome.IsTerminal() {
			s.state.Target = c.target
		}
	case setTracking:
		s.controls.Tracking = c.enabled
		publish = true
	case setFreeze:
		s.controls.FreezeTime = c.enabled
		publish = true
	case toggleFreeze:
		s.controls.FreezeTime = !s.controls.FreezeTime
		publish = true
	case resetGame:
		s.state = NewSimulationState(s.initialCatAngle)
		s.frame = 0
		s.startedAt = s.lastActivity
		restarted = true
		publish = true
	default:
		log.Printf("[SESSION] %s: unknown command %T", s.Token, cmd)
	}
	f := s.frameLocked()
	s.mu.Unlock()

	if publish && s.OnFrame != nil {
		s.OnFrame(f)
	}
	return restarted
}

// tick runs one frame if the controls allow it and reports whether the game
// has finished.
func (s *Session) tick() bool {
	s.mu.Lock()
	if s.state.Outcome.IsTerminal() {
		s.mu.Unlock()
		return true
	}
	if !s.controls.Active() {
		s.mu.Unlock()
		return false
	}
	s.state = StepFrame(s.state, s.params)
	s.frame++
	f := s.frameLocked()
	s.mu.Unlock()

	if s.OnFrame != nil {
		s.OnFrame(f)
	}
	if f.State.Outcome.IsTerminal() {
		log.Printf("[SESSION] %s finished after %d frames: %s", s.Token, f.Number, f.State.Outcome)
		if s.OnFinish != nil {
			s.OnFinish(f)
		}
		return true
	}
	return false
}

package game

// Outcome represents how a game ended, if it has.
type Outcome string

const (
	OutcomeUndetermined Outcome = "UNDETERMINED"
	OutcomeMouseEscaped Outcome = "MOUSE_ESCAPED"
	OutcomeMouseCaught  Outcome = "MOUSE_CAUGHT"
)

// IsTerminal reports whether the game is over.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeMouseEscaped || o == OutcomeMouseCaught
}

// StatusText is the line shown to the player for an outcome.
func StatusText(o Outcome) string {
	switch o {
	case OutcomeMouseEscaped:
		return "The mouse escapes!"
	case OutcomeMouseCaught:
		return "The cat has caught the mouse"
	}
	return ""
}

// Default game settings.
const (
	DefaultCatSpeed        = 2.0
	DefaultMouseFactor     = 0.3
	DefaultFrameRate       = 30.0
	DefaultCatchRange      = 0.05
	DefaultInitialCatAngle = 0.5
)

// Params are the speed and frame settings a game runs with.
type Params struct {
	CatSpeed    float64 `json:"cat_speed"`    // rim units per second
	MouseFactor float64 `json:"mouse_factor"` // fraction of CatSpeed
	FrameRate   float64 `json:"frame_rate"`   // frames per second
	CatchRange  float64 `json:"catch_range"`
}

func DefaultParams() Params {
	return Params{
		CatSpeed:    DefaultCatSpeed,
		MouseFactor: DefaultMouseFactor,
		FrameRate:   DefaultFrameRate,
		CatchRange:  DefaultCatchRange,
	}
}

func (p Params) MouseSpeed() float64 {
	return p.CatSpeed * p.MouseFactor
}

// Controls are the host-side switches that decide whether a frame runs at all.
type Controls struct {
	Tracking   bool `json:"tracking"`
	FreezeTime bool `json:"freeze_time"`
}

// Active reports whether frames should advance.
func (c Controls) Active() bool {
	return c.Tracking && !c.FreezeTime
}

// SimulationState is everything one frame consumes and produces.
type SimulationState struct {
	Mouse    Point   `json:"mouse"`
	CatAngle float64 `json:"cat"`
	Target   Point   `json:"target"`
	Outcome  Outcome `json:"outcome"`
}

// NewSimulationState returns a fresh game: mouse at the center, cat at catAngle.
func NewSimulationState(catAngle float64) SimulationState {
	return SimulationState{
		Mouse:    Origin,
		CatAngle: WrapAngle(catAngle),
		Target:   Origin,
		Outcome:  OutcomeUndetermined,
	}
}

// StepFrame advances the game by one frame. A finished game is returned as is.
//
// The cat aims at where the mouse ends up this frame, not where it started.
func StepFrame(s SimulationState, p Params) SimulationState {
	if s.Outcome.IsTerminal() {
		return s
	}

	mouseNext := AdvanceMouse(s.Mouse, s.Target, p.MouseSpeed(), p.FrameRate)
	catNext := AdvanceCat(mouseNext, s.CatAngle, p.CatSpeed, p.FrameRate)

	outcome := OutcomeUndetermined
	if !IsInsideOrOnDisk(mouseNext) {
		if IsWithinCatchRange(mouseNext, catNext, p.CatchRange) {
			outcome = OutcomeMouseCaught
		} else {
			outcome = OutcomeMouseEscaped
		}
	}

	return SimulationState{
		Mouse:    mouseNext,
		CatAngle: catNext,
		Target:   s.Target,
		Outcome:  outcome,
	}
}

// StepFrameWithTarget records the latest pointer target and runs one frame if
// the controls allow it. With inactive controls only the target changes.
func StepFrameWithTarget(s SimulationState, target Point, c Controls, p Params) SimulationState {
	if s.Outcome.IsTerminal() {
		return s
	}
	s.Target = target
	if !c.Active() {
		return s
	}
	return StepFrame(s, p)
}

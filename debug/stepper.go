package debug

// StepMode names the stepping operation currently in effect.
type StepMode int

const (
	// StepNone means no step is pending; only breakpoints and explicit
	// pause requests cause a stop.
	StepNone StepMode = iota
	// StepInto pauses on the very next evaluation, regardless of depth.
	StepInto
	// StepOver pauses on the next evaluation at the same depth or
	// shallower, skipping over nested function calls.
	StepOver
	// StepOut pauses on the next evaluation strictly shallower than the
	// depth the step was requested at.
	StepOut
)

// Stepper tracks one pending step operation. This core has no source
// positions attached to Nodes, so Stepper's only signal is function-call
// depth, maintained by Engine via OnFunEntry/OnFunReturn. Stepper is not
// safe for concurrent use; Engine serializes access to it under its own
// lock.
type Stepper struct {
	mode  StepMode
	depth int
}

// NewStepper returns a Stepper with no step pending.
func NewStepper() *Stepper {
	return &Stepper{mode: StepNone}
}

// Mode reports the current step mode.
func (s *Stepper) Mode() StepMode {
	return s.mode
}

// Reset clears any pending step, leaving only breakpoints active.
func (s *Stepper) Reset() {
	s.mode = StepNone
	s.depth = 0
}

// SetStepInto arms a step-into at currentDepth.
func (s *Stepper) SetStepInto(currentDepth int) {
	s.mode = StepInto
	s.depth = currentDepth
}

// SetStepOver arms a step-over at currentDepth: the next pause fires at
// currentDepth or shallower.
func (s *Stepper) SetStepOver(currentDepth int) {
	s.mode = StepOver
	s.depth = currentDepth
}

// SetStepOut arms a step-out at currentDepth: the next pause fires
// strictly shallower than currentDepth.
func (s *Stepper) SetStepOut(currentDepth int) {
	s.mode = StepOut
	s.depth = currentDepth
}

// Depth returns the depth the pending step was armed at.
func (s *Stepper) Depth() int {
	return s.depth
}

// ShouldPause reports whether, given the current call depth, the armed
// step (if any) is satisfied.
func (s *Stepper) ShouldPause(currentDepth int) bool {
	switch s.mode {
	case StepInto:
		return true
	case StepOver:
		return currentDepth <= s.depth
	case StepOut:
		return currentDepth < s.depth
	default:
		return false
	}
}

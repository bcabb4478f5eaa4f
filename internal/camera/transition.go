package camera

import "time"

// DefaultDuration is the transition length that reproduces the slow
// zoom-pan feel of the editor's playback mode.
const DefaultDuration = 1800 * time.Millisecond

// Transition animates the camera between two states. It is a cooperative
// time-driven task: the owner calls Advance with the elapsed time of each
// tick, from whatever scheduler drives rendering (timer, render loop, test
// harness). A transition is finite and not restartable; superseding it with
// a new one must start from the current interpolated state (see Session) so
// there is never a visual jump.
type Transition struct {
	from     State
	to       State
	duration time.Duration
	easing   Easing
	elapsed  time.Duration
}

// NewTransition builds a transition from one camera state to another.
// A non-positive duration falls back to DefaultDuration; a nil easing falls
// back to EaseOutCubic.
func NewTransition(from, to State, duration time.Duration, easing Easing) *Transition {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if easing == nil {
		easing = EaseOutCubic
	}
	return &Transition{from: from, to: to, duration: duration, easing: easing}
}

// Target returns the destination state.
func (tr *Transition) Target() State {
	return tr.to
}

// Done reports whether the transition has played out.
func (tr *Transition) Done() bool {
	return tr.elapsed >= tr.duration
}

// Current returns the camera state at the transition's present position
// without advancing it.
func (tr *Transition) Current() State {
	return tr.At(tr.elapsed)
}

// At returns the interpolated state at an arbitrary elapsed time. Times
// outside [0, duration] clamp to the endpoints.
func (tr *Transition) At(elapsed time.Duration) State {
	if elapsed <= 0 {
		return tr.from
	}
	if elapsed >= tr.duration {
		return tr.to
	}
	t := float64(elapsed) / float64(tr.duration)
	return interpolate(tr.from, tr.to, tr.easing(t))
}

// Advance moves the transition forward by dt and returns the new camera
// state. Once done it keeps returning the target state.
func (tr *Transition) Advance(dt time.Duration) State {
	if dt > 0 {
		tr.elapsed += dt
	}
	if tr.elapsed >= tr.duration {
		tr.elapsed = tr.duration
		return tr.to
	}
	return tr.At(tr.elapsed)
}

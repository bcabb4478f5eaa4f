// Package session orchestrates the presentation runtime: the editing vs.
// presenting state machine, current-frame tracking, camera transitions and
// device-agnostic control input.
package session

import (
	"time"

	"github.com/ivlev/prezicast/internal/camera"
	"github.com/ivlev/prezicast/internal/canvas"
	"github.com/ivlev/prezicast/internal/nav"
)

// Mode is the runtime state of an open presentation.
type Mode string

const (
	Editing    Mode = "editing"
	Presenting Mode = "presenting"
)

// InputKind classifies a control event, whatever device produced it
// (keyboard, on-screen control, hardware remote).
type InputKind string

const (
	InputNext     InputKind = "next"
	InputPrevious InputKind = "previous"
	InputGoTo     InputKind = "goto"
	InputExit     InputKind = "exit"
)

// Input is one control event. FrameID is set for goto inputs only.
type Input struct {
	Kind    InputKind
	FrameID string
}

// Snapshot is the externally visible runtime state, mirrored to the sync
// channel on every change.
type Snapshot struct {
	Mode           Mode   `json:"mode"`
	CurrentFrameID string `json:"currentFrameId,omitempty"`
}

// Session owns the runtime state of one open presentation on one client.
// It is built at presentation-open and torn down at close; all calls happen
// on the client's single logical thread. Camera animation is advanced
// cooperatively through Advance and never blocks input handling.
type Session struct {
	doc *canvas.Document
	nav *nav.Navigator

	mode      Mode
	viewportW float64
	viewportH float64

	fitOpts  camera.FitOptions
	duration time.Duration
	easing   camera.Easing

	cam        camera.State
	transition *camera.Transition

	onChange []func(Snapshot)
}

// Option tunes a new session.
type Option func(*Session)

// WithFitOptions overrides the camera fit parameters.
func WithFitOptions(opts camera.FitOptions) Option {
	return func(s *Session) { s.fitOpts = opts }
}

// WithTransition overrides the transition duration and easing.
func WithTransition(d time.Duration, e camera.Easing) Option {
	return func(s *Session) {
		s.duration = d
		s.easing = e
	}
}

// New opens a session over a document with the given viewport dimensions in
// pixels. The camera starts at identity and the session in editing mode.
func New(doc *canvas.Document, viewportW, viewportH float64, opts ...Option) *Session {
	s := &Session{
		doc:       doc,
		nav:       nav.New(doc),
		mode:      Editing,
		viewportW: viewportW,
		viewportH: viewportH,
		fitOpts:   camera.DefaultFitOptions,
		duration:  camera.DefaultDuration,
		easing:    camera.EaseOutCubic,
		cam:       camera.Identity,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Deleting the current frame strands the navigator; clear it so the
	// runtime degrades to the "nothing to present" condition instead of
	// pointing at a dead id.
	doc.Subscribe(func(ev canvas.Event) {
		if ev.Kind == canvas.EventFrameDeleted && ev.FrameID == s.nav.Current() {
			s.nav.Reset()
			s.emit()
		}
	})

	return s
}

// OnChange registers a callback invoked after every runtime state change
// (mode or current frame). The sync channel publisher hangs off this.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Session) emit() {
	snap := s.Snapshot()
	for _, fn := range s.onChange {
		fn(snap)
	}
}

// Mode returns the current runtime mode.
func (s *Session) Mode() Mode {
	return s.mode
}

// CurrentFrameID returns the current frame id, or "" when unset.
func (s *Session) CurrentFrameID() string {
	return s.nav.Current()
}

// Snapshot returns the externally visible runtime state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{Mode: s.mode, CurrentFrameID: s.nav.Current()}
}

// Camera returns the camera state as of the last Advance call. During a
// transition this is the mid-interpolation state.
func (s *Session) Camera() camera.State {
	return s.cam
}

// Animating reports whether a camera transition is in flight.
func (s *Session) Animating() bool {
	return s.transition != nil && !s.transition.Done()
}

// SetViewport updates the viewport dimensions, e.g. on window resize. The
// camera re-fits the current frame immediately (no animation) so the frame
// stays centered.
func (s *Session) SetViewport(w, h float64) {
	s.viewportW = w
	s.viewportH = h
	if id := s.nav.Current(); id != "" {
		if target, err := s.doc.FrameBounds(id); err == nil {
			s.cam = camera.ComputeFit(target, w, h, s.fitOpts)
			s.transition = nil
		}
	}
}

// Present switches to presenting mode. With a non-empty path and no current
// frame it starts at the first path entry and animates the camera there.
// An empty path is not an error: the session enters presenting mode with no
// current frame and the caller shows a "nothing to present" condition.
func (s *Session) Present() {
	if s.mode == Presenting {
		return
	}
	s.mode = Presenting

	if !s.nav.HasCurrent() {
		s.nav.GoToStart()
	}
	if id := s.nav.Current(); id != "" {
		s.flyTo(id)
	}
	s.emit()
}

// Exit returns to editing mode. Camera and path position are preserved so
// presenting can resume where it left off.
func (s *Session) Exit() {
	if s.mode == Editing {
		return
	}
	s.mode = Editing
	s.emit()
}

// Next advances one path entry and animates there. No-op at the end of the
// path or off it.
func (s *Session) Next() bool {
	if !s.nav.Next() {
		return false
	}
	s.flyTo(s.nav.Current())
	s.emit()
	return true
}

// Previous retreats one path entry and animates there.
func (s *Session) Previous() bool {
	if !s.nav.Previous() {
		return false
	}
	s.flyTo(s.nav.Current())
	s.emit()
	return true
}

// GoTo jumps to any frame, on the path or off it, and animates there.
func (s *Session) GoTo(frameID string) error {
	if err := s.nav.GoTo(frameID); err != nil {
		return err
	}
	s.flyTo(frameID)
	s.emit()
	return nil
}

// HandleInput dispatches one control event. Inputs arriving while a
// transition is in flight override it rather than queue, so controls stay
// responsive.
func (s *Session) HandleInput(in Input) error {
	switch in.Kind {
	case InputNext:
		s.Next()
	case InputPrevious:
		s.Previous()
	case InputGoTo:
		return s.GoTo(in.FrameID)
	case InputExit:
		s.Exit()
	}
	return nil
}

// Advance drives the camera animation by dt and returns the camera state.
// Call it from any scheduler: a render loop, a timer, or a test harness.
func (s *Session) Advance(dt time.Duration) camera.State {
	if s.transition == nil {
		return s.cam
	}
	s.cam = s.transition.Advance(dt)
	if s.transition.Done() {
		s.transition = nil
	}
	return s.cam
}

// flyTo starts an animated transition to the fit camera of a frame. The
// transition departs from the camera's current, possibly mid-interpolation,
// state: superseding never jumps.
func (s *Session) flyTo(frameID string) {
	target, err := s.doc.FrameBounds(frameID)
	if err != nil {
		return
	}

	from := s.cam
	if s.transition != nil {
		from = s.transition.Current()
	}
	to := camera.ComputeFit(target, s.viewportW, s.viewportH, s.fitOpts)
	s.transition = camera.NewTransition(from, to, s.duration, s.easing)
}

// ApplyRemote mirrors a snapshot announced by the sync channel into this
// session: the viewer navigates to the announced frame and animates from
// its own previous camera state. Last write wins, no merge.
func (s *Session) ApplyRemote(snap Snapshot) {
	if snap.Mode != "" && snap.Mode != s.mode {
		s.mode = snap.Mode
	}
	if snap.CurrentFrameID != "" && snap.CurrentFrameID != s.nav.Current() {
		if err := s.nav.GoTo(snap.CurrentFrameID); err == nil {
			s.flyTo(snap.CurrentFrameID)
		}
	}
}

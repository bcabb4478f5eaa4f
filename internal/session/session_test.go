package session

import (
	"math"
	"testing"
	"time"

	"github.com/ivlev/prezicast/internal/camera"
	"github.com/ivlev/prezicast/internal/canvas"
	"github.com/ivlev/prezicast/internal/geom"
)

func newPresentableDoc(t *testing.T, frames int) (*canvas.Document, []string) {
	t.Helper()
	doc := canvas.NewDocument("session test")

	ids := make([]string, 0, frames)
	for i := 0; i < frames; i++ {
		id, err := doc.AddFrame(canvas.FrameSpec{
			Position: geom.Point{X: float64(i) * 1000, Y: 100},
			Width:    640,
			Height:   360,
		})
		if err != nil {
			t.Fatalf("AddFrame failed: %v", err)
		}
		ids = append(ids, id)
	}
	if err := doc.SetPath(ids); err != nil {
		t.Fatalf("SetPath failed: %v", err)
	}
	return doc, ids
}

func TestPresentStartsAtFirstPathEntry(t *testing.T) {
	doc, ids := newPresentableDoc(t, 3)
	s := New(doc, 1920, 1080)

	if s.Mode() != Editing {
		t.Fatalf("new session should start editing, got %s", s.Mode())
	}

	s.Present()

	if s.Mode() != Presenting {
		t.Errorf("expected presenting mode, got %s", s.Mode())
	}
	if s.CurrentFrameID() != ids[0] {
		t.Errorf("expected current frame %s, got %s", ids[0], s.CurrentFrameID())
	}
	if !s.Animating() {
		t.Error("entering presenting mode should start a camera transition")
	}
}

func TestPresentEmptyPathIsDegenerateNotError(t *testing.T) {
	doc := canvas.NewDocument("empty")
	s := New(doc, 1920, 1080)

	s.Present()

	if s.Mode() != Presenting {
		t.Errorf("expected presenting mode, got %s", s.Mode())
	}
	if s.CurrentFrameID() != "" {
		t.Errorf("expected no current frame, got %s", s.CurrentFrameID())
	}
	if s.Animating() {
		t.Error("nothing to animate toward with an empty path")
	}
}

func TestNextThroughPathIsTerminal(t *testing.T) {
	doc, ids := newPresentableDoc(t, 3)
	s := New(doc, 1920, 1080)
	s.Present()

	s.Next() // F2
	s.Next() // F3
	if s.CurrentFrameID() != ids[2] {
		t.Fatalf("expected %s, got %s", ids[2], s.CurrentFrameID())
	}

	if s.Next() {
		t.Error("Next at the last path entry must be a no-op")
	}
	if s.CurrentFrameID() != ids[2] {
		t.Errorf("terminal state broken: got %s", s.CurrentFrameID())
	}
}

func TestExitPreservesPositionForResume(t *testing.T) {
	doc, ids := newPresentableDoc(t, 3)
	s := New(doc, 1920, 1080)
	s.Present()
	s.Next()

	camBefore := s.Advance(camera.DefaultDuration) // settle the animation

	s.Exit()
	if s.Mode() != Editing {
		t.Fatalf("expected editing after exit, got %s", s.Mode())
	}
	if s.CurrentFrameID() != ids[1] {
		t.Errorf("exit must preserve current frame, got %s", s.CurrentFrameID())
	}
	if s.Camera() != camBefore {
		t.Errorf("exit must preserve camera state")
	}

	// Resuming picks up where we left off.
	s.Present()
	if s.CurrentFrameID() != ids[1] {
		t.Errorf("resume lost position, got %s", s.CurrentFrameID())
	}
}

func TestAdvanceSettlesOnFitCamera(t *testing.T) {
	doc, ids := newPresentableDoc(t, 1)
	s := New(doc, 1920, 1080)
	s.Present()

	final := s.Advance(camera.DefaultDuration + time.Second)
	if s.Animating() {
		t.Error("transition should be finished")
	}

	target, err := doc.FrameBounds(ids[0])
	if err != nil {
		t.Fatalf("FrameBounds failed: %v", err)
	}
	want := camera.ComputeFit(target, 1920, 1080, camera.DefaultFitOptions)
	if math.Abs(final.Zoom-want.Zoom) > 1e-9 ||
		math.Abs(final.PanX-want.PanX) > 1e-9 ||
		math.Abs(final.PanY-want.PanY) > 1e-9 {
		t.Errorf("settled camera %+v, want fit camera %+v", final, want)
	}
}

func TestOverridingTransitionNeverJumps(t *testing.T) {
	doc, _ := newPresentableDoc(t, 3)
	s := New(doc, 1920, 1080)
	s.Present()

	// Interrupt the first transition halfway through.
	mid := s.Advance(camera.DefaultDuration / 2)

	s.Next()

	// The very next tick must depart from the interrupted state: with a
	// tiny dt the camera may move only a sliver from where it was.
	after := s.Advance(time.Millisecond)
	if math.Abs(after.Zoom-mid.Zoom) > 0.05 ||
		math.Abs(after.PanX-mid.PanX) > 5 ||
		math.Abs(after.PanY-mid.PanY) > 5 {
		t.Errorf("visual jump on override: %+v -> %+v", mid, after)
	}
}

func TestHandleInputDispatch(t *testing.T) {
	doc, ids := newPresentableDoc(t, 3)
	s := New(doc, 1920, 1080)
	s.Present()

	if err := s.HandleInput(Input{Kind: InputNext}); err != nil {
		t.Fatalf("next input failed: %v", err)
	}
	if s.CurrentFrameID() != ids[1] {
		t.Errorf("next input: expected %s, got %s", ids[1], s.CurrentFrameID())
	}

	if err := s.HandleInput(Input{Kind: InputPrevious}); err != nil {
		t.Fatalf("previous input failed: %v", err)
	}
	if s.CurrentFrameID() != ids[0] {
		t.Errorf("previous input: expected %s, got %s", ids[0], s.CurrentFrameID())
	}

	if err := s.HandleInput(Input{Kind: InputGoTo, FrameID: ids[2]}); err != nil {
		t.Fatalf("goto input failed: %v", err)
	}
	if s.CurrentFrameID() != ids[2] {
		t.Errorf("goto input: expected %s, got %s", ids[2], s.CurrentFrameID())
	}

	if err := s.HandleInput(Input{Kind: InputGoTo, FrameID: "ghost"}); err == nil {
		t.Error("goto unknown frame should fail")
	}

	if err := s.HandleInput(Input{Kind: InputExit}); err != nil {
		t.Fatalf("exit input failed: %v", err)
	}
	if s.Mode() != Editing {
		t.Errorf("exit input: expected editing, got %s", s.Mode())
	}
}

func TestOnChangeMirrorsRuntimeState(t *testing.T) {
	doc, ids := newPresentableDoc(t, 2)
	s := New(doc, 1920, 1080)

	var last Snapshot
	var count int
	s.OnChange(func(snap Snapshot) {
		last = snap
		count++
	})

	s.Present()
	s.Next()
	s.Exit()

	if count != 3 {
		t.Errorf("expected 3 change notifications, got %d", count)
	}
	if last.Mode != Editing || last.CurrentFrameID != ids[1] {
		t.Errorf("final snapshot off: %+v", last)
	}
}

func TestDeletingCurrentFrameClearsIt(t *testing.T) {
	doc, ids := newPresentableDoc(t, 2)
	s := New(doc, 1920, 1080)
	s.Present()

	if err := doc.DeleteFrame(ids[0]); err != nil {
		t.Fatalf("DeleteFrame failed: %v", err)
	}
	if s.CurrentFrameID() != "" {
		t.Errorf("current frame must clear when its frame is deleted, got %s", s.CurrentFrameID())
	}
}

func TestApplyRemoteAnimatesFromLocalState(t *testing.T) {
	doc, ids := newPresentableDoc(t, 2)
	s := New(doc, 1920, 1080)
	s.Present()
	local := s.Advance(camera.DefaultDuration) // settled on F1

	s.ApplyRemote(Snapshot{Mode: Presenting, CurrentFrameID: ids[1]})

	if s.CurrentFrameID() != ids[1] {
		t.Fatalf("remote frame not applied, got %s", s.CurrentFrameID())
	}
	// The local animation departs from the viewer's own previous state.
	first := s.Advance(time.Millisecond)
	if math.Abs(first.PanX-local.PanX) > 5 {
		t.Errorf("viewer animation must start from local camera, %+v -> %+v", local, first)
	}
}

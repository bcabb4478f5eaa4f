package camera

import (
	"math"
	"testing"
	"time"
)

func TestTransitionEndpoints(t *testing.T) {
	from := State{Zoom: 1, PanX: 0, PanY: 0}
	to := State{Zoom: 2.4, PanX: -48, PanY: -132}
	tr := NewTransition(from, to, time.Second, Linear)

	if got := tr.At(0); got != from {
		t.Errorf("At(0): expected %+v, got %+v", from, got)
	}
	if got := tr.At(time.Second); got != to {
		t.Errorf("At(duration): expected %+v, got %+v", to, got)
	}
	if got := tr.At(2 * time.Second); got != to {
		t.Errorf("past duration must clamp to target, got %+v", got)
	}
}

func TestTransitionLinearMidpoint(t *testing.T) {
	tr := NewTransition(State{Zoom: 1}, State{Zoom: 3, PanX: 100, PanY: -100}, time.Second, Linear)

	mid := tr.At(500 * time.Millisecond)
	if math.Abs(mid.Zoom-2) > 1e-9 || math.Abs(mid.PanX-50) > 1e-9 || math.Abs(mid.PanY+50) > 1e-9 {
		t.Errorf("linear midpoint off: %+v", mid)
	}
}

func TestTransitionAdvanceAccumulates(t *testing.T) {
	tr := NewTransition(State{Zoom: 1}, State{Zoom: 2}, time.Second, Linear)

	var state State
	for i := 0; i < 4; i++ {
		state = tr.Advance(250 * time.Millisecond)
	}

	if !tr.Done() {
		t.Error("transition should be done after full duration")
	}
	if state.Zoom != 2 {
		t.Errorf("expected final zoom 2, got %v", state.Zoom)
	}

	// Advancing a finished transition keeps returning the target.
	if got := tr.Advance(time.Second); got.Zoom != 2 {
		t.Errorf("advance past end must hold target, got %v", got.Zoom)
	}
}

func TestSupersededTransitionStartsFromCurrentState(t *testing.T) {
	first := NewTransition(State{Zoom: 1}, State{Zoom: 3, PanX: 200}, time.Second, Linear)

	// Interrupt mid-flight.
	midway := first.Advance(500 * time.Millisecond)

	second := NewTransition(first.Current(), State{Zoom: 1, PanX: 0}, time.Second, Linear)

	// The superseding transition must depart from the interpolated state,
	// not from the first transition's original endpoints.
	if got := second.At(0); got != midway {
		t.Errorf("no-jump rule violated: new transition starts at %+v, camera was at %+v", got, midway)
	}
}

func TestTransitionDefaults(t *testing.T) {
	tr := NewTransition(State{Zoom: 1}, State{Zoom: 2}, 0, nil)

	if tr.duration != DefaultDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDuration, tr.duration)
	}

	// Default easing is ease-out: past the halfway mark at t=0.5.
	mid := tr.At(DefaultDuration / 2)
	if mid.Zoom <= 1.5 {
		t.Errorf("ease-out should be ahead of linear at midpoint, got zoom %v", mid.Zoom)
	}
}

func TestEasingEndpoints(t *testing.T) {
	easings := map[string]Easing{
		"linear":         Linear,
		"ease-out-cubic": EaseOutCubic,
		"ease-in-out":    EaseInOutCubic,
	}

	for name, fn := range easings {
		t.Run(name, func(t *testing.T) {
			if v := fn(0); math.Abs(v) > 1e-9 {
				t.Errorf("f(0) = %v, want 0", v)
			}
			if v := fn(1); math.Abs(v-1) > 1e-9 {
				t.Errorf("f(1) = %v, want 1", v)
			}
			// Monotonic over a coarse sweep.
			prev := fn(0)
			for i := 1; i <= 20; i++ {
				cur := fn(float64(i) / 20)
				if cur < prev-1e-9 {
					t.Fatalf("easing not monotonic at t=%v", float64(i)/20)
				}
				prev = cur
			}
		})
	}
}

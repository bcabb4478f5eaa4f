package camera

import (
	"math"

	"github.com/ivlev/prezicast/internal/geom"
)

// State is the affine transform mapping canvas space to viewport space:
// viewport = canvas*Zoom + (PanX, PanY).
type State struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// Identity is the camera at rest: no zoom, no pan.
var Identity = State{Zoom: 1}

// Apply maps a canvas-space point to viewport space.
func (s State) Apply(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X*s.Zoom + s.PanX,
		Y: p.Y*s.Zoom + s.PanY,
	}
}

// Unapply maps a viewport-space point back to canvas space.
func (s State) Unapply(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X - s.PanX) / s.Zoom,
		Y: (p.Y - s.PanY) / s.Zoom,
	}
}

// FitOptions tune how a target rectangle is framed in the viewport.
type FitOptions struct {
	// FillRatio is the fraction of the viewport the target may occupy.
	FillRatio float64
	// MaxZoom caps magnification of small targets.
	MaxZoom float64
}

// DefaultFitOptions frame the target into 80% of the viewport, never
// magnifying past 4x.
var DefaultFitOptions = FitOptions{FillRatio: 0.8, MaxZoom: 4}

// ComputeFit returns the camera state that centers target in a viewport of
// the given pixel dimensions. The smaller of the two axis ratios is used so
// the whole target fits without distortion (uniform scaling only).
func ComputeFit(target geom.Rect, viewportW, viewportH float64, opts FitOptions) State {
	if opts.FillRatio <= 0 {
		opts.FillRatio = DefaultFitOptions.FillRatio
	}
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = DefaultFitOptions.MaxZoom
	}
	if target.Empty() {
		return Identity
	}

	zoomX := viewportW * opts.FillRatio / target.Width
	zoomY := viewportH * opts.FillRatio / target.Height
	zoom := math.Min(math.Min(zoomX, zoomY), opts.MaxZoom)

	center := target.Center()
	return State{
		Zoom: zoom,
		PanX: viewportW/2 - center.X*zoom,
		PanY: viewportH/2 - center.Y*zoom,
	}
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// interpolate blends two camera states component-wise.
func interpolate(from, to State, t float64) State {
	return State{
		Zoom: lerp(from.Zoom, to.Zoom, t),
		PanX: lerp(from.PanX, to.PanX, t),
		PanY: lerp(from.PanY, to.PanY, t),
	}
}

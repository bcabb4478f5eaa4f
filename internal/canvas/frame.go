package canvas

import (
	"github.com/ivlev/prezicast/internal/geom"
)

// Frame is a slide placed in canvas space. Elements are painted in slice
// order (z-order).
type Frame struct {
	ID              string     `yaml:"id" json:"id"`
	Title           string     `yaml:"title,omitempty" json:"title,omitempty"`
	Position        geom.Point `yaml:"position" json:"position"`
	Width           float64    `yaml:"width" json:"width"`
	Height          float64    `yaml:"height" json:"height"`
	Rotation        float64    `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Scale           float64    `yaml:"scale,omitempty" json:"scale,omitempty"`
	BackgroundColor string     `yaml:"backgroundColor,omitempty" json:"backgroundColor,omitempty"`
	BorderColor     string     `yaml:"borderColor,omitempty" json:"borderColor,omitempty"`
	Locked          bool       `yaml:"locked,omitempty" json:"locked,omitempty"`
	Notes           string     `yaml:"notes,omitempty" json:"notes,omitempty"`
	Elements        []*Element `yaml:"elements,omitempty" json:"elements,omitempty"`
}

// Rect returns the frame's unrotated, unscaled rectangle in canvas space.
func (f *Frame) Rect() geom.Rect {
	return geom.Rect{X: f.Position.X, Y: f.Position.Y, Width: f.Width, Height: f.Height}
}

// Bounds returns the axis-aligned canvas-space area the frame occupies after
// applying its scale and rotation. This is the rectangle the camera fits.
func (f *Frame) Bounds() geom.Rect {
	scale := f.Scale
	if scale == 0 {
		scale = 1
	}
	return geom.BoundsOf(f.Rect(), f.Rotation, scale)
}

// element returns the element with the given id, or nil.
func (f *Frame) element(id string) *Element {
	for _, e := range f.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// clone returns a deep copy of the frame and its elements.
func (f *Frame) clone() *Frame {
	c := *f
	if len(f.Elements) > 0 {
		c.Elements = make([]*Element, len(f.Elements))
		for i, e := range f.Elements {
			c.Elements[i] = e.clone()
		}
	}
	return &c
}

// FrameSpec describes a frame to create. Position must be supplied by the
// caller: the model defines no default layout policy.
type FrameSpec struct {
	Title           string
	Position        geom.Point
	Width           float64
	Height          float64
	Rotation        float64
	Scale           float64
	BackgroundColor string
	BorderColor     string
	Notes           string
}

// FramePatch describes a partial frame update. Nil fields are left
// unchanged. Position, Width, Height, Rotation and Scale are geometry
// fields: they are rejected with ErrFrameLocked while the frame is locked.
type FramePatch struct {
	Title           *string
	Position        *geom.Point
	Width           *float64
	Height          *float64
	Rotation        *float64
	Scale           *float64
	BackgroundColor *string
	BorderColor     *string
	Locked          *bool
	Notes           *string
}

// touchesGeometry reports whether the patch mutates any geometry field.
func (p FramePatch) touchesGeometry() bool {
	return p.Position != nil || p.Width != nil || p.Height != nil ||
		p.Rotation != nil || p.Scale != nil
}

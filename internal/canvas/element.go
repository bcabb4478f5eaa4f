package canvas

import (
	"github.com/ivlev/prezicast/internal/geom"
)

// ElementKind tags the variant of an element. The renderer contract switches
// over this tag exhaustively.
type ElementKind string

const (
	KindText  ElementKind = "text"
	KindShape ElementKind = "shape"
	KindImage ElementKind = "image"
	KindVideo ElementKind = "video"
)

// ShapeKind names the primitive drawn by a shape element.
type ShapeKind string

const (
	ShapeRect     ShapeKind = "rect"
	ShapeCircle   ShapeKind = "circle"
	ShapeTriangle ShapeKind = "triangle"
	ShapeEllipse  ShapeKind = "ellipse"
)

// TextStyle carries the style fields relevant to text elements only.
type TextStyle struct {
	FontSize   float64 `yaml:"fontSize" json:"fontSize"`
	FontFamily string  `yaml:"fontFamily,omitempty" json:"fontFamily,omitempty"`
	Color      string  `yaml:"color,omitempty" json:"color,omitempty"`
	Weight     string  `yaml:"weight,omitempty" json:"weight,omitempty"`
	Alignment  string  `yaml:"alignment,omitempty" json:"alignment,omitempty"`
}

// ShapeStyle carries the style fields relevant to shape elements only.
type ShapeStyle struct {
	Fill        string  `yaml:"fill,omitempty" json:"fill,omitempty"`
	Stroke      string  `yaml:"stroke,omitempty" json:"stroke,omitempty"`
	StrokeWidth float64 `yaml:"strokeWidth,omitempty" json:"strokeWidth,omitempty"`
	Opacity     float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
}

// Element is a visual primitive owned by exactly one frame. Position is in
// the owning frame's local space; only the field matching Kind is set among
// the per-kind style structs.
type Element struct {
	ID       string      `yaml:"id" json:"id"`
	Kind     ElementKind `yaml:"kind" json:"kind"`
	Position geom.Point  `yaml:"position" json:"position"`
	Size     geom.Size   `yaml:"size" json:"size"`
	Rotation float64     `yaml:"rotation,omitempty" json:"rotation,omitempty"`

	// Content holds the kind-specific payload: the text string for text
	// elements, the shape kind for shapes, a resolvable reference for
	// image and video elements.
	Content string `yaml:"content" json:"content"`

	Text  *TextStyle  `yaml:"text,omitempty" json:"text,omitempty"`
	Shape *ShapeStyle `yaml:"shape,omitempty" json:"shape,omitempty"`
}

// ShapeKind returns the shape kind of a shape element, defaulting to rect when
// the content tag is empty or the element is not a shape.
func (e *Element) ShapeKind() ShapeKind {
	if e.Kind != KindShape || e.Content == "" {
		return ShapeRect
	}
	return ShapeKind(e.Content)
}

// clone returns a deep copy so callers can hand out elements without
// exposing internal state to mutation.
func (e *Element) clone() *Element {
	c := *e
	if e.Text != nil {
		ts := *e.Text
		c.Text = &ts
	}
	if e.Shape != nil {
		ss := *e.Shape
		c.Shape = &ss
	}
	return &c
}

// ElementPatch describes a partial element update. Nil fields are left
// unchanged.
type ElementPatch struct {
	Position *geom.Point
	Size     *geom.Size
	Rotation *float64
	Content  *string
	Text     *TextStyle
	Shape    *ShapeStyle
}

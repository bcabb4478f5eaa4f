package geom

import "math"

// Point is a position in canvas space (canvas units, not pixels).
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in canvas units.
type Size struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Rect is an axis-aligned rectangle: origin at the top-left corner.
type Rect struct {
	X      float64 `yaml:"x" json:"x"`
	Y      float64 `yaml:"y" json:"y"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// RectAt builds a Rect from an origin point and a size.
func RectAt(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, Width: size.Width, Height: size.Height}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside or on the boundary of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.Width, o.X+o.Width)
	maxY := math.Max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Inset shrinks the rectangle by d on every side. A negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Scale returns r scaled by factor s around its center.
func (r Rect) Scale(s float64) Rect {
	c := r.Center()
	w := r.Width * s
	h := r.Height * s
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// BoundsOf returns the axis-aligned bounding box of r after scaling it by
// scale around its center and rotating it by rotationDeg around its center.
// Used to answer "what area of the canvas does this frame occupy" for
// camera fitting and hit testing.
func BoundsOf(r Rect, rotationDeg, scale float64) Rect {
	if scale != 1 {
		r = r.Scale(scale)
	}
	if rotationDeg == 0 {
		return r
	}

	rad := Radians(rotationDeg)
	sin := math.Abs(math.Sin(rad))
	cos := math.Abs(math.Cos(rad))

	w := r.Width*cos + r.Height*sin
	h := r.Width*sin + r.Height*cos

	c := r.Center()
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

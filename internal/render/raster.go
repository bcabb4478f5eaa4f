package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/prezicast/internal/canvas"
	"github.com/ivlev/prezicast/internal/geom"
)

// ImageResolver turns an image element's content reference into pixels.
// Returning an error paints a placeholder instead of failing the snapshot.
type ImageResolver func(ref string) (image.Image, error)

// Raster is a software Painter drawing into an RGBA buffer. It trades
// fidelity for zero external dependencies: text uses a bitmap face, shapes
// are flat fills. Good enough for thumbnails, previews and tests.
type Raster struct {
	dst     *image.RGBA
	resolve ImageResolver
}

// NewRaster creates a raster painter over dst. resolve may be nil: image
// elements then paint as placeholders.
func NewRaster(dst *image.RGBA, resolve ImageResolver) *Raster {
	return &Raster{dst: dst, resolve: resolve}
}

func (r *Raster) PaintFrame(frame *canvas.Frame, rect geom.Rect) {
	bg := parseColor(frame.BackgroundColor, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	r.fillRect(rect, bg)
	if frame.BorderColor != "" {
		r.strokeRect(rect, parseColor(frame.BorderColor, color.RGBA{A: 0xff}), 2)
	}
}

func (r *Raster) PaintText(e *canvas.Element, rect geom.Rect) {
	col := color.RGBA{A: 0xff}
	if e.Text != nil {
		col = parseColor(e.Text.Color, col)
	}

	face := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  r.dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(rect.X)),
			Y: fixed.I(int(rect.Y) + face.Ascent),
		},
	}
	drawer.DrawString(e.Content)
}

func (r *Raster) PaintShape(e *canvas.Element, rect geom.Rect) {
	fill := color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}
	if e.Shape != nil {
		fill = parseColor(e.Shape.Fill, fill)
		if e.Shape.Opacity > 0 && e.Shape.Opacity < 1 {
			fill.A = uint8(e.Shape.Opacity * 255)
		}
	}

	switch e.ShapeKind() {
	case canvas.ShapeCircle, canvas.ShapeEllipse:
		r.fillEllipse(rect, fill)
	case canvas.ShapeTriangle:
		r.fillTriangle(rect, fill)
	default: // rect
		r.fillRect(rect, fill)
	}
}

func (r *Raster) PaintImage(e *canvas.Element, rect geom.Rect) {
	if r.resolve == nil {
		r.paintPlaceholder(rect)
		return
	}
	src, err := r.resolve(e.Content)
	if err != nil {
		r.paintPlaceholder(rect)
		return
	}

	dstRect := clampToBounds(rect, r.dst.Bounds())
	if dstRect.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(r.dst, dstRect, src, src.Bounds(), draw.Over, nil)
}

func (r *Raster) PaintVideo(e *canvas.Element, rect geom.Rect) {
	// A static surface cannot play media: paint the poster placeholder.
	r.paintPlaceholder(rect)
}

func (r *Raster) paintPlaceholder(rect geom.Rect) {
	r.fillRect(rect, color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
	r.strokeRect(rect, color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}, 1)
}

func (r *Raster) fillRect(rect geom.Rect, col color.RGBA) {
	dstRect := clampToBounds(rect, r.dst.Bounds())
	if dstRect.Empty() {
		return
	}
	draw.Draw(r.dst, dstRect, image.NewUniform(col), image.Point{}, draw.Over)
}

func (r *Raster) strokeRect(rect geom.Rect, col color.RGBA, width int) {
	x0, y0 := int(rect.X), int(rect.Y)
	x1, y1 := int(rect.X+rect.Width), int(rect.Y+rect.Height)

	edges := []image.Rectangle{
		image.Rect(x0, y0, x1, y0+width),
		image.Rect(x0, y1-width, x1, y1),
		image.Rect(x0, y0, x0+width, y1),
		image.Rect(x1-width, y0, x1, y1),
	}
	for _, e := range edges {
		e = e.Intersect(r.dst.Bounds())
		if !e.Empty() {
			draw.Draw(r.dst, e, image.NewUniform(col), image.Point{}, draw.Over)
		}
	}
}

func (r *Raster) fillEllipse(rect geom.Rect, col color.RGBA) {
	cx := rect.X + rect.Width/2
	cy := rect.Y + rect.Height/2
	rx := rect.Width / 2
	ry := rect.Height / 2
	if rx <= 0 || ry <= 0 {
		return
	}

	dstRect := clampToBounds(rect, r.dst.Bounds())
	for y := dstRect.Min.Y; y < dstRect.Max.Y; y++ {
		for x := dstRect.Min.X; x < dstRect.Max.X; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 {
				r.dst.SetRGBA(x, y, col)
			}
		}
	}
}

func (r *Raster) fillTriangle(rect geom.Rect, col color.RGBA) {
	// Isoceles triangle: apex top-center, base along the bottom edge.
	dstRect := clampToBounds(rect, r.dst.Bounds())
	if rect.Height <= 0 {
		return
	}
	cx := rect.X + rect.Width/2
	for y := dstRect.Min.Y; y < dstRect.Max.Y; y++ {
		t := (float64(y) + 0.5 - rect.Y) / rect.Height
		if t < 0 || t > 1 {
			continue
		}
		halfSpan := t * rect.Width / 2
		for x := dstRect.Min.X; x < dstRect.Max.X; x++ {
			fx := float64(x) + 0.5
			if fx >= cx-halfSpan && fx <= cx+halfSpan {
				r.dst.SetRGBA(x, y, col)
			}
		}
	}
}

func clampToBounds(rect geom.Rect, bounds image.Rectangle) image.Rectangle {
	r := image.Rect(int(rect.X), int(rect.Y), int(rect.X+rect.Width), int(rect.Y+rect.Height))
	return r.Intersect(bounds)
}

// parseColor parses a #rgb or #rrggbb hex string, returning fallback on
// anything it cannot read.
func parseColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]

	var r, g, b uint8
	switch len(hex) {
	case 3:
		if _, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b); err != nil {
			return fallback
		}
		r *= 17
		g *= 17
		b *= 17
	case 6:
		if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
			return fallback
		}
	default:
		return fallback
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Package render defines the element renderer contract: how a frame's
// elements are positioned through the camera transform and handed to a
// concrete painter. The package also ships a software raster painter used
// for frame snapshots; interactive clients plug in their own graphics
// toolkit behind the same interface.
package render

import (
	"fmt"

	"github.com/ivlev/prezicast/internal/camera"
	"github.com/ivlev/prezicast/internal/canvas"
	"github.com/ivlev/prezicast/internal/geom"
)

// Viewport is the pixel size of the output surface.
type Viewport struct {
	Width  int
	Height int
}

// Painter paints one element kind at a time into its surface. All
// rectangles arrive in viewport space, already transformed by the camera.
// Rotation is passed through in degrees for painters that support it.
type Painter interface {
	// PaintFrame paints the frame's background and border.
	PaintFrame(frame *canvas.Frame, rect geom.Rect)
	PaintText(e *canvas.Element, rect geom.Rect)
	PaintShape(e *canvas.Element, rect geom.Rect)
	PaintImage(e *canvas.Element, rect geom.Rect)
	PaintVideo(e *canvas.Element, rect geom.Rect)
}

// Paint walks a frame's elements in z-order and dispatches each to the
// painter. Element canvas position is the frame origin plus the element's
// local offset; everything is then mapped through the camera. The kind
// switch is exhaustive: an unknown kind is an error, not a silent skip.
func Paint(frame *canvas.Frame, cam camera.State, vp Viewport, p Painter) error {
	p.PaintFrame(frame, projectRect(frame.Rect(), cam))

	for _, e := range frame.Elements {
		canvasRect := geom.RectAt(frame.Position.Add(e.Position), e.Size)
		rect := projectRect(canvasRect, cam)

		switch e.Kind {
		case canvas.KindText:
			p.PaintText(e, rect)
		case canvas.KindShape:
			p.PaintShape(e, rect)
		case canvas.KindImage:
			p.PaintImage(e, rect)
		case canvas.KindVideo:
			p.PaintVideo(e, rect)
		default:
			return fmt.Errorf("unknown element kind %q in frame %s", e.Kind, frame.ID)
		}
	}
	return nil
}

// projectRect maps a canvas-space rectangle to viewport space through the
// camera.
func projectRect(r geom.Rect, cam camera.State) geom.Rect {
	origin := cam.Apply(geom.Point{X: r.X, Y: r.Y})
	return geom.Rect{
		X:      origin.X,
		Y:      origin.Y,
		Width:  r.Width * cam.Zoom,
		Height: r.Height * cam.Zoom,
	}
}

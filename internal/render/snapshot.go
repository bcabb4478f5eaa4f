package render

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/prezicast/internal/camera"
	"github.com/ivlev/prezicast/internal/canvas"
	"github.com/ivlev/prezicast/internal/system"
)

// SnapshotFrame renders a single frame into a fresh RGBA buffer through the
// software raster painter, using the frame's own fit camera so the frame
// fills the viewport the same way playback would show it.
func SnapshotFrame(doc *canvas.Document, frameID string, vp Viewport, fit camera.FitOptions, resolve ImageResolver) (*image.RGBA, error) {
	frame, err := doc.Frame(frameID)
	if err != nil {
		return nil, err
	}

	cam := camera.ComputeFit(frame.Bounds(), float64(vp.Width), float64(vp.Height), fit)

	dst := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	if err := Paint(frame, cam, vp, NewRaster(dst, resolve)); err != nil {
		return nil, err
	}
	return dst, nil
}

// SnapshotDeck renders every frame of the document to PNG files in dir,
// named <frameID>.png, fanning the work out over a bounded worker pool.
// Buffers are recycled through the image pool across renders.
func SnapshotDeck(ctx context.Context, doc *canvas.Document, dir string, vp Viewport, fit camera.FitOptions, resolve ImageResolver) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	frames := doc.Frames()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, frame := range frames {
		frame := frame
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cam := camera.ComputeFit(frame.Bounds(), float64(vp.Width), float64(vp.Height), fit)

			dst := system.GetImage(image.Rect(0, 0, vp.Width, vp.Height))
			defer system.PutImage(dst)

			if err := Paint(frame, cam, vp, NewRaster(dst, resolve)); err != nil {
				return fmt.Errorf("paint frame %s: %w", frame.ID, err)
			}

			path := filepath.Join(dir, frame.ID+".png")
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer f.Close()

			if err := png.Encode(f, dst); err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			return nil
		})
	}

	return g.Wait()
}

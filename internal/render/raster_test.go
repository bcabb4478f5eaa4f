package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/prezicast/internal/camera"
	"github.com/ivlev/prezicast/internal/canvas"
	"github.com/ivlev/prezicast/internal/geom"
)

func solidFrameDoc(t *testing.T) (*canvas.Document, string) {
	t.Helper()
	doc := canvas.NewDocument("render test")
	id, err := doc.AddFrame(canvas.FrameSpec{
		Position:        geom.Point{X: 100, Y: 100},
		Width:           640,
		Height:          360,
		BackgroundColor: "#ff0000",
	})
	if err != nil {
		t.Fatalf("AddFrame failed: %v", err)
	}
	return doc, id
}

func TestPaintDispatchesAllKinds(t *testing.T) {
	doc, id := solidFrameDoc(t)

	adds := []canvas.Element{
		{Kind: canvas.KindText, Content: "hi", Size: geom.Size{Width: 100, Height: 20}, Text: &canvas.TextStyle{FontSize: 12, Color: "#000000"}},
		{Kind: canvas.KindShape, Content: string(canvas.ShapeCircle), Position: geom.Point{X: 50, Y: 50}, Size: geom.Size{Width: 80, Height: 80}, Shape: &canvas.ShapeStyle{Fill: "#00ff00"}},
		{Kind: canvas.KindImage, Content: "missing.png", Position: geom.Point{X: 200, Y: 50}, Size: geom.Size{Width: 100, Height: 100}},
		{Kind: canvas.KindVideo, Content: "clip.mp4", Position: geom.Point{X: 350, Y: 50}, Size: geom.Size{Width: 100, Height: 100}},
	}
	for _, e := range adds {
		if _, err := doc.AddElement(id, e); err != nil {
			t.Fatalf("AddElement failed: %v", err)
		}
	}

	frame, _ := doc.Frame(id)
	dst := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	cam := camera.ComputeFit(frame.Bounds(), 1920, 1080, camera.DefaultFitOptions)

	if err := Paint(frame, cam, Viewport{Width: 1920, Height: 1080}, NewRaster(dst, nil)); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}

	// The frame background must land in the viewport center.
	c := dst.RGBAAt(960, 540)
	if c.R < 0xf0 || c.G > 0x20 || c.B > 0x20 {
		t.Errorf("expected red background at viewport center, got %+v", c)
	}
}

func TestPaintRejectsUnknownKind(t *testing.T) {
	frame := &canvas.Frame{
		ID:     "f1",
		Width:  100,
		Height: 100,
		Elements: []*canvas.Element{
			{ID: "e1", Kind: canvas.ElementKind("hologram")},
		},
	}

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	err := Paint(frame, camera.Identity, Viewport{Width: 100, Height: 100}, NewRaster(dst, nil))
	if err == nil {
		t.Error("unknown element kind must fail, not skip")
	}
}

func TestElementPositionIsFrameRelative(t *testing.T) {
	doc := canvas.NewDocument("offsets")
	id, _ := doc.AddFrame(canvas.FrameSpec{
		Position:        geom.Point{X: 100, Y: 100},
		Width:           200,
		Height:          200,
		BackgroundColor: "#ffffff",
	})
	doc.AddElement(id, canvas.Element{
		Kind:     canvas.KindShape,
		Content:  string(canvas.ShapeRect),
		Position: geom.Point{X: 50, Y: 50},
		Size:     geom.Size{Width: 20, Height: 20},
		Shape:    &canvas.ShapeStyle{Fill: "#0000ff"},
	})

	frame, _ := doc.Frame(id)
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))

	// Identity camera: element canvas pos = frame origin + local offset
	// = (150, 150).
	if err := Paint(frame, camera.Identity, Viewport{Width: 400, Height: 400}, NewRaster(dst, nil)); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}

	if c := dst.RGBAAt(160, 160); c.B < 0xf0 {
		t.Errorf("expected blue element at (160,160), got %+v", c)
	}
	if c := dst.RGBAAt(130, 130); c.B > 0x20 && c.R < 0xf0 {
		t.Errorf("element painted outside its rect at (130,130): %+v", c)
	}
}

func TestImageResolverIsUsed(t *testing.T) {
	doc, id := solidFrameDoc(t)
	doc.AddElement(id, canvas.Element{
		Kind:     canvas.KindImage,
		Content:  "banner",
		Position: geom.Point{X: 0, Y: 0},
		Size:     geom.Size{Width: 640, Height: 360},
	})
	frame, _ := doc.Frame(id)

	resolved := false
	resolve := func(ref string) (image.Image, error) {
		if ref != "banner" {
			return nil, fmt.Errorf("unexpected ref %q", ref)
		}
		resolved = true
		src := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := range src.Pix {
			src.Pix[i] = 0xff
		}
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, 800, 600))
	cam := camera.ComputeFit(frame.Bounds(), 800, 600, camera.DefaultFitOptions)
	if err := Paint(frame, cam, Viewport{Width: 800, Height: 600}, NewRaster(dst, resolve)); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}
	if !resolved {
		t.Error("image resolver was never called")
	}
}

func TestParseColor(t *testing.T) {
	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}

	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 0xff, A: 0xff}},
		{"#0f0", color.RGBA{G: 0xff, A: 0xff}},
		{"#336699", color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}},
		{"", fallback},
		{"red", fallback},
		{"#12345", fallback},
	}

	for _, tt := range tests {
		if got := parseColor(tt.in, fallback); got != tt.want {
			t.Errorf("parseColor(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}
}

func TestSnapshotDeckWritesAllFrames(t *testing.T) {
	doc := canvas.NewDocument("snapshots")
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := doc.AddFrame(canvas.FrameSpec{
			Position:        geom.Point{X: float64(i) * 700},
			Width:           640,
			Height:          360,
			BackgroundColor: "#ffffff",
		})
		if err != nil {
			t.Fatalf("AddFrame failed: %v", err)
		}
		ids = append(ids, id)
	}

	dir := filepath.Join(t.TempDir(), "slides")
	if err := SnapshotDeck(context.Background(), doc, dir, Viewport{Width: 320, Height: 180}, camera.FitOptions{}, nil); err != nil {
		t.Fatalf("SnapshotDeck failed: %v", err)
	}

	for _, id := range ids {
		path := filepath.Join(dir, id+".png")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing snapshot %s: %v", path, err)
		}
	}
}

func TestSnapshotFrameNotFound(t *testing.T) {
	doc := canvas.NewDocument("empty")
	if _, err := SnapshotFrame(doc, "ghost", Viewport{Width: 100, Height: 100}, camera.FitOptions{}, nil); err == nil {
		t.Error("snapshot of unknown frame must fail")
	}
}

// internal/surface/text_test.go
package surface

import (
	"image/color"
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestTextRenderer_MeasurePadsAndCountsLines(t *testing.T) {
	tr := NewTextRenderer(basicfont.Face7x13, 640)

	w, h := tr.Measure("abcd")
	if w != 4*7+TextPadX {
		t.Fatalf("width = %d, want %d", w, 4*7+TextPadX)
	}
	if h != 13+TextPadY {
		t.Fatalf("height = %d, want %d", h, 13+TextPadY)
	}

	_, h2 := tr.Measure("abcd\nef")
	if h2 != 2*13+TextPadY {
		t.Fatalf("two-line height = %d, want %d", h2, 2*13+TextPadY)
	}
}

func TestTextRenderer_WidthCappedAtScreen(t *testing.T) {
	tr := NewTextRenderer(basicfont.Face7x13, 100)
	w, _ := tr.Measure("this line is far too long for a hundred pixel screen")
	if w != 100 {
		t.Fatalf("width = %d, want 100", w)
	}
}

func TestTextRenderer_RenderSize(t *testing.T) {
	tr := NewTextRenderer(basicfont.Face7x13, 320)
	img := tr.Render("hello", color.RGBA{R: 255, G: 255, B: 255, A: 255})

	_, h := tr.Measure("hello")
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != h {
		t.Fatalf("image size = %v, want 320x%d", img.Bounds().Size(), h)
	}
	// corners outside the centred box stay transparent
	if img.RGBAAt(0, 0).A != 0 {
		t.Fatalf("expected transparent margin")
	}
}

// internal/surface/text.go
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Padding added around measured text, in pixels (total, both sides).
const (
	TextPadX = 60
	TextPadY = 40
)

// GoRegular loads the Go Regular face at the given point size. The face
// may be shared between goroutines.
func GoRegular(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("surface: parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("surface: font face: %w", err)
	}
	return Synchronized(face), nil
}

// TextRenderer measures and draws boxed, shadowed text. Images are as
// wide as the screen with the box centred horizontally.
type TextRenderer struct {
	face       font.Face
	width      int
	shadow     int
	background color.RGBA
}

func NewTextRenderer(face font.Face, screenWidth int) *TextRenderer {
	return &TextRenderer{
		face:       face,
		width:      screenWidth,
		shadow:     shadowFor(face),
		background: color.RGBA{R: 20, G: 20, B: 20, A: 128},
	}
}

// Face returns the font face used for drawing.
func (t *TextRenderer) Face() font.Face { return t.face }

// Measure returns the padded box size for text. Lines split on '\n'.
func (t *TextRenderer) Measure(text string) (w, h int) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		if lw := font.MeasureString(t.face, line).Ceil(); lw > w {
			w = lw
		}
	}
	w += TextPadX
	if w > t.width {
		w = t.width
	}
	h = t.lineHeight()*len(lines) + TextPadY
	return w, h
}

// Render draws text in fg on a translucent box. The image height is
// exactly the measured box height.
func (t *TextRenderer) Render(text string, fg color.RGBA) *image.RGBA {
	w, h := t.Measure(text)
	img := image.NewRGBA(image.Rect(0, 0, t.width, h))

	x := (t.width - w) / 2
	draw.Draw(img, image.Rect(x, 0, x+w, h), image.NewUniform(t.background), image.Point{}, draw.Src)

	ascent := t.face.Metrics().Ascent.Ceil()
	for i, line := range strings.Split(text, "\n") {
		pt := image.Pt(x+TextPadX/2, TextPadY/2+ascent+i*t.lineHeight())
		DrawShadowed(img, t.face, pt, line, fg, t.shadow)
	}
	return img
}

func (t *TextRenderer) lineHeight() int {
	return t.face.Metrics().Height.Ceil()
}

// DrawShadowed draws s with its baseline origin at pt, outlined by a
// black shadow offset r pixels in each direction.
func DrawShadowed(dst draw.Image, face font.Face, pt image.Point, s string, fg color.RGBA, r int) {
	shadow := image.NewUniform(color.RGBA{A: 255})
	if r > 0 {
		for _, off := range []image.Point{{0, -r}, {r, 0}, {0, r}, {-r, 0}} {
			drawString(dst, face, pt.Add(off), s, shadow)
		}
	}
	drawString(dst, face, pt, s, image.NewUniform(fg))
}

func drawString(dst draw.Image, face font.Face, pt image.Point, s string, src image.Image) {
	d := font.Drawer{
		Dst:  dst,
		Src:  src,
		Face: face,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	d.DrawString(s)
}

// shadowFor scales the shadow offset with the font height (3px at 35pt).
func shadowFor(face font.Face) int {
	r := face.Metrics().Height.Ceil() / 12
	if r < 1 {
		r = 1
	}
	return r
}

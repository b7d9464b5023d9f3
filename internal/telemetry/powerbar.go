// internal/telemetry/powerbar.go
package telemetry

import (
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"

	"github.com/tamzrod/bikedash/internal/surface"
)

// PowerBar is the goal-centred bar chart. Goal ± Range spans the bar;
// Goal ± Ideal is the green band.
type PowerBar struct {
	Goal  int `yaml:"goal"`
	Range int `yaml:"range"`
	Ideal int `yaml:"ideal"`
}

// Zone is where a power value sits relative to the ideal band.
type Zone uint8

const (
	ZoneIdeal Zone = iota
	ZoneUnder
	ZoneOver
)

var (
	underColor = color.RGBA{R: 207, G: 16, B: 26, A: 255}
	idealColor = color.RGBA{R: 31, G: 160, B: 70, A: 255}
	overColor  = color.RGBA{R: 239, G: 122, B: 0, A: 255}
	white      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black      = color.RGBA{A: 255}
)

const (
	barSpacing = 20 // room for labels above and below the bar
	barLeft    = 75
	barRight   = 125
)

func (p PowerBar) Zone(watts int) Zone {
	switch {
	case watts < p.Goal-p.Ideal:
		return ZoneUnder
	case watts > p.Goal+p.Ideal:
		return ZoneOver
	default:
		return ZoneIdeal
	}
}

// BarGeometry is the vertical layout of the bar for one value.
type BarGeometry struct {
	Marker      int // y of the current value
	Mid         int // y of the goal
	IdealTop    int
	IdealBottom int
}

// Geometry lays the bar out in a region of the given height. Values
// outside Goal ± Range pin the marker to the bar ends.
func (p PowerBar) Geometry(watts, height int) BarGeometry {
	barHeight := height - 2*barSpacing
	full := 2 * p.Range
	if full <= 0 {
		full = 1
	}
	clamped := clamp(watts, p.Goal-p.Range, p.Goal+p.Range)
	mid := barHeight/2 + barSpacing
	ideal := p.Ideal * barHeight / full
	return BarGeometry{
		Marker:      (p.Goal+p.Range-clamped)*barHeight/full + barSpacing,
		Mid:         mid,
		IdealTop:    mid - ideal,
		IdealBottom: mid + ideal,
	}
}

// Render draws the bar into a w×h image. known=false draws the band
// and goal only, with "--" as the value.
func (p PowerBar) Render(face font.Face, w, h, watts int, known bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	g := p.Geometry(watts, h)
	shadow := shadowFor(face)

	fill(img, image.Rect(barLeft, g.IdealTop, barRight, g.IdealBottom), idealColor)
	drawLabel(img, face, image.Pt(0, g.Mid-barSpacing), strconv.Itoa(p.Goal), white, shadow)

	if !known {
		drawLabel(img, face, image.Pt(barRight+15, g.Mid-barSpacing), "--", white, shadow)
		return img
	}

	switch p.Zone(watts) {
	case ZoneUnder:
		fill(img, image.Rect(barLeft, g.IdealBottom, barRight, g.Marker), underColor)
	case ZoneOver:
		fill(img, image.Rect(barLeft, g.Marker, barRight, g.IdealTop), overColor)
	}
	fill(img, image.Rect(barLeft-5, g.Marker-1, barRight+5, g.Marker+2), black)
	drawLabel(img, face, image.Pt(barRight+15, g.Marker-barSpacing), strconv.Itoa(watts), white, shadow)
	return img
}

func fill(img draw.Image, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Canon(), image.NewUniform(c), image.Point{}, draw.Src)
}

// drawLabel draws s with its top-left corner at pt.
func drawLabel(dst draw.Image, face font.Face, pt image.Point, s string, fg color.RGBA, shadow int) {
	baseline := pt.Add(image.Pt(0, face.Metrics().Ascent.Ceil()))
	surface.DrawShadowed(dst, face, baseline, s, fg, shadow)
}

func shadowFor(face font.Face) int {
	r := face.Metrics().Height.Ceil() / 12
	if r < 1 {
		r = 1
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

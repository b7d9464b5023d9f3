// internal/telemetry/display.go
package telemetry

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"

	"github.com/tamzrod/bikedash/internal/link"
	"github.com/tamzrod/bikedash/internal/surface"
)

// Widget sizes in pixels.
const (
	PowerW, PowerH = 320, 240
	GPSW, GPSH     = 400, 120
	HeartW, HeartH = 320, 80
	GearW, GearH   = 320, 80
	margin         = 20
)

var (
	changingColor = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	panelColor    = color.RGBA{R: 20, G: 20, B: 20, A: 128}
)

// Display owns the telemetry regions: power bar top left, heart rate
// and gear below it, speed and distance top right. Each draw call
// skips the surface when the rendered content would not change.
type Display struct {
	surf surface.Surface
	face font.Face
	bar  PowerBar

	power, gps, heart, gear surface.Region
	last                    map[surface.Region]string
}

// New adds the telemetry regions to surf, showing placeholders.
func New(surf surface.Surface, face font.Face, bar PowerBar, screenWidth int) (*Display, error) {
	d := &Display{
		surf: surf,
		face: face,
		bar:  bar,
		last: make(map[surface.Region]string),
	}

	var err error
	if d.power, err = surf.Add(bar.Render(face, PowerW, PowerH, 0, false), image.Pt(margin, margin)); err != nil {
		return nil, fmt.Errorf("telemetry: add power bar: %w", err)
	}
	if d.heart, err = surf.Add(d.panel(HeartW, HeartH, FormatHeartRate(0, false), white), image.Pt(margin, margin+PowerH)); err != nil {
		return nil, errors.Join(fmt.Errorf("telemetry: add heart rate: %w", err), d.Close())
	}
	if d.gear, err = surf.Add(d.panel(GearW, GearH, Placeholder, white), image.Pt(margin, margin+PowerH+HeartH)); err != nil {
		return nil, errors.Join(fmt.Errorf("telemetry: add gear: %w", err), d.Close())
	}
	if d.gps, err = surf.Add(d.gpsPanel(nil), image.Pt(screenWidth-GPSW-margin, margin)); err != nil {
		return nil, errors.Join(fmt.Errorf("telemetry: add speed: %w", err), d.Close())
	}
	return d, nil
}

// DrawPower redraws the power bar.
func (d *Display) DrawPower(watts int, known bool) error {
	key := Placeholder
	if known {
		key = fmt.Sprint(watts)
	}
	return d.update(d.power, key, func() *image.RGBA {
		return d.bar.Render(d.face, PowerW, PowerH, watts, known)
	})
}

// DrawSpeedAndDistance redraws the GPS panel; nil shows placeholders.
func (d *Display) DrawSpeedAndDistance(r *link.Reading) error {
	key := FormatSpeed(r) + "|" + FormatDistance(r)
	return d.update(d.gps, key, func() *image.RGBA { return d.gpsPanel(r) })
}

func (d *Display) DrawHeartRate(bpm int, known bool) error {
	text := FormatHeartRate(bpm, known)
	return d.update(d.heart, text, func() *image.RGBA {
		return d.panel(HeartW, HeartH, text, white)
	})
}

// DrawGear redraws the gear number; a changing gear is highlighted.
func (d *Display) DrawGear(gear int, changing bool) error {
	text := FormatGear(gear)
	fg := white
	key := text
	if changing {
		fg = changingColor
		key += "*"
	}
	return d.update(d.gear, key, func() *image.RGBA {
		return d.panel(GearW, GearH, text, fg)
	})
}

// Close removes every region.
func (d *Display) Close() error {
	var errs []error
	for _, r := range []surface.Region{d.power, d.heart, d.gear, d.gps} {
		if r == nil {
			continue
		}
		if err := d.surf.Remove(r); err != nil {
			errs = append(errs, err)
		}
	}
	d.power, d.heart, d.gear, d.gps = nil, nil, nil, nil
	return errors.Join(errs...)
}

func (d *Display) update(r surface.Region, key string, render func() *image.RGBA) error {
	if r == nil {
		return surface.ErrRemoved
	}
	if prev, ok := d.last[r]; ok && prev == key {
		return nil
	}
	if err := r.Update(render()); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	d.last[r] = key
	return nil
}

func (d *Display) panel(w, h int, text string, fg color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(panelColor), image.Point{}, draw.Src)
	top := (h - d.face.Metrics().Height.Ceil()) / 2
	drawLabel(img, d.face, image.Pt(margin, top), text, fg, shadowFor(d.face))
	return img
}

func (d *Display) gpsPanel(r *link.Reading) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, GPSW, GPSH))
	draw.Draw(img, img.Bounds(), image.NewUniform(panelColor), image.Point{}, draw.Src)
	lh := d.face.Metrics().Height.Ceil()
	top := (GPSH - 2*lh) / 2
	shadow := shadowFor(d.face)
	drawLabel(img, d.face, image.Pt(margin, top), FormatSpeed(r), white, shadow)
	drawLabel(img, d.face, image.Pt(margin, top+lh), FormatDistance(r), white, shadow)
	return img
}

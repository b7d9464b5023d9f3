// internal/telemetry/telemetry_test.go
package telemetry

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"

	"golang.org/x/image/font/basicfont"

	"github.com/tamzrod/bikedash/internal/clock"
	"github.com/tamzrod/bikedash/internal/link"
	"github.com/tamzrod/bikedash/internal/status"
	"github.com/tamzrod/bikedash/internal/surface"
)

var bar = PowerBar{Goal: 200, Range: 40, Ideal: 10}

func TestPowerBar_Geometry(t *testing.T) {
	tests := []struct {
		name   string
		watts  int
		marker int
	}{
		{"goal sits mid bar", 200, 120},
		{"top of range", 240, 20},
		{"bottom of range", 160, 220},
		{"clamped above", 500, 20},
		{"clamped below", 0, 220},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := bar.Geometry(tt.watts, PowerH)
			if g.Marker != tt.marker {
				t.Fatalf("marker = %d, want %d", g.Marker, tt.marker)
			}
			if g.Mid != 120 || g.IdealTop != 95 || g.IdealBottom != 145 {
				t.Fatalf("band = %+v", g)
			}
		})
	}
}

func TestPowerBar_Zone(t *testing.T) {
	tests := []struct {
		watts int
		want  Zone
	}{
		{189, ZoneUnder},
		{190, ZoneIdeal},
		{210, ZoneIdeal},
		{211, ZoneOver},
	}
	for _, tt := range tests {
		if got := bar.Zone(tt.watts); got != tt.want {
			t.Fatalf("Zone(%d) = %v, want %v", tt.watts, got, tt.want)
		}
	}
}

func TestPowerBar_RenderColours(t *testing.T) {
	face := basicfont.Face7x13

	img := bar.Render(face, PowerW, PowerH, 170, true)
	if got := img.RGBAAt(100, 180); got != underColor {
		t.Fatalf("under region colour = %v", got)
	}
	if got := img.RGBAAt(100, 120); got != idealColor {
		t.Fatalf("ideal band colour = %v", got)
	}

	img = bar.Render(face, PowerW, PowerH, 230, true)
	if got := img.RGBAAt(100, 60); got != overColor {
		t.Fatalf("over region colour = %v", got)
	}

	img = bar.Render(face, PowerW, PowerH, 0, false)
	if got := img.RGBAAt(100, 180); got.A != 0 {
		t.Fatalf("unknown power drew an under region: %v", got)
	}
}

func TestFormat(t *testing.T) {
	r := &link.Reading{SpeedMS: 12.3, DistanceM: 1234}
	if got := FormatSpeed(r); got != "44.3 km/h" {
		t.Fatalf("FormatSpeed = %q", got)
	}
	if got := FormatDistance(r); got != "1.2 km" {
		t.Fatalf("FormatDistance = %q", got)
	}
	if got := FormatSpeed(nil); got != "-- km/h" {
		t.Fatalf("FormatSpeed(nil) = %q", got)
	}
	if got := FormatDistance(nil); got != "-- km" {
		t.Fatalf("FormatDistance(nil) = %q", got)
	}
	if got := FormatHeartRate(0, false); got != "-- bpm" {
		t.Fatalf("FormatHeartRate unknown = %q", got)
	}
	if got := FormatHeartRate(123, true); got != "123 bpm" {
		t.Fatalf("FormatHeartRate = %q", got)
	}
}

// countingSurface wraps Noop and counts region updates.
type countingSurface struct {
	*surface.Noop
	updates int
	failAdd int
	adds    int
}

type countingRegion struct {
	surface.Region
	s *countingSurface
}

func (s *countingSurface) Add(img *image.RGBA, at image.Point) (surface.Region, error) {
	s.adds++
	if s.failAdd > 0 && s.adds == s.failAdd {
		return nil, surface.ErrRegionLimit
	}
	r, err := s.Noop.Add(img, at)
	if err != nil {
		return nil, err
	}
	return &countingRegion{Region: r, s: s}, nil
}

func (s *countingSurface) Remove(r surface.Region) error {
	return s.Noop.Remove(r.(*countingRegion).Region)
}

func (r *countingRegion) Update(img *image.RGBA) error {
	r.s.updates++
	return r.Region.Update(img)
}

func TestDisplay_SkipsUnchanged(t *testing.T) {
	surf := &countingSurface{Noop: surface.NewNoop()}
	d, err := New(surf, basicfont.Face7x13, bar, 1920)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if surf.Len() != 4 {
		t.Fatalf("regions = %d, want 4", surf.Len())
	}

	for i := 0; i < 5; i++ {
		if err := d.DrawPower(205, true); err != nil {
			t.Fatalf("DrawPower: %v", err)
		}
	}
	if surf.updates != 1 {
		t.Fatalf("updates = %d, want 1", surf.updates)
	}

	_ = d.DrawGear(3, true)
	_ = d.DrawGear(3, false)
	_ = d.DrawGear(3, false)
	if surf.updates != 3 {
		t.Fatalf("updates = %d, want 3", surf.updates)
	}

	_ = d.DrawSpeedAndDistance(nil)
	if surf.updates != 4 {
		t.Fatalf("first placeholder draw should update, updates = %d", surf.updates)
	}
	_ = d.DrawSpeedAndDistance(nil)
	_ = d.DrawSpeedAndDistance(&link.Reading{SpeedMS: 5})
	if surf.updates != 5 {
		t.Fatalf("updates = %d, want 5", surf.updates)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if surf.Len() != 0 {
		t.Fatalf("regions left = %d", surf.Len())
	}
	if err := d.DrawHeartRate(1, true); !errors.Is(err, surface.ErrRemoved) {
		t.Fatalf("draw after close = %v", err)
	}
}

func TestDisplay_AddFailureCleansUp(t *testing.T) {
	surf := &countingSurface{Noop: surface.NewNoop(), failAdd: 3}
	if _, err := New(surf, basicfont.Face7x13, bar, 1920); !errors.Is(err, surface.ErrRegionLimit) {
		t.Fatalf("New = %v, want ErrRegionLimit", err)
	}
	if surf.Len() != 0 {
		t.Fatalf("regions leaked: %d", surf.Len())
	}
}

// Sensor pairing messages are pushed from the radio's goroutines while
// the scheduler redraws widgets with the same face.
func TestDisplay_SharesFaceWithStatusPushes(t *testing.T) {
	face, err := surface.GoRegular(35)
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}
	surf := surface.NewNoop()

	msgs := status.New(status.Config{
		ScreenHeight:   1080,
		Padding:        10,
		MaxMessages:    4,
		DefaultTimeout: time.Minute,
	}, surf, status.TextRenderer{Text: surface.NewTextRenderer(face, 1920)}, clock.Fake(time.Unix(0, 0)), nil)
	msgs.Start()
	defer msgs.Stop()

	d, err := New(surf, face, bar, 1920)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := msgs.Push(fmt.Sprintf("Connected to Heart Rate (%d)", 1234+i), status.LevelInfo, 0); err != nil {
				t.Errorf("Push: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		if err := d.DrawPower(150+i, true); err != nil {
			t.Fatalf("DrawPower: %v", err)
		}
		if err := d.DrawHeartRate(100+i, true); err != nil {
			t.Fatalf("DrawHeartRate: %v", err)
		}
	}
	wg.Wait()

	if got := len(msgs.Messages()); got != 4 {
		t.Fatalf("live messages = %d, want 4", got)
	}
}

// cmd/dashpreview/main.go
//
// dashpreview renders the dashboard widgets and status messages into a
// desktop window so layouts can be checked without the bike hardware.
//
//	w / s       power +1 / -1 W
//	up / down   shift gear (shown as changing for one second)
//	space       toggle a GPS reading
//	m           push a status message
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/tamzrod/bikedash/internal/clock"
	"github.com/tamzrod/bikedash/internal/config"
	"github.com/tamzrod/bikedash/internal/link"
	"github.com/tamzrod/bikedash/internal/status"
	"github.com/tamzrod/bikedash/internal/surface"
	"github.com/tamzrod/bikedash/internal/telemetry"
)

func main() {
	var (
		width    int
		height   int
		fontSize float64
		scale    float64
	)
	pflag.IntVar(&width, "width", config.DefaultWidth, "canvas width")
	pflag.IntVar(&height, "height", config.DefaultHeight, "canvas height")
	pflag.Float64Var(&fontSize, "font-size", config.DefaultFontSize, "text size in points")
	pflag.Float64Var(&scale, "scale", 0.5, "window scale")
	pflag.Parse()

	log := hclog.New(&hclog.LoggerOptions{Name: "dashpreview", Level: hclog.Debug})

	face, err := surface.GoRegular(fontSize)
	if err != nil {
		log.Error("font", "error", err)
		os.Exit(1)
	}

	comp := surface.NewCompositor(width, height, 0, color.RGBA{A: 0xff}, nil)

	msgs := status.New(status.Config{
		ScreenHeight:   height,
		Padding:        config.DefaultPadding,
		MaxMessages:    config.DefaultMaxMessages,
		DefaultTimeout: config.DefaultTimeoutMs * time.Millisecond,
	}, comp, status.TextRenderer{Text: surface.NewTextRenderer(face, width)}, clock.Real(), log.Named("status"))
	msgs.Start()

	tel, err := telemetry.New(comp, face, telemetry.PowerBar{
		Goal:  config.DefaultPowerGoal,
		Range: config.DefaultPowerRange,
		Ideal: config.DefaultPowerIdeal,
	}, width)
	if err != nil {
		log.Error("widgets", "error", err)
		os.Exit(1)
	}

	g := &previewGame{
		comp:  comp,
		tel:   tel,
		msgs:  msgs,
		log:   log,
		power: config.DefaultPowerGoal,
		gear:  1,
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	ebiten.SetWindowTitle("bikedash preview")
	ebiten.SetWindowSize(int(float64(width)*scale), int(float64(height)*scale))
	ebiten.SetTPS(4)
	if err := ebiten.RunGame(g); err != nil {
		log.Error("window", "error", err)
		os.Exit(1)
	}
	_ = tel.Close()
	_ = msgs.Stop()
}

type previewGame struct {
	comp *surface.Compositor
	tel  *telemetry.Display
	msgs *status.Manager
	log  hclog.Logger

	power      int
	gear       int
	changingTo time.Time
	reading    *link.Reading
	pushed     int

	img   *image.RGBA
	frame *ebiten.Image
}

func (g *previewGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		g.power++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) && g.power > 0 {
		g.power--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.gear++
		g.changingTo = time.Now().Add(time.Second)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && g.gear > 1 {
		g.gear--
		g.changingTo = time.Now().Add(time.Second)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.reading == nil {
			g.reading = &link.Reading{SpeedMS: 12.3, DistanceM: 1234}
		} else {
			g.reading = nil
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.pushed++
		text := fmt.Sprintf("this is message %d\nanother line", g.pushed)
		if _, err := g.msgs.Push(text, status.LevelInfo, 0); err != nil {
			g.log.Warn("push failed", "error", err)
		}
	}

	if err := g.tel.DrawPower(g.power, true); err != nil {
		return err
	}
	if err := g.tel.DrawSpeedAndDistance(g.reading); err != nil {
		return err
	}
	if err := g.tel.DrawHeartRate(0, false); err != nil {
		return err
	}
	return g.tel.DrawGear(g.gear, time.Now().Before(g.changingTo))
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	b := g.img.Bounds()
	if g.frame == nil {
		g.frame = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.comp.Snapshot(g.img)
	g.frame.WritePixels(g.img.Pix)
	screen.DrawImage(g.frame, nil)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := g.img.Bounds()
	return b.Dx(), b.Dy()
}

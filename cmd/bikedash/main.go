// cmd/bikedash/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	"github.com/tamzrod/bikedash/internal/button"
	"github.com/tamzrod/bikedash/internal/clock"
	"github.com/tamzrod/bikedash/internal/config"
	"github.com/tamzrod/bikedash/internal/dashboard"
	"github.com/tamzrod/bikedash/internal/gpsd"
	"github.com/tamzrod/bikedash/internal/health"
	"github.com/tamzrod/bikedash/internal/link"
	"github.com/tamzrod/bikedash/internal/link/serial"
	"github.com/tamzrod/bikedash/internal/sensor"
	"github.com/tamzrod/bikedash/internal/status"
	"github.com/tamzrod/bikedash/internal/surface"
	"github.com/tamzrod/bikedash/internal/surface/fbdev"
	"github.com/tamzrod/bikedash/internal/telemetry"
	"github.com/tamzrod/bikedash/internal/thermal"
	"github.com/tamzrod/bikedash/internal/writer"
)

func main() {
	var (
		cfgPath  string
		logLevel string
		headless bool
	)
	pflag.StringVarP(&cfgPath, "config", "c", "", "path to the YAML config (defaults apply when empty)")
	pflag.StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error")
	pflag.BoolVar(&headless, "headless", false, "run without a display device")
	pflag.Parse()

	log := hclog.New(&hclog.LoggerOptions{
		Name:   "bikedash",
		Level:  hclog.LevelFromString(logLevel),
		Output: os.Stderr,
	})

	if err := run(cfgPath, headless, log); err != nil {
		log.Error("exiting", "error", err)
		os.Exit(1)
	}
}

func run(cfgPath string, headless bool, log hclog.Logger) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	d := cfg.Dashboard

	clk := clock.Real()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Display
	// --------------------

	surf, flush := openSurface(d.Display, headless, log)

	face, err := surface.GoRegular(d.Display.FontSize)
	if err != nil {
		return err
	}
	text := surface.NewTextRenderer(face, d.Display.Width)

	msgs := status.New(status.Config{
		ScreenHeight:   d.Display.Height,
		Padding:        d.Status.Padding,
		MaxMessages:    d.Status.MaxMessages,
		DefaultTimeout: ms(d.Status.TimeoutMs),
	}, surf, status.TextRenderer{Text: text}, clk, log.Named("status"))
	msgs.Start()

	tel, err := telemetry.New(surf, face, telemetry.PowerBar{
		Goal:  d.Power.Goal,
		Range: d.Power.Range,
		Ideal: d.Power.Ideal,
	}, d.Display.Width)
	if err != nil {
		return err
	}

	// --------------------
	// Sensors
	// --------------------

	hub := sensor.NewHub(sensor.Config{
		HeartRate:      d.Sensors.HeartRate.Enabled,
		HeartRatePair:  pairing(d.Sensors.HeartRate.Pairing),
		Power:          d.Sensors.Power.Enabled,
		PowerPair:      pairing(d.Sensors.Power.Pairing),
		CrankLengthMM:  d.Sensors.CrankLengthMM,
		MessageTimeout: ms(d.Status.TimeoutMs),
	}, sensor.Absent{}, msgs, log.Named("sensor"))
	if d.Sensors.HeartRate.Enabled || d.Sensors.Power.Enabled {
		if err := hub.Start(); err != nil {
			log.Warn("sensors unavailable", "error", err)
		}
	}

	// --------------------
	// Device links
	// --------------------

	gpsClient := gpsd.New(gpsd.Config{
		Address: d.GPS.Address,
		Timeout: ms(d.GPS.TimeoutMs),
	}, log.Named("gps"))
	gps := link.NewGPS(gpsClient, link.Coordinate{Lat: d.GPS.Finish.Lat, Lon: d.GPS.Finish.Lon})

	var gear dashboard.GearLink
	if d.Gear.Port != "" {
		gear = link.NewGear(serial.Opener(serial.Config{
			Address:     d.Gear.Port,
			BaudRate:    d.Gear.BaudRate,
			ReadTimeout: ms(d.Gear.ReadTimeoutMs),
		}), link.GearConfig{ReconnectEvery: d.Gear.ReconnectTicks}, log.Named("gear"))
	}

	var btn button.Input = button.None{}
	if d.Button.Pin != "" {
		b, err := button.OpenGPIO(d.Button.Pin)
		if err != nil {
			log.Warn("shutdown button unavailable", "pin", d.Button.Pin, "error", err)
		} else {
			btn = b
		}
	}

	// --------------------
	// Health mirror (optional)
	// --------------------

	cleanup := []dashboard.Step{
		{Name: "close gps daemon", Run: func(context.Context) error { return gpsClient.Close() }},
	}

	var mirror *health.Mirror
	if m := d.HealthMirror; m != nil {
		writers, closeWriters, err := writer.Build(*m)
		if err != nil {
			return fmt.Errorf("health mirror: %w", err)
		}
		mirror = health.NewMirror(log.Named("health"))
		for _, l := range m.Links {
			mirror.Add(l.Name, writers[l.Name])
		}
		cleanup = append(cleanup, dashboard.Step{
			Name: "close health mirror",
			Run:  func(context.Context) error { return closeWriters() },
		})
	}

	cleanup = append(cleanup, dashboard.Step{
		Name: "close display",
		Run:  func(context.Context) error { return surf.Close() },
	})

	// --------------------
	// Control loop
	// --------------------

	dash, err := dashboard.New(dashboard.Config{
		Tick:           ms(d.Schedule.TickMs),
		GPSGraceTicks:  uint64(d.GPS.GraceTicks),
		Thermal:        thermal.Thresholds{WarnC: d.Thermal.WarnC, BadC: d.Thermal.BadC},
		MessageTimeout: ms(d.Status.TimeoutMs),
		AckTimeout:     ms(d.Gear.AckTimeoutMs),
		MaxFailures:    d.Shutdown.MaxFailures,
	}, dashboard.Deps{
		Status:    msgs,
		Telemetry: tel,
		Sensors:   hub,
		GPS:       gps,
		Gear:      gear,
		Thermal:   thermal.Zone{Path: d.Thermal.Zone},
		Button:    btn,
		Mirror:    mirror,
		Flush:     flush,
		Cleanup:   cleanup,
	}, clk, log)
	if err != nil {
		return err
	}

	requested, err := dash.Run(ctx)
	if err != nil {
		return err
	}
	log.Info("done")

	if requested && len(d.Shutdown.PowerOffCommand) > 0 {
		cmd := exec.Command(d.Shutdown.PowerOffCommand[0], d.Shutdown.PowerOffCommand[1:]...)
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("power off: %w", err)
		}
	}
	return nil
}

// openSurface returns the compositor on the framebuffer, or a no-op
// surface when there is no display. flush is nil for the no-op surface.
func openSurface(cfg config.DisplayConfig, headless bool, log hclog.Logger) (surface.Surface, func() error) {
	if headless || cfg.Framebuffer == "" {
		log.Info("running without a display")
		return surface.NewNoop(), nil
	}

	fb, err := fbdev.Open(cfg.Framebuffer, cfg.Width, cfg.Height, cfg.BitsPerPixel)
	if err != nil {
		log.Warn("display unavailable, running without one", "error", err)
		return surface.NewNoop(), nil
	}

	comp := surface.NewCompositor(cfg.Width, cfg.Height, 0, color.RGBA{}, fb)
	return &closingSurface{Compositor: comp, fb: fb}, comp.Flush
}

// closingSurface releases the framebuffer after the final blank frame.
type closingSurface struct {
	*surface.Compositor
	fb *fbdev.Device
}

func (s *closingSurface) Close() error {
	return errors.Join(s.Compositor.Close(), s.fb.Close())
}

func pairing(p *config.PairingConfig) *sensor.ChannelID {
	if p == nil {
		return nil
	}
	return &sensor.ChannelID{
		DeviceNumber:     p.DeviceNumber,
		DeviceType:       p.DeviceType,
		TransmissionType: p.TransmissionType,
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

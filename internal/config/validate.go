// internal/config/validate.go
package config

import (
	"fmt"
)

// Known device links for the health mirror.
var mirrorLinks = map[string]bool{"gear": true, "gps": true}

// Validate checks configuration correctness.
// It performs declarative validation only. Zero values mean "default".
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	d := &cfg.Dashboard

	// ------------------------------------------------------------
	// DISPLAY
	// ------------------------------------------------------------

	if d.Display.Width < 0 || d.Display.Height < 0 {
		return fmt.Errorf("display: size %dx%d must not be negative", d.Display.Width, d.Display.Height)
	}
	if d.Display.Width > 32767 || d.Display.Height > 32767 {
		return fmt.Errorf("display: size %dx%d exceeds 32767", d.Display.Width, d.Display.Height)
	}
	switch d.Display.BitsPerPixel {
	case 0, 16, 32:
	default:
		return fmt.Errorf("display: bits_per_pixel must be 16 or 32, got %d", d.Display.BitsPerPixel)
	}
	if d.Display.FontSize < 0 {
		return fmt.Errorf("display: font_size must not be negative")
	}

	// ------------------------------------------------------------
	// STATUS + SCHEDULE
	// ------------------------------------------------------------

	if d.Status.Padding < 0 || d.Status.MaxMessages < 0 || d.Status.TimeoutMs < 0 {
		return fmt.Errorf("status: padding, max_messages and timeout_ms must not be negative")
	}
	if d.Schedule.TickMs < 0 {
		return fmt.Errorf("schedule: tick_ms must not be negative")
	}

	// ------------------------------------------------------------
	// POWER BAR
	// ------------------------------------------------------------

	if d.Power.Goal < 0 || d.Power.Range < 0 || d.Power.Ideal < 0 {
		return fmt.Errorf("power: goal, range and ideal must not be negative")
	}
	if d.Power.Range > 0 && d.Power.Ideal > d.Power.Range {
		return fmt.Errorf("power: ideal (%d) must not exceed range (%d)", d.Power.Ideal, d.Power.Range)
	}

	// ------------------------------------------------------------
	// GPS
	// ------------------------------------------------------------

	if d.GPS.TimeoutMs < 0 || d.GPS.GraceTicks < 0 {
		return fmt.Errorf("gps: timeout_ms and grace_ticks must not be negative")
	}
	if f := d.GPS.Finish; f != nil {
		if f.Lat < -90 || f.Lat > 90 || f.Lon < -180 || f.Lon > 180 {
			return fmt.Errorf("gps: finish %v,%v out of range", f.Lat, f.Lon)
		}
	}

	// ------------------------------------------------------------
	// GEAR
	// ------------------------------------------------------------

	if d.Gear.BaudRate < 0 || d.Gear.ReadTimeoutMs < 0 || d.Gear.ReconnectTicks < 0 || d.Gear.AckTimeoutMs < 0 {
		return fmt.Errorf("gear: baud_rate, read_timeout_ms, reconnect_ticks and ack_timeout_ms must not be negative")
	}

	// ------------------------------------------------------------
	// SENSORS + THERMAL + SHUTDOWN
	// ------------------------------------------------------------

	if d.Sensors.CrankLengthMM < 0 {
		return fmt.Errorf("sensors: crank_length_mm must not be negative")
	}
	if d.Thermal.WarnC != 0 && d.Thermal.BadC != 0 && d.Thermal.WarnC > d.Thermal.BadC {
		return fmt.Errorf("thermal: warn_c (%v) above bad_c (%v)", d.Thermal.WarnC, d.Thermal.BadC)
	}
	if d.Shutdown.MaxFailures < 0 {
		return fmt.Errorf("shutdown: max_failures must not be negative")
	}

	// ------------------------------------------------------------
	// HEALTH MIRROR (OPT-IN)
	// ------------------------------------------------------------

	m := d.HealthMirror
	if m == nil {
		return nil
	}
	if m.Endpoint == "" {
		return fmt.Errorf("health_mirror: endpoint required")
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("health_mirror: timeout_ms must not be negative")
	}
	if len(m.Links) == 0 {
		return fmt.Errorf("health_mirror: at least one link required")
	}

	names := make(map[string]bool)
	slots := make(map[uint16]string)
	for _, l := range m.Links {
		if !mirrorLinks[l.Name] {
			return fmt.Errorf("health_mirror: unknown link %q", l.Name)
		}
		if names[l.Name] {
			return fmt.Errorf("health_mirror: link %q listed twice", l.Name)
		}
		names[l.Name] = true

		if prev, exists := slots[l.Slot]; exists {
			return fmt.Errorf("health_mirror: slot %d used by links %q and %q", l.Slot, prev, l.Name)
		}
		slots[l.Slot] = l.Name

		// block address must fit 16 bits
		if (uint32(l.Slot)+1)*20 > 65536 {
			return fmt.Errorf("health_mirror: slot %d out of range", l.Slot)
		}
	}
	return nil
}

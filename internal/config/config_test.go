// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
dashboard:
  display:
    framebuffer: /dev/fb0
    bits_per_pixel: 16
  power:
    goal: 250
  gear:
    port: /dev/ttyACM0
  sensors:
    heart_rate:
      enabled: true
      pairing:
        device_number: 18029
        device_type: 120
        transmission_type: 1
    power:
      enabled: true
  shutdown:
    power_off_command: ["sudo", "poweroff"]
  health_mirror:
    endpoint: 127.0.0.1:1502
    unit_id: 1
    links:
      - name: gear
        slot: 0
      - name: gps
        slot: 1
`

func TestLoad_ValidateNormalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bikedash.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	Normalize(cfg)

	d := cfg.Dashboard
	if d.Display.Width != 1920 || d.Display.Height != 1080 || d.Display.BitsPerPixel != 16 {
		t.Fatalf("display = %+v", d.Display)
	}
	if d.Power.Goal != 250 || d.Power.Range != 40 || d.Power.Ideal != 10 {
		t.Fatalf("power = %+v", d.Power)
	}
	if d.Schedule.TickMs != 250 || d.Status.MaxMessages != 4 || d.Status.Padding != 10 {
		t.Fatalf("defaults not applied: %+v %+v", d.Schedule, d.Status)
	}
	if d.GPS.Finish == nil || d.GPS.Finish.Lat != DefaultFinishLat {
		t.Fatalf("finish = %+v", d.GPS.Finish)
	}
	if p := d.Sensors.HeartRate.Pairing; p == nil || p.DeviceNumber != 18029 || p.DeviceType != 120 {
		t.Fatalf("pairing = %+v", p)
	}
	if d.Sensors.Power.Pairing != nil {
		t.Fatalf("power should search")
	}
	if d.HealthMirror.TimeoutMs != DefaultMirrorTimeoutMs {
		t.Fatalf("mirror timeout = %d", d.HealthMirror.TimeoutMs)
	}
	if strings.Join(d.Shutdown.PowerOffCommand, " ") != "sudo poweroff" {
		t.Fatalf("power off = %v", d.Shutdown.PowerOffCommand)
	}
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	Normalize(cfg)
	if cfg.Dashboard.Thermal.WarnC != 80 || cfg.Dashboard.Thermal.BadC != 90 {
		t.Fatalf("thermal = %+v", cfg.Dashboard.Thermal)
	}
	if cfg.Dashboard.HealthMirror != nil {
		t.Fatalf("mirror should stay disabled")
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("dashboard:\n  displya: {}\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestNormalize_ClampsWarnToBad(t *testing.T) {
	cfg := &Config{Dashboard: DashboardConfig{Thermal: ThermalConfig{BadC: 70}}}
	Normalize(cfg)
	if cfg.Dashboard.Thermal.WarnC != 70 {
		t.Fatalf("warn = %v, want 70", cfg.Dashboard.Thermal.WarnC)
	}
}

func TestValidate_Errors(t *testing.T) {
	mirror := func(links ...MirrorLinkConfig) *HealthMirrorConfig {
		return &HealthMirrorConfig{Endpoint: "ep", Links: links}
	}

	tests := []struct {
		name string
		cfg  DashboardConfig
		want string
	}{
		{"bad bpp", DashboardConfig{Display: DisplayConfig{BitsPerPixel: 24}}, "bits_per_pixel"},
		{"negative size", DashboardConfig{Display: DisplayConfig{Width: -1}}, "negative"},
		{"ideal above range", DashboardConfig{Power: PowerConfig{Range: 10, Ideal: 20}}, "ideal"},
		{"finish out of range", DashboardConfig{GPS: GPSConfig{Finish: &LatLonConfig{Lat: 91}}}, "finish"},
		{"warn above bad", DashboardConfig{Thermal: ThermalConfig{WarnC: 95, BadC: 90}}, "warn_c"},
		{"mirror without endpoint", DashboardConfig{HealthMirror: &HealthMirrorConfig{}}, "endpoint"},
		{"mirror without links", DashboardConfig{HealthMirror: mirror()}, "at least one link"},
		{"unknown link", DashboardConfig{HealthMirror: mirror(MirrorLinkConfig{Name: "radio"})}, "unknown link"},
		{"duplicate link", DashboardConfig{HealthMirror: mirror(
			MirrorLinkConfig{Name: "gear", Slot: 0},
			MirrorLinkConfig{Name: "gear", Slot: 1},
		)}, "twice"},
		{"slot collision", DashboardConfig{HealthMirror: mirror(
			MirrorLinkConfig{Name: "gear", Slot: 2},
			MirrorLinkConfig{Name: "gps", Slot: 2},
		)}, "slot 2"},
		{"slot out of range", DashboardConfig{HealthMirror: mirror(MirrorLinkConfig{Name: "gps", Slot: 4000})}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&Config{Dashboard: tt.cfg})
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

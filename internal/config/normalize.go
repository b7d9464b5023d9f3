// internal/config/normalize.go
package config

// Defaults. The power, finish and thermal values match the rider's
// race setup; everything else suits a Raspberry Pi with an HDMI panel.
const (
	DefaultWidth        = 1920
	DefaultHeight       = 1080
	DefaultBitsPerPixel = 32
	DefaultFontSize     = 35

	DefaultPadding     = 10
	DefaultMaxMessages = 4
	DefaultTimeoutMs   = 10000

	DefaultTickMs = 250

	DefaultPowerGoal  = 200
	DefaultPowerRange = 40
	DefaultPowerIdeal = 10

	DefaultGPSAddress    = "127.0.0.1:2947"
	DefaultGPSTimeoutMs  = 1000
	DefaultGPSGraceTicks = 40
	DefaultFinishLat     = 40.4676639
	DefaultFinishLon     = -117.06286

	DefaultBaudRate          = 115200
	DefaultGearReadTimeoutMs = 10
	DefaultReconnectTicks    = 40
	DefaultAckTimeoutMs      = 500

	DefaultCrankLengthMM = 140.0

	DefaultWarnC = 80
	DefaultBadC  = 90

	DefaultMaxFailures = 3

	DefaultMirrorTimeoutMs = 500
)

// Normalize applies defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	d := &cfg.Dashboard

	setInt(&d.Display.Width, DefaultWidth)
	setInt(&d.Display.Height, DefaultHeight)
	setInt(&d.Display.BitsPerPixel, DefaultBitsPerPixel)
	setFloat(&d.Display.FontSize, DefaultFontSize)

	setInt(&d.Status.Padding, DefaultPadding)
	setInt(&d.Status.MaxMessages, DefaultMaxMessages)
	setInt(&d.Status.TimeoutMs, DefaultTimeoutMs)

	setInt(&d.Schedule.TickMs, DefaultTickMs)

	setInt(&d.Power.Goal, DefaultPowerGoal)
	setInt(&d.Power.Range, DefaultPowerRange)
	setInt(&d.Power.Ideal, DefaultPowerIdeal)
	if d.Power.Ideal > d.Power.Range {
		d.Power.Ideal = d.Power.Range
	}

	if d.GPS.Address == "" {
		d.GPS.Address = DefaultGPSAddress
	}
	setInt(&d.GPS.TimeoutMs, DefaultGPSTimeoutMs)
	setInt(&d.GPS.GraceTicks, DefaultGPSGraceTicks)
	if d.GPS.Finish == nil {
		d.GPS.Finish = &LatLonConfig{Lat: DefaultFinishLat, Lon: DefaultFinishLon}
	}

	setInt(&d.Gear.BaudRate, DefaultBaudRate)
	setInt(&d.Gear.ReadTimeoutMs, DefaultGearReadTimeoutMs)
	setInt(&d.Gear.ReconnectTicks, DefaultReconnectTicks)
	setInt(&d.Gear.AckTimeoutMs, DefaultAckTimeoutMs)

	setFloat(&d.Sensors.CrankLengthMM, DefaultCrankLengthMM)

	setFloat(&d.Thermal.WarnC, DefaultWarnC)
	setFloat(&d.Thermal.BadC, DefaultBadC)
	if d.Thermal.WarnC > d.Thermal.BadC {
		d.Thermal.WarnC = d.Thermal.BadC
	}

	setInt(&d.Shutdown.MaxFailures, DefaultMaxFailures)

	if m := d.HealthMirror; m != nil {
		setInt(&m.TimeoutMs, DefaultMirrorTimeoutMs)
	}
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setFloat(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

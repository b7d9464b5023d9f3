// internal/config/config.go
package config

type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
}

type DashboardConfig struct {
	Display      DisplayConfig       `yaml:"display"`
	Status       StatusConfig        `yaml:"status"`
	Schedule     ScheduleConfig      `yaml:"schedule"`
	Power        PowerConfig         `yaml:"power"`
	GPS          GPSConfig           `yaml:"gps"`
	Gear         GearConfig          `yaml:"gear"`
	Sensors      SensorsConfig       `yaml:"sensors"`
	Thermal      ThermalConfig       `yaml:"thermal"`
	Button       ButtonConfig        `yaml:"button"`
	Shutdown     ShutdownConfig      `yaml:"shutdown"`
	HealthMirror *HealthMirrorConfig `yaml:"health_mirror"` // optional
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Framebuffer  string  `yaml:"framebuffer"` // empty = no display device
	BitsPerPixel int     `yaml:"bits_per_pixel"`
	FontSize     float64 `yaml:"font_size"`
}

// ---- STATUS MESSAGES ----

type StatusConfig struct {
	Padding     int `yaml:"padding"`
	MaxMessages int `yaml:"max_messages"`
	TimeoutMs   int `yaml:"timeout_ms"`
}

// ---- SCHEDULER ----

type ScheduleConfig struct {
	TickMs int `yaml:"tick_ms"`
}

// ---- POWER BAR ----

type PowerConfig struct {
	Goal  int `yaml:"goal"`
	Range int `yaml:"range"`
	Ideal int `yaml:"ideal"`
}

// ---- GPS ----

type GPSConfig struct {
	Address    string        `yaml:"address"`
	TimeoutMs  int           `yaml:"timeout_ms"`
	GraceTicks int           `yaml:"grace_ticks"`
	Finish     *LatLonConfig `yaml:"finish"`
}

type LatLonConfig struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// ---- GEAR SHIFTER ----

type GearConfig struct {
	Port           string `yaml:"port"` // empty = no gear shifter
	BaudRate       int    `yaml:"baud_rate"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	ReconnectTicks int    `yaml:"reconnect_ticks"`
	AckTimeoutMs   int    `yaml:"ack_timeout_ms"`
}

// ---- SENSORS ----

type SensorsConfig struct {
	HeartRate     ChannelConfig `yaml:"heart_rate"`
	Power         ChannelConfig `yaml:"power"`
	CrankLengthMM float64       `yaml:"crank_length_mm"`
}

// ChannelConfig enables one sensor channel. Without a pairing the
// radio searches for any device of the profile.
type ChannelConfig struct {
	Enabled bool           `yaml:"enabled"`
	Pairing *PairingConfig `yaml:"pairing"`
}

type PairingConfig struct {
	DeviceNumber     uint16 `yaml:"device_number"`
	DeviceType       uint8  `yaml:"device_type"`
	TransmissionType uint8  `yaml:"transmission_type"`
}

// ---- THERMAL ----

type ThermalConfig struct {
	Zone  string  `yaml:"zone"`
	WarnC float64 `yaml:"warn_c"`
	BadC  float64 `yaml:"bad_c"`
}

// ---- BUTTON ----

type ButtonConfig struct {
	Pin string `yaml:"pin"` // empty = no button
}

// ---- SHUTDOWN ----

type ShutdownConfig struct {
	MaxFailures     int      `yaml:"max_failures"`
	PowerOffCommand []string `yaml:"power_off_command"` // run after a button shutdown
}

// ---- HEALTH MIRROR ----

type HealthMirrorConfig struct {
	Endpoint  string             `yaml:"endpoint"`
	UnitID    uint8              `yaml:"unit_id"`
	TimeoutMs int                `yaml:"timeout_ms"`
	Links     []MirrorLinkConfig `yaml:"links"`
}

type MirrorLinkConfig struct {
	Name string `yaml:"name"` // "gear" or "gps"
	Slot uint16 `yaml:"slot"`
}

// internal/sensor/sensor.go
package sensor

import (
	"errors"
	"time"
)

// Profile names a sensor device profile.
type Profile string

const (
	HeartRateMonitor Profile = "Heart Rate"
	PowerMeter       Profile = "Bicycle Power"
)

// ChannelID pins a channel to one paired device. A nil *ChannelID
// searches for any device of the profile.
type ChannelID struct {
	DeviceNumber     uint16 `yaml:"device_number"`
	DeviceType       uint8  `yaml:"device_type"`
	TransmissionType uint8  `yaml:"transmission_type"`
}

// PowerData is one decoded power page.
type PowerData struct {
	EventCount         int
	InstantaneousPower int // W
	AccumulatedPower   int // W
	PedalPowerRatio    *int
	Cadence            int // rpm
}

// TorqueData is one decoded torque effectiveness / pedal smoothness page.
type TorqueData struct {
	EventCount           int
	LeftTorque           float64
	RightTorque          float64
	LeftPedalSmoothness  float64
	RightPedalSmoothness float64
}

// Callbacks are invoked by the radio SDK from its own goroutines.
type Callbacks interface {
	OnDevicePaired(p Profile, id ChannelID)
	OnSearchTimeout(p Profile)
	OnChannelClosed(p Profile)
	OnHeartRateData(bpm int, eventTime time.Duration)
	OnPowerData(d PowerData)
	OnTorqueData(d TorqueData)
}

// Channel is an open profile channel.
type Channel interface {
	Close() error
}

// PowerChannel is a power-meter channel.
type PowerChannel interface {
	Channel
	SetCrankLength(mm float64) error
}

// Node is the sensor radio.
type Node interface {
	Start() error
	OpenHeartRate(pairing *ChannelID, cb Callbacks) (Channel, error)
	OpenPower(pairing *ChannelID, cb Callbacks) (PowerChannel, error)
	Stop() error
}

// ErrNoRadio is returned by Absent.Start.
var ErrNoRadio = errors.New("sensor: no radio attached")

// Absent stands in when no radio is configured. Start fails so the
// operator sees why no sensor data arrives.
type Absent struct{}

func (Absent) Start() error { return ErrNoRadio }

func (Absent) OpenHeartRate(*ChannelID, Callbacks) (Channel, error) { return nil, ErrNoRadio }

func (Absent) OpenPower(*ChannelID, Callbacks) (PowerChannel, error) { return nil, ErrNoRadio }

func (Absent) Stop() error { return nil }

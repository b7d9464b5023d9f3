// internal/sensor/hub.go
package sensor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tamzrod/bikedash/internal/status"
)

// Notifier shows a transient status message.
type Notifier interface {
	Push(text string, level status.Level, timeout time.Duration) (status.ID, error)
}

// Config selects the channels to open.
type Config struct {
	HeartRate      bool
	HeartRatePair  *ChannelID
	Power          bool
	PowerPair      *ChannelID
	CrankLengthMM  float64
	MessageTimeout time.Duration
}

// Hub receives SDK callbacks, caches the latest values for the
// scheduler and reports pairing events on the status stack.
type Hub struct {
	cfg    Config
	node   Node
	notify Notifier
	log    hclog.Logger

	mu        sync.Mutex
	heartRate int
	haveHR    bool
	power     int
	havePower bool
	powerSum  int
	powerN    int
	cadence   int
	powerCh   PowerChannel
	channels  []Channel
}

func NewHub(cfg Config, node Node, notify Notifier, log hclog.Logger) *Hub {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Hub{cfg: cfg, node: node, notify: notify, log: log}
}

// Start brings up the radio and opens the configured channels. A
// failure is shown on screen and returned; the dashboard keeps running.
func (h *Hub) Start() error {
	if err := h.node.Start(); err != nil {
		h.show(fmt.Sprintf("Could not start sensor radio.\n%v", err), status.LevelError)
		return fmt.Errorf("sensor: start: %w", err)
	}

	var errs []error
	if h.cfg.HeartRate {
		ch, err := h.node.OpenHeartRate(h.cfg.HeartRatePair, h)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", HeartRateMonitor, err))
		} else {
			h.mu.Lock()
			h.channels = append(h.channels, ch)
			h.mu.Unlock()
		}
	}
	if h.cfg.Power {
		ch, err := h.node.OpenPower(h.cfg.PowerPair, h)
		if err != nil {
			errs = append(errs, fmt.Errorf("open %s: %w", PowerMeter, err))
		} else {
			h.mu.Lock()
			h.powerCh = ch
			h.channels = append(h.channels, ch)
			h.mu.Unlock()
		}
	}
	if err := errors.Join(errs...); err != nil {
		h.show(fmt.Sprintf("Could not open sensor channel.\n%v", err), status.LevelError)
		return fmt.Errorf("sensor: %w", err)
	}
	return nil
}

// Stop closes every channel and the radio.
func (h *Hub) Stop() error {
	h.mu.Lock()
	channels := h.channels
	h.channels = nil
	h.powerCh = nil
	h.mu.Unlock()

	var errs []error
	for _, ch := range channels {
		if err := ch.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := h.node.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("sensor: stop: %w", err)
	}
	return nil
}

// HeartRate returns the latest heart rate.
func (h *Hub) HeartRate() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.heartRate, h.haveHR
}

// TakePower returns the mean instantaneous power received since the
// previous call, or the last value when nothing new arrived.
func (h *Hub) TakePower() (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.powerN > 0 {
		h.power = h.powerSum / h.powerN
		h.powerSum, h.powerN = 0, 0
	}
	return h.power, h.havePower
}

// Cadence returns the latest cadence in rpm.
func (h *Hub) Cadence() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cadence
}

func (h *Hub) OnDevicePaired(p Profile, id ChannelID) {
	h.show(fmt.Sprintf("Connected to %s (%d)", p, id.DeviceNumber), status.LevelInfo)

	if p != PowerMeter {
		return
	}
	h.mu.Lock()
	ch := h.powerCh
	h.mu.Unlock()
	if ch == nil || h.cfg.CrankLengthMM <= 0 {
		return
	}
	if err := ch.SetCrankLength(h.cfg.CrankLengthMM); err != nil {
		h.log.Warn("set crank length failed", "mm", h.cfg.CrankLengthMM, "error", err)
	}
}

func (h *Hub) OnSearchTimeout(p Profile) {
	h.show(fmt.Sprintf("Time-out trying to connect to %s", p), status.LevelInfo)
}

func (h *Hub) OnChannelClosed(p Profile) {
	h.show(fmt.Sprintf("Channel closed for %s", p), status.LevelInfo)
}

func (h *Hub) OnHeartRateData(bpm int, eventTime time.Duration) {
	h.mu.Lock()
	h.heartRate = bpm
	h.haveHR = true
	h.mu.Unlock()
	h.log.Trace("heart rate", "bpm", bpm, "event_time", eventTime)
}

func (h *Hub) OnPowerData(d PowerData) {
	h.mu.Lock()
	h.powerSum += d.InstantaneousPower
	h.powerN++
	h.havePower = true
	h.cadence = d.Cadence
	h.mu.Unlock()
	h.log.Trace("power", "instantaneous", d.InstantaneousPower, "accumulated", d.AccumulatedPower, "cadence", d.Cadence)
}

func (h *Hub) OnTorqueData(d TorqueData) {
	h.log.Trace("torque",
		"left", d.LeftTorque, "right", d.RightTorque,
		"left_smoothness", d.LeftPedalSmoothness, "right_smoothness", d.RightPedalSmoothness)
}

func (h *Hub) show(text string, level status.Level) {
	if h.notify == nil {
		return
	}
	if _, err := h.notify.Push(text, level, h.cfg.MessageTimeout); err != nil {
		h.log.Warn("status push failed", "text", text, "error", err)
	}
}

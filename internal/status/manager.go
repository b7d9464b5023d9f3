// internal/status/manager.go
package status

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tamzrod/bikedash/internal/clock"
	"github.com/tamzrod/bikedash/internal/surface"
)

// ID identifies a status message. IDs are never reused.
type ID uint64

// NoID is passed to Update to always create a new message.
const NoID ID = 0

// ErrStopped is returned when the manager is not running.
var ErrStopped = errors.New("status: manager not running")

// Config is the layout configuration.
type Config struct {
	// ScreenHeight is the bottom anchor, in pixels.
	ScreenHeight int

	// Padding is the gap between messages and twice the gap to the
	// bottom edge.
	Padding int

	// MaxMessages caps the live messages; the oldest is hidden when a
	// push would exceed it. 0 = unlimited.
	MaxMessages int

	// DefaultTimeout applies when a caller passes timeout <= 0.
	DefaultTimeout time.Duration
}

// Placement is a read-only view of a live message.
type Placement struct {
	ID     ID
	Text   string
	Level  Level
	Y      int
	Height int
}

type message struct {
	id     ID
	text   string
	level  Level
	y      int
	height int
	region surface.Region
	expiry *clock.Timer
	armed  uint64
}

// Manager owns the stack of transient status messages. The most
// recently pushed or updated message sits at the bottom anchor and
// older ones stack upward. Every mutation, including timer expiry,
// happens under mu.
type Manager struct {
	mu       sync.Mutex
	cfg      Config
	surf     surface.Surface
	render   Renderer
	clk      clock.Clock
	log      hclog.Logger
	running  bool
	nextID   ID
	arms     uint64
	messages map[ID]*message
	order    []ID // oldest first
}

func New(cfg Config, surf surface.Surface, render Renderer, clk clock.Clock, log hclog.Logger) *Manager {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 10 * time.Second
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Manager{
		cfg:      cfg,
		surf:     surf,
		render:   render,
		clk:      clk,
		log:      log,
		messages: make(map[ID]*message),
	}
}

// Start enables the manager with an empty registry.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = make(map[ID]*message)
	m.order = nil
	m.running = true
}

// Stop cancels every pending timer and removes every region.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, id := range m.order {
		msg := m.messages[id]
		msg.expiry.Stop()
		if err := m.surf.Remove(msg.region); err != nil {
			errs = append(errs, fmt.Errorf("status: remove message %d: %w", id, err))
		}
	}
	m.messages = make(map[ID]*message)
	m.order = nil
	m.running = false
	return errors.Join(errs...)
}

// Push shows a new message at the bottom anchor, moving every live
// message up to make room. Surface allocation errors are returned
// unchanged in meaning and nothing is shown.
func (m *Manager) Push(text string, level Level, timeout time.Duration) (ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pushLocked(text, level, timeout)
}

// Update replaces the text of an existing message and restarts its
// expiry. NoID or an unknown id behaves like Push. The updated message
// becomes the most recent and moves to the bottom anchor.
func (m *Manager) Update(id ID, text string, level Level, timeout time.Duration) (ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if id == NoID || !ok {
		return m.pushLocked(text, level, timeout)
	}

	m.logMessage(text, level)
	msg.expiry.Stop()

	img := m.render.Render(text, level)
	if err := msg.region.Update(img); err != nil {
		m.hideLocked(id)
		return NoID, fmt.Errorf("status: update message %d: %w", id, err)
	}

	msg.text = text
	msg.level = level
	msg.height = img.Bounds().Dy()

	// Not an in-place redraw: the stack is ordered by most recent push
	// or update, so the message moves to the bottom anchor and the rest
	// close the gap it leaves.
	m.removeFromOrder(id)
	m.order = append(m.order, id)
	m.relayoutLocked()
	m.armLocked(msg, timeout)
	return id, nil
}

// Hide removes a message and closes the gap it leaves. Unknown ids are
// ignored, so expiry racing an explicit Hide is harmless.
func (m *Manager) Hide(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hideLocked(id)
}

// Messages returns the live messages, oldest first.
func (m *Manager) Messages() []Placement {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Placement, 0, len(m.order))
	for _, id := range m.order {
		msg := m.messages[id]
		out = append(out, Placement{
			ID:     msg.id,
			Text:   msg.text,
			Level:  msg.level,
			Y:      msg.y,
			Height: msg.height,
		})
	}
	return out
}

func (m *Manager) pushLocked(text string, level Level, timeout time.Duration) (ID, error) {
	if !m.running {
		return NoID, ErrStopped
	}
	m.logMessage(text, level)

	img := m.render.Render(text, level)
	h := img.Bounds().Dy()
	y := m.cfg.ScreenHeight - h - 2*m.cfg.Padding

	region, err := m.surf.Add(img, image.Pt(0, y))
	if err != nil {
		return NoID, fmt.Errorf("status: add region: %w", err)
	}

	m.nextID++
	msg := &message{
		id:     m.nextID,
		text:   text,
		level:  level,
		y:      y,
		height: h,
		region: region,
	}
	m.messages[msg.id] = msg
	m.order = append(m.order, msg.id)
	m.relayoutLocked()
	m.armLocked(msg, timeout)

	if max := m.cfg.MaxMessages; max > 0 {
		for len(m.order) > max {
			m.hideLocked(m.order[0])
		}
	}
	return msg.id, nil
}

func (m *Manager) hideLocked(id ID) {
	msg, ok := m.messages[id]
	if !ok {
		return
	}
	msg.expiry.Stop()
	if err := m.surf.Remove(msg.region); err != nil {
		m.log.Warn("remove status region failed", "id", id, "error", err)
	}
	delete(m.messages, id)
	m.removeFromOrder(id)
	m.relayoutLocked()
}

// relayoutLocked stacks messages upward from the bottom anchor, newest
// first, and moves every region whose position changed.
func (m *Manager) relayoutLocked() {
	bottom := m.cfg.ScreenHeight - 2*m.cfg.Padding
	for i := len(m.order) - 1; i >= 0; i-- {
		msg := m.messages[m.order[i]]
		y := bottom - msg.height
		if msg.y != y {
			msg.y = y
			if err := msg.region.Move(image.Pt(0, y)); err != nil {
				m.log.Warn("move status region failed", "id", msg.id, "error", err)
			}
		}
		bottom = y - m.cfg.Padding
	}
}

func (m *Manager) armLocked(msg *message, timeout time.Duration) {
	if timeout <= 0 {
		timeout = m.cfg.DefaultTimeout
	}
	m.arms++
	arm := m.arms
	msg.armed = arm
	id := msg.id
	msg.expiry = m.clk.AfterFunc(timeout, func() { m.expire(id, arm) })
}

// expire runs on the timer path. A timer that lost the race with Stop
// finds either no message or a newer arming and does nothing.
func (m *Manager) expire(id ID, arm uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if !ok || msg.armed != arm {
		return
	}
	m.hideLocked(id)
}

func (m *Manager) removeFromOrder(id ID) {
	for i, x := range m.order {
		if x == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

func (m *Manager) logMessage(text string, level Level) {
	switch level {
	case LevelError:
		m.log.Error(text)
	case LevelWarning:
		m.log.Warn(text)
	case LevelDebug:
		m.log.Debug(text)
	default:
		m.log.Info(text)
	}
}

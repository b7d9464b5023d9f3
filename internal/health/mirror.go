// internal/health/mirror.go
package health

import (
	"github.com/hashicorp/go-hclog"

	"github.com/tamzrod/bikedash/internal/link"
)

// Writer delivers snapshots verbatim. No logic, no interpretation.
type Writer interface {
	WriteHealth(s Snapshot) error
}

// Mirror keeps one tracker per device link and pushes changes to that
// link's writer. It is driven from the scheduler goroutine only.
type Mirror struct {
	log   hclog.Logger
	links map[string]*mirrored
	order []string
}

type mirrored struct {
	tracker Tracker
	w       Writer
	started bool
}

func NewMirror(log hclog.Logger) *Mirror {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Mirror{log: log, links: make(map[string]*mirrored)}
}

// Add registers a link. The initial unknown snapshot is written at once
// so the block carries its name before the first poll.
func (m *Mirror) Add(name string, w Writer) {
	l := &mirrored{w: w}
	m.links[name] = l
	m.order = append(m.order, name)
	m.write(name, l, l.tracker.Snapshot())
}

// Observe records the outcome of one poll of the named link.
func (m *Mirror) Observe(name string, st link.Status, err error) {
	l, ok := m.links[name]
	if !ok {
		return
	}
	if snap, changed := l.tracker.Observe(st, err); changed || !l.started {
		m.write(name, l, snap)
	}
}

// Second advances every unhealthy link's seconds-in-error. Call at 1 Hz.
func (m *Mirror) Second() {
	for _, name := range m.order {
		l := m.links[name]
		if snap, changed := l.tracker.Second(); changed {
			m.write(name, l, snap)
		}
	}
}

// Snapshot returns the current state of the named link.
func (m *Mirror) Snapshot(name string) (Snapshot, bool) {
	l, ok := m.links[name]
	if !ok {
		return Snapshot{}, false
	}
	return l.tracker.Snapshot(), true
}

func (m *Mirror) write(name string, l *mirrored, s Snapshot) {
	if err := l.w.WriteHealth(s); err != nil {
		m.log.Warn("health write failed", "link", name, "error", err)
		return
	}
	l.started = true
}

// internal/link/gearproto.go
package link

import (
	"fmt"
	"strconv"
	"strings"
)

// MsgType is the one-byte record prefix on the gear-shifter wire.
type MsgType byte

const (
	MsgStartup      MsgType = 'S'
	MsgShutdown     MsgType = 'X'
	MsgAcknowledge  MsgType = 'A'
	MsgError        MsgType = 'E'
	MsgDebug        MsgType = 'D'
	MsgGearChanging MsgType = 'C'
	MsgGearChanged  MsgType = 'G'
)

// maxRecord bounds a buffered partial record.
const maxRecord = 256

// Record is one newline-terminated message.
type Record struct {
	Type    MsgType
	Payload string
}

// Decoder splits a byte stream into records. Bytes after the last
// newline are kept for the next Feed. A record longer than maxRecord is
// discarded whole, up to and including its newline.
type Decoder struct {
	partial  []byte
	overflow bool
	dropped  int
}

// Feed consumes b and returns every complete record. Empty lines are
// skipped and a trailing '\r' is dropped.
func (d *Decoder) Feed(b []byte) []Record {
	var out []Record
	for _, c := range b {
		if c != '\n' {
			if d.overflow {
				continue
			}
			if len(d.partial) >= maxRecord {
				d.overflow = true
				d.partial = d.partial[:0]
				continue
			}
			d.partial = append(d.partial, c)
			continue
		}
		if d.overflow {
			d.overflow = false
			d.dropped++
			continue
		}
		line := strings.TrimSuffix(string(d.partial), "\r")
		d.partial = d.partial[:0]
		if line == "" {
			continue
		}
		out = append(out, Record{Type: MsgType(line[0]), Payload: line[1:]})
	}
	return out
}

// Dropped reports how many over-long records have been discarded.
func (d *Decoder) Dropped() int { return d.dropped }

// Reset drops any buffered partial record.
func (d *Decoder) Reset() {
	d.partial = d.partial[:0]
	d.overflow = false
}

// EventKind is how the dashboard reacts to a record.
type EventKind uint8

const (
	EventGear EventKind = iota
	EventAck
	EventError
	EventDebug
	EventUnknown
)

// Event is a decoded, interpreted record.
type Event struct {
	Kind     EventKind
	Gear     int
	Changing bool
	Text     string
	Record   Record
}

// Interpret maps a record to the action it calls for.
func Interpret(r Record) Event {
	ev := Event{Record: r, Text: r.Payload}
	switch r.Type {
	case MsgGearChanged, MsgGearChanging:
		n, err := strconv.Atoi(strings.TrimSpace(r.Payload))
		if err != nil {
			ev.Kind = EventError
			ev.Text = fmt.Sprintf("Invalid gear number %q", r.Payload)
			return ev
		}
		ev.Kind = EventGear
		ev.Gear = n
		ev.Changing = r.Type == MsgGearChanging
	case MsgAcknowledge:
		ev.Kind = EventAck
	case MsgError:
		ev.Kind = EventError
	case MsgDebug:
		ev.Kind = EventDebug
	default:
		ev.Kind = EventUnknown
		ev.Text = fmt.Sprintf("Unknown gear shifter message %q: %s", string(rune(r.Type)), r.Payload)
	}
	return ev
}

// internal/link/gear_test.go
package link

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

type fakePort struct {
	reads    [][]byte
	readErr  error
	written  bytes.Buffer
	closed   bool
	writeErr error
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.reads) == 0 {
		return 0, nil
	}
	n := copy(b, p.reads[0])
	p.reads = p.reads[1:]
	return n, nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

// fakeOpener hands out ports in order; a nil entry fails the open.
type fakeOpener struct {
	ports []*fakePort
	calls int
}

func (o *fakeOpener) open() (Port, error) {
	i := o.calls
	o.calls++
	if i >= len(o.ports) || o.ports[i] == nil {
		return nil, errors.New("no such device")
	}
	return o.ports[i], nil
}

func TestGear_ConnectSendsStartup(t *testing.T) {
	p := &fakePort{reads: [][]byte{[]byte("G2\n")}}
	o := &fakeOpener{ports: []*fakePort{p}}
	g := NewGear(o.open, GearConfig{}, nil)

	events, err := g.Poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if !g.Connected() {
		t.Fatalf("state = %v", g.Status().State)
	}
	if p.written.String() != "S" {
		t.Fatalf("written = %q, want startup byte", p.written.String())
	}
	if len(events) != 1 || events[0].Kind != EventGear || events[0].Gear != 2 {
		t.Fatalf("events = %+v", events)
	}
}

func TestGear_NoDataIsNotAnError(t *testing.T) {
	o := &fakeOpener{ports: []*fakePort{{}}}
	g := NewGear(o.open, GearConfig{}, nil)

	for i := 0; i < 3; i++ {
		events, err := g.Poll()
		if err != nil || len(events) != 0 {
			t.Fatalf("poll %d = (%v, %v)", i, events, err)
		}
	}
	if o.calls != 1 {
		t.Fatalf("opened %d times", o.calls)
	}
}

func TestGear_OpenFailureWaitsBeforeRetry(t *testing.T) {
	p := &fakePort{}
	o := &fakeOpener{ports: []*fakePort{nil, p}}
	g := NewGear(o.open, GearConfig{ReconnectEvery: 2}, nil)

	_, err := g.Poll()
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindOpen {
		t.Fatalf("err = %v, want open error", err)
	}
	st := g.Status()
	if st.State != Disconnected || st.Retries != 1 {
		t.Fatalf("status = %+v", st)
	}

	for i := 0; i < 2; i++ {
		if _, err := g.Poll(); err != nil {
			t.Fatalf("waiting poll %d: %v", i, err)
		}
	}
	if o.calls != 1 {
		t.Fatalf("retried too early: %d opens", o.calls)
	}

	if _, err := g.Poll(); err != nil {
		t.Fatalf("reconnect poll: %v", err)
	}
	if !g.Connected() || o.calls != 2 {
		t.Fatalf("not reconnected: state=%v opens=%d", g.Status().State, o.calls)
	}
	if g.Status().Retries != 0 || g.Status().LastErr != "" {
		t.Fatalf("status not reset: %+v", g.Status())
	}
}

func TestGear_HandshakeFailureClosesPort(t *testing.T) {
	p := &fakePort{writeErr: errors.New("write timeout")}
	o := &fakeOpener{ports: []*fakePort{p}}
	g := NewGear(o.open, GearConfig{}, nil)

	_, err := g.Poll()
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindHandshake {
		t.Fatalf("err = %v, want handshake error", err)
	}
	if !p.closed {
		t.Fatalf("port left open")
	}
	if g.Status().State != Disconnected {
		t.Fatalf("state = %v", g.Status().State)
	}
}

func TestGear_ReadErrorReopensInline(t *testing.T) {
	first := &fakePort{}
	second := &fakePort{reads: [][]byte{[]byte("G5\n")}}
	o := &fakeOpener{ports: []*fakePort{first, second}}
	g := NewGear(o.open, GearConfig{ReconnectEvery: 10}, nil)

	if _, err := g.Poll(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	first.readErr = errors.New("device unplugged")

	events, err := g.Poll()
	if err != nil {
		t.Fatalf("inline reopen should hide the error, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("events = %+v", events)
	}
	if !first.closed {
		t.Fatalf("old port not closed")
	}
	if second.written.String() != "S" {
		t.Fatalf("startup not resent: %q", second.written.String())
	}

	events, err = g.Poll()
	if err != nil || len(events) != 1 || events[0].Gear != 5 {
		t.Fatalf("poll after reopen = (%+v, %v)", events, err)
	}
}

func TestGear_ReadErrorWithFailedReopen(t *testing.T) {
	first := &fakePort{}
	o := &fakeOpener{ports: []*fakePort{first}}
	g := NewGear(o.open, GearConfig{ReconnectEvery: 3}, nil)

	if _, err := g.Poll(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	cause := errors.New("device unplugged")
	first.readErr = cause

	_, err := g.Poll()
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindIO {
		t.Fatalf("err = %v, want io error", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("read error not wrapped: %v", err)
	}
	if g.Status().State != Disconnected {
		t.Fatalf("state = %v", g.Status().State)
	}
}

func TestGear_ShutdownWaitsForAck(t *testing.T) {
	p := &fakePort{}
	o := &fakeOpener{ports: []*fakePort{p}}
	g := NewGear(o.open, GearConfig{}, nil)
	if _, err := g.Poll(); err != nil {
		t.Fatalf("connect: %v", err)
	}
	p.reads = [][]byte{[]byte("Dparking\nA"), []byte("\n")}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := g.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if p.written.String() != "SX" {
		t.Fatalf("written = %q", p.written.String())
	}
	if !p.closed || g.Connected() {
		t.Fatalf("port not released")
	}
}

func TestGear_ShutdownWithoutAck(t *testing.T) {
	p := &fakePort{}
	o := &fakeOpener{ports: []*fakePort{p}}
	g := NewGear(o.open, GearConfig{}, nil)
	if _, err := g.Poll(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.Shutdown(ctx)
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindNoAck {
		t.Fatalf("err = %v, want no-ack", err)
	}
	if !p.closed {
		t.Fatalf("port not closed")
	}
}

func TestGear_ShutdownWhileDisconnected(t *testing.T) {
	g := NewGear((&fakeOpener{}).open, GearConfig{}, nil)
	if err := g.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestGear_OverlongRecordDiscarded(t *testing.T) {
	junk := bytes.Repeat([]byte("1"), 100)
	first := append([]byte("G"), junk[1:]...)
	p := &fakePort{reads: [][]byte{first, junk, junk, []byte("\nG3\n")}}
	o := &fakeOpener{ports: []*fakePort{p}}
	g := NewGear(o.open, GearConfig{}, nil)

	var events []Event
	for i := 0; i < 4; i++ {
		evs, err := g.Poll()
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		events = append(events, evs...)
	}
	if len(events) != 1 || events[0].Kind != EventGear || events[0].Gear != 3 {
		t.Fatalf("events = %+v, want only gear 3", events)
	}
	if g.dec.Dropped() != 1 {
		t.Fatalf("dropped = %d", g.dec.Dropped())
	}
}

// internal/link/gear.go
package link

import (
	"context"
	"errors"
	"io"

	"github.com/hashicorp/go-hclog"
)

// Port is an open serial connection. Read must return (0, nil) when no
// data arrived within the port's read timeout.
type Port interface {
	io.ReadWriteCloser
}

// Opener opens the gear-shifter port. One attempt per call.
type Opener func() (Port, error)

// GearConfig tunes reconnection.
type GearConfig struct {
	// ReconnectEvery is the number of polls to wait between connection
	// attempts while disconnected. 0 retries on every poll.
	ReconnectEvery int
}

// Gear is the gear-shifter serial link:
// Disconnected → Connecting (open, send startup byte) → Connected.
// Any I/O error while connected gets one inline reopen; if that fails
// the link drops to Disconnected and retries on a later poll.
type Gear struct {
	open   Opener
	cfg    GearConfig
	log    hclog.Logger
	port   Port
	dec    Decoder
	status Status
	wait   int
	buf    []byte
}

func NewGear(open Opener, cfg GearConfig, log hclog.Logger) *Gear {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Gear{
		open: open,
		cfg:  cfg,
		log:  log,
		buf:  make([]byte, 128),
	}
}

func (g *Gear) Status() Status { return g.status }

func (g *Gear) Connected() bool { return g.status.State == Connected }

// Poll reads whatever bytes are waiting and returns the decoded events.
// No data is not an error. While disconnected, Poll attempts to connect
// every ReconnectEvery calls.
func (g *Gear) Poll() ([]Event, error) {
	if g.status.State != Connected {
		if g.wait > 0 {
			g.wait--
			return nil, nil
		}
		if err := g.connect(); err != nil {
			g.wait = g.cfg.ReconnectEvery
			return nil, err
		}
	}

	n, err := g.port.Read(g.buf)
	if err != nil {
		g.log.Warn("gear shifter read failed, reopening", "error", err)
		g.closePort()
		if cerr := g.connect(); cerr != nil {
			g.wait = g.cfg.ReconnectEvery
			return nil, &Error{Kind: KindIO, Op: "gear shifter read", Err: errors.Join(err, cerr)}
		}
		g.log.Info("gear shifter reconnected")
		return nil, nil
	}
	if n == 0 {
		return nil, nil
	}

	dropped := g.dec.Dropped()
	recs := g.dec.Feed(g.buf[:n])
	if d := g.dec.Dropped() - dropped; d > 0 {
		g.log.Warn("discarded over-long gear shifter records", "count", d, "max_bytes", maxRecord)
	}
	events := make([]Event, 0, len(recs))
	for _, r := range recs {
		events = append(events, Interpret(r))
	}
	return events, nil
}

// Shutdown sends the shutdown code and waits for an acknowledgement
// until ctx is done. The port is closed either way.
func (g *Gear) Shutdown(ctx context.Context) error {
	if g.status.State != Connected {
		return nil
	}
	defer func() {
		g.closePort()
		g.status.State = Disconnected
	}()

	if _, err := g.port.Write([]byte{byte(MsgShutdown)}); err != nil {
		return &Error{Kind: KindIO, Op: "gear shifter shutdown", Err: err}
	}

	for {
		if err := ctx.Err(); err != nil {
			return &Error{Kind: KindNoAck, Op: "gear shifter shutdown", Err: err}
		}
		n, err := g.port.Read(g.buf)
		if err != nil {
			return &Error{Kind: KindIO, Op: "gear shifter shutdown", Err: err}
		}
		for _, r := range g.dec.Feed(g.buf[:n]) {
			if r.Type == MsgAcknowledge {
				g.log.Debug("gear shifter acknowledged shutdown")
				return nil
			}
			g.log.Debug("ignoring record during shutdown", "type", string(rune(r.Type)), "payload", r.Payload)
		}
	}
}

func (g *Gear) connect() error {
	g.status.State = Connecting

	p, err := g.open()
	if err != nil {
		e := &Error{Kind: KindOpen, Op: "gear shifter open", Err: err}
		g.status.fail(e, Disconnected)
		return e
	}

	if _, err := p.Write([]byte{byte(MsgStartup)}); err != nil {
		_ = p.Close()
		e := &Error{Kind: KindHandshake, Op: "gear shifter handshake", Err: err}
		g.status.fail(e, Disconnected)
		return e
	}

	g.port = p
	g.dec.Reset()
	g.status.ok(Connected)
	g.status.LastErr = ""
	g.status.LastKind = KindNone
	return nil
}

func (g *Gear) closePort() {
	if g.port == nil {
		return
	}
	if err := g.port.Close(); err != nil {
		g.log.Debug("gear shifter close failed", "error", err)
	}
	g.port = nil
}

// internal/link/serial/port.go
package serial

import (
	"errors"
	"time"

	gserial "github.com/goburrow/serial"

	"github.com/tamzrod/bikedash/internal/link"
)

// Config is the minimal port configuration for the gear shifter.
type Config struct {
	Address     string
	BaudRate    int
	ReadTimeout time.Duration
}

// Opener returns a link.Opener that opens the port with 8N1 framing.
// ReadTimeout bounds every Read so the control loop never blocks on an
// idle port.
func Opener(cfg Config) link.Opener {
	return func() (link.Port, error) {
		if cfg.Address == "" {
			return nil, errors.New("serial: address required")
		}
		p, err := gserial.Open(&gserial.Config{
			Address:  cfg.Address,
			BaudRate: cfg.BaudRate,
			DataBits: 8,
			StopBits: 1,
			Parity:   "N",
			Timeout:  cfg.ReadTimeout,
		})
		if err != nil {
			return nil, err
		}
		return &port{p: p}, nil
	}
}

// port maps the driver's read timeout to "no data".
type port struct {
	p gserial.Port
}

func (p *port) Read(b []byte) (int, error) {
	n, err := p.p.Read(b)
	if errors.Is(err, gserial.ErrTimeout) {
		return n, nil
	}
	return n, err
}

func (p *port) Write(b []byte) (int, error) { return p.p.Write(b) }

func (p *port) Close() error { return p.p.Close() }

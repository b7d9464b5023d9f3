// internal/link/errors.go
package link

import "fmt"

// Kind classifies a device-link failure. Values are stable: they are
// exported as last_error_code in the health mirror.
type Kind uint16

const (
	KindNone Kind = iota
	KindGeneric
	KindOpen
	KindHandshake
	KindIO
	KindTransport
	KindNoAck
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindGeneric:
		return "generic"
	case KindOpen:
		return "open"
	case KindHandshake:
		return "handshake"
	case KindIO:
		return "io"
	case KindTransport:
		return "transport"
	case KindNoAck:
		return "no-ack"
	default:
		return "INVALID"
	}
}

// Error is returned by link poll and connect operations.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code exposes Kind as a numeric error code.
func (e *Error) Code() uint16 { return uint16(e.Kind) }

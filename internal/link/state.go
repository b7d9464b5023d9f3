// internal/link/state.go
package link

// State is the connection state of a device link.
type State uint8

const (
	Disconnected State = iota
	Connecting
	Connected
	Active
	Failed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Active:
		return "active"
	case Failed:
		return "error"
	default:
		return "INVALID"
	}
}

// Status is the observable state of a link. It is owned by the
// scheduler goroutine and copied out by value.
type Status struct {
	State    State
	LastErr  string
	LastKind Kind

	// Retries counts consecutive failed attempts since the last success.
	Retries int
}

func (s *Status) fail(err *Error, next State) {
	s.State = next
	s.LastErr = err.Error()
	s.LastKind = err.Kind
	s.Retries++
}

func (s *Status) ok(next State) {
	s.State = next
	s.Retries = 0
}

// internal/button/debounce.go
package button

// Action is what a debounced sample asks the dashboard to do.
type Action uint8

const (
	ActionNone Action = iota
	ActionWarn
	ActionShutdown
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionWarn:
		return "warn"
	case ActionShutdown:
		return "shutdown"
	default:
		return "INVALID"
	}
}

// Debouncer turns periodic button samples into a two-step shutdown:
// the first pressed sample warns, a second consecutive one confirms.
// Releasing the button in between starts over.
type Debouncer struct {
	held bool
}

func (d *Debouncer) Sample(pressed bool) Action {
	switch {
	case !pressed:
		d.held = false
		return ActionNone
	case d.held:
		return ActionShutdown
	default:
		d.held = true
		return ActionWarn
	}
}

// Held reports whether the last sample was pressed.
func (d *Debouncer) Held() bool { return d.held }

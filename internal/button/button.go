// internal/button/button.go
package button

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Input is a sampled push button.
type Input interface {
	Pressed() (bool, error)
}

// None stands in when no button is wired up. It is never pressed.
type None struct{}

func (None) Pressed() (bool, error) { return false, nil }

// GPIO is an active-low button on a header pin with the internal
// pull-up enabled.
type GPIO struct {
	pin gpio.PinIO
}

// OpenGPIO initialises the host drivers and configures the named pin
// (e.g. "GPIO17") as an input.
func OpenGPIO(name string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("button: host init: %w", err)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("button: no pin named %q", name)
	}
	if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("button: configure %s: %w", name, err)
	}
	return &GPIO{pin: pin}, nil
}

func (b *GPIO) Pressed() (bool, error) {
	return b.pin.Read() == gpio.Low, nil
}

// internal/writer/builder.go
package writer

import (
	"time"

	"github.com/tamzrod/bikedash/internal/config"
	"github.com/tamzrod/bikedash/internal/health"
	wmodbus "github.com/tamzrod/bikedash/internal/writer/modbus"
)

// Build creates the mirror endpoint client and one writer per link.
// Assumes the config has passed Validate.
func Build(cfg config.HealthMirrorConfig) (map[string]health.Writer, func() error, error) {
	cli, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	writers := make(map[string]health.Writer, len(cfg.Links))
	for _, l := range cfg.Links {
		w, err := NewHealthWriter(Plan{
			Link:     l.Name,
			UnitID:   cfg.UnitID,
			BaseSlot: l.Slot,
		}, cli)
		if err != nil {
			_ = cli.Close()
			return nil, nil, err
		}
		writers[l.Name] = w
	}
	return writers, cli.Close, nil
}

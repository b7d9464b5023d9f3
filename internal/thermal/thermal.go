// internal/thermal/thermal.go
package thermal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultZone is the SoC thermal zone on a Raspberry Pi.
const DefaultZone = "/sys/class/thermal/thermal_zone0/temp"

// Severity of a temperature against the configured thresholds.
type Severity uint8

const (
	OK Severity = iota
	Warn
	Bad
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "ok"
	case Warn:
		return "warn"
	case Bad:
		return "bad"
	default:
		return "INVALID"
	}
}

// Thresholds in degrees Celsius. A reading must exceed a threshold to
// reach its severity.
type Thresholds struct {
	WarnC float64
	BadC  float64
}

func (t Thresholds) Classify(c float64) Severity {
	switch {
	case c > t.BadC:
		return Bad
	case c > t.WarnC:
		return Warn
	default:
		return OK
	}
}

// Zone reads a sysfs thermal zone reporting millidegrees.
type Zone struct {
	Path string
}

// Celsius returns the current temperature.
func (z Zone) Celsius() (float64, error) {
	path := z.Path
	if path == "" {
		path = DefaultZone
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("thermal: %w", err)
	}
	milli, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("thermal: parse %s: %w", path, err)
	}
	return float64(milli) / 1000, nil
}

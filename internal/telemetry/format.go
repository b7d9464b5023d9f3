// internal/telemetry/format.go
package telemetry

import (
	"fmt"

	"github.com/tamzrod/bikedash/internal/link"
)

// Placeholder is drawn for values that are not known.
const Placeholder = "--"

// FormatSpeed renders m/s as km/h, or the placeholder without a reading.
func FormatSpeed(r *link.Reading) string {
	if r == nil {
		return Placeholder + " km/h"
	}
	return fmt.Sprintf("%.1f km/h", r.SpeedMS*3.6)
}

// FormatDistance renders the distance to the finish in km.
func FormatDistance(r *link.Reading) string {
	if r == nil {
		return Placeholder + " km"
	}
	return fmt.Sprintf("%.1f km", r.DistanceM/1000)
}

func FormatHeartRate(bpm int, known bool) string {
	if !known {
		return Placeholder + " bpm"
	}
	return fmt.Sprintf("%d bpm", bpm)
}

func FormatGear(gear int) string {
	return fmt.Sprintf("Gear %d", gear)
}

// internal/status/level.go
package status

import (
	"fmt"
	"image/color"
	"strings"
)

// Level is the severity of a status message. It picks the text colour
// and the log level.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelDebug:
		return "debug"
	default:
		return "INVALID"
	}
}

// Color is the text colour used on screen.
func (l Level) Color() color.RGBA {
	switch l {
	case LevelWarning:
		return color.RGBA{R: 255, G: 128, B: 0, A: 255}
	case LevelError:
		return color.RGBA{R: 255, A: 255}
	case LevelDebug:
		return color.RGBA{R: 160, G: 160, B: 160, A: 255}
	default:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
}

// ParseLevel accepts the names returned by String.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("status: unknown level %q", s)
}

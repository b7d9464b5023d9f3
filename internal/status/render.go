// internal/status/render.go
package status

import (
	"image"

	"github.com/tamzrod/bikedash/internal/surface"
)

// Renderer turns a message into the image shown in its region. The
// image height is the message height used for layout.
type Renderer interface {
	Render(text string, level Level) *image.RGBA
}

// TextRenderer renders messages as boxed text in the level colour.
type TextRenderer struct {
	Text *surface.TextRenderer
}

func (r TextRenderer) Render(text string, level Level) *image.RGBA {
	return r.Text.Render(text, level.Color())
}

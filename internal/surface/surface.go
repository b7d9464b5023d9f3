// internal/surface/surface.go
package surface

import (
	"errors"
	"image"
)

var (
	// ErrRegionLimit is returned by Add when the surface cannot hold another region.
	ErrRegionLimit = errors.New("surface: region limit reached")

	// ErrEmptyImage is returned for nil or zero-sized images.
	ErrEmptyImage = errors.New("surface: empty image")

	// ErrRemoved is returned by operations on a region that was removed.
	ErrRemoved = errors.New("surface: region removed")
)

// Surface hands out rectangular image regions on the screen.
// Regions stack in creation order (later regions on top). There is no
// clipping beyond the screen edge.
type Surface interface {
	Add(img *image.RGBA, at image.Point) (Region, error)
	Remove(r Region) error
	Close() error
}

// Region is one overlay on a Surface. Update replaces the contents and
// takes the size of img; Move changes the top-left corner.
type Region interface {
	Update(img *image.RGBA) error
	Move(at image.Point) error
	Bounds() image.Rectangle
}

func checkImage(img *image.RGBA) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	return nil
}

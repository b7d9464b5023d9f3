// internal/surface/compositor.go
package surface

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"tinygo.org/x/drivers"
)

// Compositor keeps every region in memory and flattens them onto one
// canvas. When an output Displayer is attached, Flush pushes the canvas
// to it pixel by pixel.
type Compositor struct {
	mu         sync.Mutex
	canvas     *image.RGBA
	background image.Image
	regions    []*region
	limit      int
	out        drivers.Displayer
	dirty      bool
}

type region struct {
	c      *Compositor
	img    *image.RGBA
	at     image.Point
	closed bool
}

// NewCompositor creates a width x height canvas. limit caps the number
// of live regions (0 = unlimited). out may be nil.
func NewCompositor(width, height, limit int, bg color.RGBA, out drivers.Displayer) *Compositor {
	return &Compositor{
		canvas:     image.NewRGBA(image.Rect(0, 0, width, height)),
		background: image.NewUniform(bg),
		limit:      limit,
		out:        out,
		dirty:      true,
	}
}

func (c *Compositor) Add(img *image.RGBA, at image.Point) (Region, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limit > 0 && len(c.regions) >= c.limit {
		return nil, ErrRegionLimit
	}

	r := &region{c: c, img: img, at: at}
	c.regions = append(c.regions, r)
	c.dirty = true
	return r, nil
}

func (c *Compositor) Remove(r Region) error {
	rr, ok := r.(*region)
	if !ok || rr.c != c {
		return ErrRemoved
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, x := range c.regions {
		if x == rr {
			c.regions = append(c.regions[:i], c.regions[i+1:]...)
			rr.closed = true
			c.dirty = true
			return nil
		}
	}
	return ErrRemoved
}

// Len reports the number of live regions.
func (c *Compositor) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.regions)
}

// Flush recomposes the canvas if anything changed and pushes it to the
// output display.
func (c *Compositor) Flush() error {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	c.composeLocked()
	c.dirty = false
	out := c.out
	var frame *image.RGBA
	if out != nil {
		frame = cloneRGBA(c.canvas)
	}
	c.mu.Unlock()

	if out == nil {
		return nil
	}

	w, h := out.Size()
	b := frame.Bounds()
	for y := 0; y < int(h) && y < b.Dy(); y++ {
		for x := 0; x < int(w) && x < b.Dx(); x++ {
			out.SetPixel(int16(x), int16(y), frame.RGBAAt(x, y))
		}
	}
	return out.Display()
}

// Snapshot copies the current composed canvas into dst, recomposing
// first when needed. dst must have the canvas size.
func (c *Compositor) Snapshot(dst *image.RGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dirty {
		c.composeLocked()
		c.dirty = false
	}
	draw.Draw(dst, dst.Bounds(), c.canvas, image.Point{}, draw.Src)
}

func (c *Compositor) Close() error {
	c.mu.Lock()
	for _, r := range c.regions {
		r.closed = true
	}
	c.regions = nil
	c.dirty = true
	c.mu.Unlock()
	return c.Flush()
}

func (c *Compositor) composeLocked() {
	draw.Draw(c.canvas, c.canvas.Bounds(), c.background, image.Point{}, draw.Src)
	for _, r := range c.regions {
		dst := r.img.Bounds().Sub(r.img.Bounds().Min).Add(r.at)
		draw.Draw(c.canvas, dst, r.img, r.img.Bounds().Min, draw.Over)
	}
}

func (r *region) Update(img *image.RGBA) error {
	if err := checkImage(img); err != nil {
		return err
	}
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.closed {
		return ErrRemoved
	}
	r.img = img
	r.c.dirty = true
	return nil
}

func (r *region) Move(at image.Point) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.closed {
		return ErrRemoved
	}
	if r.at != at {
		r.at = at
		r.c.dirty = true
	}
	return nil
}

func (r *region) Bounds() image.Rectangle {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return r.img.Bounds().Sub(r.img.Bounds().Min).Add(r.at)
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// internal/surface/noop.go
package surface

import (
	"image"
	"sync"
)

// Noop is the stand-in used when no display device is present. It
// tracks geometry so layout still behaves, but draws nothing.
type Noop struct {
	mu      sync.Mutex
	regions map[*noopRegion]struct{}
}

func NewNoop() *Noop {
	return &Noop{regions: make(map[*noopRegion]struct{})}
}

type noopRegion struct {
	mu     sync.Mutex
	bounds image.Rectangle
}

func (n *Noop) Add(img *image.RGBA, at image.Point) (Region, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	r := &noopRegion{bounds: img.Bounds().Sub(img.Bounds().Min).Add(at)}

	n.mu.Lock()
	n.regions[r] = struct{}{}
	n.mu.Unlock()
	return r, nil
}

func (n *Noop) Remove(r Region) error {
	nr, ok := r.(*noopRegion)
	if !ok {
		return ErrRemoved
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.regions[nr]; !ok {
		return ErrRemoved
	}
	delete(n.regions, nr)
	return nil
}

// Len reports the number of live regions.
func (n *Noop) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.regions)
}

func (n *Noop) Close() error {
	n.mu.Lock()
	n.regions = make(map[*noopRegion]struct{})
	n.mu.Unlock()
	return nil
}

func (r *noopRegion) Update(img *image.RGBA) error {
	if err := checkImage(img); err != nil {
		return err
	}
	r.mu.Lock()
	r.bounds = image.Rectangle{Min: r.bounds.Min, Max: r.bounds.Min.Add(img.Bounds().Size())}
	r.mu.Unlock()
	return nil
}

func (r *noopRegion) Move(at image.Point) error {
	r.mu.Lock()
	r.bounds = r.bounds.Sub(r.bounds.Min).Add(at)
	r.mu.Unlock()
	return nil
}

func (r *noopRegion) Bounds() image.Rectangle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds
}

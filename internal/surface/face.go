// internal/surface/face.go
package surface

import (
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// lockedFace serializes every call into a shared face. The status stack
// renders from sensor callbacks while widgets draw on the scheduler
// goroutine, and opentype faces keep one rasterizer per face.
type lockedFace struct {
	mu sync.Mutex
	f  font.Face
}

// Synchronized returns a face that is safe for concurrent use. Glyph
// masks are copied out under the lock because the wrapped face reuses
// its mask buffer on the next call.
func Synchronized(f font.Face) font.Face {
	if lf, ok := f.(*lockedFace); ok {
		return lf
	}
	return &lockedFace{f: f}
}

func (l *lockedFace) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

func (l *lockedFace) Glyph(dot fixed.Point26_6, r rune) (dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	dr, mask, maskp, advance, ok = l.f.Glyph(dot, r)
	if !ok || mask == nil {
		return dr, mask, maskp, advance, ok
	}
	mb := image.Rectangle{Min: maskp, Max: maskp.Add(dr.Size())}
	cp := image.NewAlpha(mb)
	draw.Draw(cp, mb, mask, maskp, draw.Src)
	return dr, cp, maskp, advance, ok
}

func (l *lockedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.GlyphBounds(r)
}

func (l *lockedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.GlyphAdvance(r)
}

func (l *lockedFace) Kern(r0, r1 rune) fixed.Int26_6 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Kern(r0, r1)
}

func (l *lockedFace) Metrics() font.Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Metrics()
}

// internal/surface/fbdev/fbdev.go
package fbdev

import (
	"errors"
	"fmt"
	"image/color"
	"os"
)

// Device is a Linux framebuffer exposed as a drivers.Displayer.
// Pixels are staged in memory and written in one pass by Display.
type Device struct {
	f      *os.File
	w, h   int16
	bpp    int
	stride int
	buf    []byte
}

// Open opens a framebuffer device node such as /dev/fb0. bpp is 16
// (RGB565) or 32 (BGRA).
func Open(path string, width, height, bpp int) (*Device, error) {
	if bpp != 16 && bpp != 32 {
		return nil, fmt.Errorf("fbdev: unsupported depth %d", bpp)
	}
	if width <= 0 || height <= 0 || width > 1<<15-1 || height > 1<<15-1 {
		return nil, errors.New("fbdev: invalid geometry")
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("fbdev: open %s: %w", path, err)
	}

	stride := width * bpp / 8
	return &Device{
		f:      f,
		w:      int16(width),
		h:      int16(height),
		bpp:    bpp,
		stride: stride,
		buf:    make([]byte, stride*height),
	}, nil
}

func (d *Device) Size() (x, y int16) { return d.w, d.h }

func (d *Device) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	switch d.bpp {
	case 32:
		i := int(y)*d.stride + int(x)*4
		d.buf[i+0] = c.B
		d.buf[i+1] = c.G
		d.buf[i+2] = c.R
		d.buf[i+3] = c.A
	case 16:
		i := int(y)*d.stride + int(x)*2
		v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
		d.buf[i+0] = byte(v)
		d.buf[i+1] = byte(v >> 8)
	}
}

// Display writes the staged frame to the device.
func (d *Device) Display() error {
	if _, err := d.f.WriteAt(d.buf, 0); err != nil {
		return fmt.Errorf("fbdev: write: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	return d.f.Close()
}

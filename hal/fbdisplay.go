package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// FBDisplay draws into an RGB565 Framebuffer through the tinygo driver
// interface, so tinyfont can render onto it. Writes outside the buffer
// or to other pixel formats are dropped.
type FBDisplay struct {
	fb Framebuffer
}

var _ drivers.Displayer = (*FBDisplay)(nil)

func NewFBDisplay(fb Framebuffer) *FBDisplay {
	return &FBDisplay{fb: fb}
}

func (d *FBDisplay) ok() bool {
	return d.fb != nil && d.fb.Format() == PixelFormatRGB565 && d.fb.Buffer() != nil
}

func (d *FBDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *FBDisplay) SetPixel(x, y int16, c color.RGBA) {
	if !d.ok() {
		return
	}
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	buf := d.fb.Buffer()
	off := iy*d.fb.StrideBytes() + ix*2
	if off+1 >= len(buf) {
		return
	}
	p := RGB565(c)
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

// FillRectangle clips the rectangle to the framebuffer.
func (d *FBDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	if !d.ok() {
		return nil
	}
	w, h := d.fb.Width(), d.fb.Height()
	x0, y0 := clamp(int(x), 0, w), clamp(int(y), 0, h)
	x1, y1 := clamp(int(x)+int(width), 0, w), clamp(int(y)+int(height), 0, h)

	buf := d.fb.Buffer()
	stride := d.fb.StrideBytes()
	p := RGB565(c)
	lo, hi := byte(p), byte(p>>8)
	for py := y0; py < y1; py++ {
		for off := py*stride + x0*2; off < py*stride+x1*2 && off+1 < len(buf); off += 2 {
			buf[off] = lo
			buf[off+1] = hi
		}
	}
	return nil
}

// Display presents the framebuffer.
func (d *FBDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *FBDisplay) SetRotation(drivers.Rotation) error { return nil }

// RGB565 packs c into the framebuffer's pixel format.
func RGB565(c color.RGBA) uint16 {
	return rgb565(c.R, c.G, c.B)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

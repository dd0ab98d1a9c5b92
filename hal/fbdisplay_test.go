package hal

import (
	"image/color"
	"testing"
)

func pixelAt(fb Framebuffer, x, y int) uint16 {
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

func TestFBDisplayFillClips(t *testing.T) {
	fb := newHostFramebuffer(4, 3)
	d := NewFBDisplay(fb)
	red := color.RGBA{R: 0xFF, A: 0xFF}

	if err := d.FillRectangle(-2, 1, 4, 10, red); err != nil {
		t.Fatalf("FillRectangle() = %v", err)
	}
	want := RGB565(red)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			inside := x < 2 && y >= 1
			got := pixelAt(fb, x, y)
			if inside && got != want {
				t.Fatalf("pixel (%d,%d) = %#04x, want %#04x", x, y, got, want)
			}
			if !inside && got != 0 {
				t.Fatalf("pixel (%d,%d) = %#04x, want 0", x, y, got)
			}
		}
	}
}

func TestFBDisplaySetPixel(t *testing.T) {
	fb := newHostFramebuffer(2, 2)
	d := NewFBDisplay(fb)
	blue := color.RGBA{B: 0xFF, A: 0xFF}

	d.SetPixel(1, 1, blue)
	d.SetPixel(5, 0, blue)
	d.SetPixel(-1, 0, blue)
	if got := pixelAt(fb, 1, 1); got != RGB565(blue) {
		t.Fatalf("pixel (1,1) = %#04x, want %#04x", got, RGB565(blue))
	}
	if x, y := d.Size(); x != 2 || y != 2 {
		t.Fatalf("Size() = %d,%d, want 2,2", x, y)
	}
}

func TestFBDisplayNil(t *testing.T) {
	d := NewFBDisplay(nil)
	d.SetPixel(0, 0, color.RGBA{})
	if err := d.FillRectangle(0, 0, 1, 1, color.RGBA{}); err != nil {
		t.Fatalf("FillRectangle() = %v", err)
	}
	if err := d.Display(); err != nil {
		t.Fatalf("Display() = %v", err)
	}
}

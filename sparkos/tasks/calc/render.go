package calc

import (
	"image/color"
	"unicode/utf8"

	"sparkcalc/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorBG       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
	colorPanelBG  = color.RGBA{R: 0x10, G: 0x12, B: 0x16, A: 0xFF}
	colorFG       = color.RGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}
	colorDim      = color.RGBA{R: 0x9A, G: 0x9A, B: 0xA0, A: 0xFF}
	colorError    = color.RGBA{R: 0xFF, G: 0x55, B: 0x4F, A: 0xFF}
	colorDigitBG  = color.RGBA{R: 0x33, G: 0x35, B: 0x3A, A: 0xFF}
	colorFuncBG   = color.RGBA{R: 0x5A, G: 0x5D, B: 0x63, A: 0xFF}
	colorOpBG     = color.RGBA{R: 0xF0, G: 0x9A, B: 0x30, A: 0xFF}
	colorActiveBG = color.RGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}
)

// face is a font plus the pixel height of its digits above the baseline.
type face struct {
	font   tinyfont.Fonter
	ascent int16
}

var (
	faceSmall  = face{font: &freesans.Bold9pt7b, ascent: 13}
	faceButton = face{font: &freesans.Bold12pt7b, ascent: 17}
	faceHint   = face{font: &proggy.TinySZ8pt7b, ascent: 8}

	// Current-line faces, largest first.
	faceCurrent = [...]face{
		{font: &freesans.Bold24pt7b, ascent: 34},
		{font: &freesans.Bold18pt7b, ascent: 25},
		{font: &freesans.Bold12pt7b, ascent: 17},
	}
)

const displayPad = 10

// symbolGlyph reports whether r is drawn by hand; the bitmap fonts are ASCII only.
func symbolGlyph(r rune) bool {
	return r == '×' || r == '÷' || r == '∞'
}

func symbolWidth(f face) int16 {
	_, w := tinyfont.LineWidth(f.font, "0")
	return int16(w)
}

// textWidth measures s in f, counting hand-drawn symbols as one digit wide.
func textWidth(f face, s string) int16 {
	var w int16
	start := 0
	for i, r := range s {
		if !symbolGlyph(r) {
			continue
		}
		if start < i {
			_, seg := tinyfont.LineWidth(f.font, s[start:i])
			w += int16(seg)
		}
		w += symbolWidth(f)
		start = i + utf8.RuneLen(r)
	}
	if start < len(s) {
		_, seg := tinyfont.LineWidth(f.font, s[start:])
		w += int16(seg)
	}
	return w
}

// drawText draws s with its baseline at y.
func drawText(d *hal.FBDisplay, f face, x, y int16, s string, c color.RGBA) {
	start := 0
	for i, r := range s {
		if !symbolGlyph(r) {
			continue
		}
		if start < i {
			seg := s[start:i]
			tinyfont.WriteLine(d, f.font, x, y, seg, c)
			_, w := tinyfont.LineWidth(f.font, seg)
			x += int16(w)
		}
		sw := symbolWidth(f)
		drawSymbol(d, r, x, y-f.ascent, sw, f.ascent, c)
		x += sw
		start = i + utf8.RuneLen(r)
	}
	if start < len(s) {
		tinyfont.WriteLine(d, f.font, x, y, s[start:], c)
	}
}

// drawSymbol draws r inside the w×h box at (x, y).
func drawSymbol(d *hal.FBDisplay, r rune, x, y, w, h int16, c color.RGBA) {
	size := w * 3 / 5
	if size < 4 {
		size = 4
	}
	cx := x + w/2
	cy := y + h/2
	half := size / 2
	thick := size/8 + 1

	switch r {
	case '×':
		for i := -half; i <= half; i++ {
			for t := int16(0); t < thick; t++ {
				d.SetPixel(cx+i+t, cy+i, c)
				d.SetPixel(cx+i+t, cy-i, c)
			}
		}
	case '÷':
		_ = d.FillRectangle(cx-half, cy-thick/2, size, thick, c)
		dot := thick + 1
		_ = d.FillRectangle(cx-dot/2, cy-half, dot, dot, c)
		_ = d.FillRectangle(cx-dot/2, cy+half-dot+1, dot, dot, c)
	case '∞':
		rad := half / 2
		if rad < 2 {
			rad = 2
		}
		drawRing(d, cx-rad, cy, rad, thick, c)
		drawRing(d, cx+rad, cy, rad, thick, c)
	}
}

func drawRing(d *hal.FBDisplay, cx, cy, rad, thick int16, c color.RGBA) {
	outer := int32(rad) * int32(rad)
	hole := rad - thick
	if hole < 0 {
		hole = 0
	}
	inner := int32(hole) * int32(hole)
	for dy := -rad; dy <= rad; dy++ {
		for dx := -rad; dx <= rad; dx++ {
			dd := int32(dx)*int32(dx) + int32(dy)*int32(dy)
			if dd <= outer && dd > inner {
				d.SetPixel(cx+dx, cy+dy, c)
			}
		}
	}
}

// fitCurrent picks the largest face that fits s in maxW. When even the
// smallest is too wide, leading runes are dropped and marked with "<".
func fitCurrent(s string, maxW int16) (face, string) {
	for _, f := range faceCurrent {
		if textWidth(f, s) <= maxW {
			return f, s
		}
	}
	f := faceCurrent[len(faceCurrent)-1]
	return f, clipToWidth(f, s, maxW)
}

func clipToWidth(f face, s string, maxW int16) string {
	if textWidth(f, s) <= maxW {
		return s
	}
	for len(s) > 0 && textWidth(f, "<"+s) > maxW {
		_, n := utf8.DecodeRuneInString(s)
		s = s[n:]
	}
	return "<" + s
}

// renderer draws Display values onto the framebuffer.
type renderer struct {
	fb  hal.Framebuffer
	d   *hal.FBDisplay
	lay layout
}

func newRenderer(fb hal.Framebuffer) *renderer {
	return &renderer{
		fb:  fb,
		d:   hal.NewFBDisplay(fb),
		lay: newLayout(fb.Width(), fb.Height()),
	}
}

func (r *renderer) render(disp Display, hint string) {
	w, h := r.d.Size()
	if w <= 0 || h <= 0 {
		return
	}
	_ = r.d.FillRectangle(0, 0, w, h, colorBG)

	r.renderDisplay(disp, hint)
	for _, b := range buttons {
		r.renderButton(b, disp)
	}
	_ = r.d.Display()
}

func (r *renderer) renderDisplay(disp Display, hint string) {
	p := r.lay.display
	_ = r.d.FillRectangle(int16(p.x), int16(p.y), int16(p.w), int16(p.h), colorPanelBG)

	right := int16(p.x+p.w) - displayPad
	maxW := int16(p.w) - 2*displayPad

	if disp.Previous != "" {
		y := int16(p.y) + displayPad + faceSmall.ascent
		prev := clipToWidth(faceSmall, disp.Previous, maxW)
		drawText(r.d, faceSmall, right-textWidth(faceSmall, prev), y, prev, colorDim)
	}

	if hint != "" {
		drawText(r.d, faceHint, int16(p.x)+displayPad, int16(p.y)+displayPad+faceHint.ascent, hint, colorError)
	}

	f, cur := fitCurrent(disp.Current, maxW)
	fg := colorFG
	if disp.Error {
		fg = colorError
	}
	y := int16(p.y+p.h) - displayPad
	drawText(r.d, f, right-textWidth(f, cur), y, cur, fg)
}

func (r *renderer) renderButton(b button, disp Display) {
	rc := r.lay.buttonRect(b)
	bg, fg := buttonColors(b, disp)

	const gap = 2
	_ = r.d.FillRectangle(int16(rc.x+gap), int16(rc.y+gap), int16(rc.w-2*gap), int16(rc.h-2*gap), bg)

	tw := textWidth(faceButton, b.label)
	x := int16(rc.x) + (int16(rc.w)-tw)/2
	y := int16(rc.y) + (int16(rc.h)+faceButton.ascent)/2
	drawText(r.d, faceButton, x, y, b.label, fg)
}

// buttonColors highlights the pending operator. At most one operator is
// pending, so at most one button is highlighted.
func buttonColors(b button, disp Display) (bg, fg color.RGBA) {
	switch b.ev.act {
	case actOperator:
		if !disp.Error && b.ev.op == disp.Active {
			return colorActiveBG, colorOpBG
		}
		return colorOpBG, colorFG
	case actCompute:
		return colorOpBG, colorFG
	case actClear, actDelete:
		return colorFuncBG, colorFG
	default:
		return colorDigitBG, colorFG
	}
}

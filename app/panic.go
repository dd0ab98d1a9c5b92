package app

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	crashBG   = color.RGBA{R: 0x40, A: 0xFF}
	crashFG   = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	crashFont = &proggy.TinySZ8pt7b
)

const (
	crashLineHeight = 10
	crashBaseline   = 8
)

// crashHandler logs a task panic and replaces the calculator with a crash
// screen. The panicking task never returns.
func crashHandler(h hal.HAL) func(kernel.PanicInfo) {
	return func(info kernel.PanicInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLine(fmt.Sprintf("calc panic: task=%d panic=%v", info.TaskID, info.Value))
			for _, line := range stackLines(info.Stack) {
				l.WriteLine(line)
			}
		}
		if d := h.Display(); d != nil {
			if fb := d.Framebuffer(); fb != nil {
				drawCrash(fb, info)
			}
		}
		select {}
	}
}

func drawCrash(fb hal.Framebuffer, info kernel.PanicInfo) {
	d := hal.NewFBDisplay(fb)
	w, h := d.Size()
	_ = d.FillRectangle(0, 0, w, h, crashBG)

	_, cw := tinyfont.LineWidth(crashFont, "0")
	cols := 1
	if cw > 0 {
		cols = max(int(w)/int(cw), 1)
	}
	y := int16(crashBaseline)
	for _, line := range crashLines(info, cols) {
		if y > h {
			break
		}
		tinyfont.WriteLine(d, crashFont, 0, y, line, crashFG)
		y += crashLineHeight
	}
	_ = d.Display()
}

// crashLines is the crash screen text wrapped to cols runes per line.
func crashLines(info kernel.PanicInfo, cols int) []string {
	lines := []string{
		"SparkCalc panic:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if stack := stackLines(info.Stack); len(stack) > 0 {
		lines = append(lines, "stack:")
		lines = append(lines, stack...)
	} else {
		lines = append(lines, "stack: unavailable")
	}

	var out []string
	for _, line := range lines {
		for line != "" {
			var head string
			head, line = takeRunes(line, cols)
			out = append(out, strings.TrimRight(head, " "))
			line = strings.TrimLeft(line, " ")
		}
	}
	return out
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line = strings.TrimRight(line, " \t"); line != "" {
			out = append(out, strings.ReplaceAll(line, "\t", "  "))
		}
	}
	return out
}

// takeRunes splits s after n runes.
func takeRunes(s string, n int) (head, tail string) {
	if n <= 0 {
		return "", s
	}
	i := 0
	for count := 0; i < len(s) && count < n; count++ {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return s[:i], s[i:]
}

//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// poll reports left-button and first-touch transitions. Layout keeps the
// screen in framebuffer pixels, so cursor coordinates need no scaling.
func (p *hostPointer) poll() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.down = true
		p.emit(PointerEvent{X: x, Y: y, Press: true})
	}
	if p.down && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.down = false
		p.emit(PointerEvent{X: x, Y: y})
	}

	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		p.emit(PointerEvent{X: x, Y: y, Press: true})
	}
}

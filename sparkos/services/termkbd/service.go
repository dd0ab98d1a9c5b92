// Package termkbd turns HAL input into messages for a single consumer task:
// key presses become VT100 bytes (MsgTermInput) and pointer transitions
// become MsgPointer.
package termkbd

import (
	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type Service struct {
	in     hal.Input
	outCap kernel.Capability

	pending  []byte
	pointers [][]byte

	heldCode hal.KeyCode
	heldData []byte

	nextRepeatTick uint64
}

// New forwards input from in to the task behind outCap.
func New(in hal.Input, outCap kernel.Capability) *Service {
	return &Service{in: in, outCap: outCap}
}

func (s *Service) Run(ctx *kernel.Context) {
	if ctx == nil || s.in == nil {
		return
	}
	var keys <-chan hal.KeyEvent
	if kbd := s.in.Keyboard(); kbd != nil {
		keys = kbd.Events()
	}
	var ptrs <-chan hal.PointerEvent
	if p := s.in.Pointer(); p != nil {
		ptrs = p.Events()
	}
	if keys == nil && ptrs == nil {
		return
	}

	done := make(chan struct{})
	defer close(done)
	tickCh := ctx.Ticks(done)

	for {
		select {
		case ev, ok := <-keys:
			if !ok {
				return
			}
			s.handleKeyEvent(ctx, ev)
		case ev, ok := <-ptrs:
			if !ok {
				ptrs = nil
				continue
			}
			s.pointers = append(s.pointers, proto.PointerPayload(int16(ev.X), int16(ev.Y), ev.Press))
			s.flush(ctx)
		case tick := <-tickCh:
			s.handleRepeat(tick)
			s.flush(ctx)
		}
	}
}

func (s *Service) handleKeyEvent(ctx *kernel.Context, ev hal.KeyEvent) {
	if !ev.Press {
		if s.heldData != nil && ev.Code == s.heldCode {
			s.heldData = nil
			s.nextRepeatTick = 0
		}
		return
	}

	data := vt100FromKey(ev)
	if len(data) > 0 {
		s.pending = append(s.pending, data...)
		s.flush(ctx)
	}

	if !repeatableKey(ev, data) {
		return
	}
	s.heldCode = ev.Code
	s.heldData = append(s.heldData[:0], data...)
	s.nextRepeatTick = ctx.NowTick() + repeatDelayTicks
}

func (s *Service) handleRepeat(tick uint64) {
	if s.heldData == nil {
		return
	}
	if tick < s.nextRepeatTick {
		return
	}
	s.pending = append(s.pending, s.heldData...)
	s.nextRepeatTick = tick + repeatRateTicks
}

// flush sends queued pointer events first, then key bytes. A full queue keeps
// the rest for the next tick; any other failure drops it.
func (s *Service) flush(ctx *kernel.Context) {
	if !s.outCap.Valid() {
		s.pending = nil
		s.pointers = nil
		return
	}

	for len(s.pointers) > 0 {
		res := ctx.SendToCapResult(s.outCap, uint16(proto.MsgPointer), s.pointers[0], kernel.Capability{})
		if res == kernel.SendErrQueueFull {
			return
		}
		s.pointers = s.pointers[1:]
	}

	for len(s.pending) > 0 {
		chunk := s.pending
		if len(chunk) > kernel.MaxMessageBytes {
			chunk = chunk[:kernel.MaxMessageBytes]
		}
		switch ctx.SendToCapResult(s.outCap, uint16(proto.MsgTermInput), chunk, kernel.Capability{}) {
		case kernel.SendOK:
			s.pending = s.pending[len(chunk):]
		case kernel.SendErrQueueFull:
			return
		default:
			s.pending = nil
		}
	}
}

const (
	// Ticks are 1ms on the host.
	repeatDelayTicks = 350
	repeatRateTicks  = 60
)

func repeatableKey(ev hal.KeyEvent, data []byte) bool {
	if len(data) == 0 {
		return false
	}
	switch ev.Code {
	case hal.KeyBackspace, hal.KeyDelete:
		return true
	default:
		return false
	}
}

func vt100FromKey(ev hal.KeyEvent) []byte {
	if ev.Rune != 0 {
		return []byte(string(ev.Rune))
	}

	switch ev.Code {
	case hal.KeyEnter:
		return []byte{'\n'}
	case hal.KeyEscape:
		return []byte{0x1b}
	case hal.KeyBackspace:
		return []byte{0x7f}
	case hal.KeyDelete:
		return []byte("\x1b[3~")
	default:
		return nil
	}
}

package hal

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// emit drops the event when the queue is full, like a hardware FIFO.
func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

// inject delivers a press for a byte-oriented source (stdin or a key tape).
// It blocks so that piped input is not lost.
func (k *hostKeyboard) inject(ev KeyEvent) {
	ev.Press = true
	k.ch <- ev
}

// keyEventFromRune maps terminal bytes to key events.
func keyEventFromRune(r rune) (KeyEvent, bool) {
	switch r {
	case '\r', '\n':
		return KeyEvent{Code: KeyEnter, Press: true}, true
	case 0x1b:
		return KeyEvent{Code: KeyEscape, Press: true}, true
	case 0x7f, 0x08:
		return KeyEvent{Code: KeyBackspace, Press: true}, true
	}
	if r < 0x20 {
		return KeyEvent{}, false
	}
	return KeyEvent{Press: true, Rune: r}, true
}

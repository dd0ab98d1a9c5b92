package hal

import "time"

// TickPeriod is the length of one kernel tick on the host.
const TickPeriod = time.Millisecond

// hostTime turns wall-clock progress into a tick stream. Ticks that do not
// fit the channel are dropped; the kernel only needs the latest count.
type hostTime struct {
	ch  chan uint64
	seq uint64

	now  func() time.Time
	last time.Time
	acc  time.Duration
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024), now: time.Now}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

// step emits the ticks elapsed since the previous call. The first call
// emits first ticks to start the clock.
func (t *hostTime) step(first uint64) {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		t.emit(first)
		return
	}
	t.acc += now.Sub(t.last)
	t.last = now
	if n := uint64(t.acc / TickPeriod); n > 0 {
		t.acc %= TickPeriod
		t.emit(n)
	}
}

func (t *hostTime) emit(n uint64) {
	for range n {
		t.seq++
		select {
		case t.ch <- t.seq:
		default:
		}
	}
}

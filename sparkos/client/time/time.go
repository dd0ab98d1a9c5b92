package time

import (
	"fmt"
	stdtime "time"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// TickDuration is the length of one kernel tick.
const TickDuration = stdtime.Millisecond

// Ticks converts d to kernel ticks, rounding up so a positive delay never
// becomes an immediate wake.
func Ticks(d stdtime.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	n := (d + TickDuration - 1) / TickDuration
	if n > 1<<32-1 {
		return 1<<32 - 1
	}
	return uint32(n)
}

// Alarm is a re-armable one-shot wakeup delivered to the owner's endpoint.
//
// Only the most recent arming counts: wakes carrying an older request ID are
// reported as stale.
type Alarm struct {
	timeCap  kernel.Capability
	replyCap kernel.Capability

	nextID  uint32
	armedID uint32
}

// NewAlarm returns an alarm that asks the time service behind timeCap to wake
// replyCap, which must carry the send right.
func NewAlarm(timeCap, replyCap kernel.Capability) *Alarm {
	return &Alarm{timeCap: timeCap, replyCap: replyCap}
}

// Arm requests a wake after d, replacing any earlier arming.
func (a *Alarm) Arm(ctx *kernel.Context, d stdtime.Duration) (uint32, error) {
	if ctx == nil {
		return 0, fmt.Errorf("time alarm: nil context")
	}
	a.nextID++
	if a.nextID == 0 {
		a.nextID++
	}
	payload := proto.Sleep{ID: a.nextID, Ticks: Ticks(d)}.Payload()
	res := ctx.SendToCapRetry(a.timeCap, uint16(proto.MsgSleep), payload, a.replyCap, 8)
	if res != kernel.SendOK {
		return 0, fmt.Errorf("time alarm send: %s", res)
	}
	a.armedID = a.nextID
	return a.armedID, nil
}

// Disarm forgets the current arming so that its wake is ignored.
func (a *Alarm) Disarm() { a.armedID = 0 }

// Armed reports whether a wake is outstanding.
func (a *Alarm) Armed() bool { return a.armedID != 0 }

// Fired reports whether msg is the wake for the current arming, and disarms
// the alarm when it is. Wakes for earlier armings return false.
func (a *Alarm) Fired(msg kernel.Message) (bool, error) {
	switch proto.Kind(msg.Kind) {
	case proto.MsgWake:
		id, ok := proto.DecodeWakePayload(msg.Payload())
		if !ok {
			return false, fmt.Errorf("time wake: bad payload")
		}
		if id == 0 || id != a.armedID {
			return false, nil
		}
		a.armedID = 0
		return true, nil
	case proto.MsgError:
		e, ok := proto.DecodeError(msg.Payload())
		if !ok {
			return false, fmt.Errorf("time error: bad payload")
		}
		if e.RequestID != a.armedID {
			return false, nil
		}
		a.armedID = 0
		return false, fmt.Errorf("time error: %w", e)
	default:
		return false, nil
	}
}

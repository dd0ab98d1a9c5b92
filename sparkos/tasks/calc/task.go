package calc

import (
	"time"

	"sparkcalc/hal"
	logclient "sparkcalc/sparkos/client/logger"
	timeclient "sparkcalc/sparkos/client/time"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

const maxSubscribers = 4

// Config tunes the calc task.
type Config struct {
	// ErrorDelay is how long "Error" stays up. Zero means DefaultErrorDelay.
	ErrorDelay time.Duration
}

// Task runs the calculator: it owns a State, feeds it key and pointer input,
// and after every input event redraws the framebuffer and pushes the display
// to subscribers.
//
// ep needs both rights: the send half is handed to the time service as the
// wake reply capability.
type Task struct {
	disp    hal.Display
	ep      kernel.Capability
	timeCap kernel.Capability
	logCap  kernel.Capability
	cfg     Config

	state *State
	alarm *timeclient.Alarm
	// armDelay is set by State when it enters the error state; the task arms
	// the time service alarm once the event is applied.
	armDelay time.Duration

	r     *renderer
	inbuf []byte
	subs  []subscriber
}

// subscriber is a display listener. behind is set when its mailbox was
// full at the last refresh; it gets the latest display on a later tick.
type subscriber struct {
	cap    kernel.Capability
	behind bool
}

func New(disp hal.Display, ep, timeCap, logCap kernel.Capability, cfg Config) *Task {
	return &Task{disp: disp, ep: ep, timeCap: timeCap, logCap: logCap, cfg: cfg}
}

type alarmFunc func(time.Duration)

func (f alarmFunc) Schedule(d time.Duration) { f(d) }

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}

	if t.disp != nil {
		if fb := t.disp.Framebuffer(); fb != nil && fb.Format() == hal.PixelFormatRGB565 {
			t.r = newRenderer(fb)
		}
	}
	t.alarm = timeclient.NewAlarm(t.timeCap, t.ep.Restrict(kernel.RightSend))
	t.state = NewState(alarmFunc(func(d time.Duration) { t.armDelay = d }), t.cfg.ErrorDelay)

	logclient.Log(ctx, t.logCap, "calc: ready")
	t.refresh(ctx)

	done := make(chan struct{})
	defer close(done)
	ticks := ctx.Ticks(done)

	for {
		var msg kernel.Message
		select {
		case <-ticks:
			t.catchUp(ctx)
			continue
		case msg, ok = <-ch:
			if !ok {
				return
			}
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgTermInput:
			t.handleInput(ctx, msg.Payload())
		case proto.MsgPointer:
			t.handlePointer(ctx, msg.Payload())
		case proto.MsgWake, proto.MsgError:
			t.handleAlarm(ctx, msg)
		case proto.MsgCalcSubscribe:
			t.handleSubscribe(ctx, msg)
		case proto.MsgCalcQuery:
			t.handleQuery(ctx, msg)
		}
	}
}

func (t *Task) handleInput(ctx *kernel.Context, b []byte) {
	t.inbuf = append(t.inbuf, b...)
	buf := t.inbuf
	for len(buf) > 0 {
		n, k, ok := nextKey(buf)
		if !ok {
			break
		}
		buf = buf[n:]

		ev := eventForKey(k)
		if ev.act == actNone {
			continue
		}
		t.handleEvent(ctx, ev)
	}
	t.inbuf = append(t.inbuf[:0], buf...)
}

func (t *Task) handlePointer(ctx *kernel.Context, payload []byte) {
	x, y, press, ok := proto.DecodePointerPayload(payload)
	if !ok || !press || t.r == nil {
		return
	}
	b, ok := t.r.lay.hit(int(x), int(y))
	if !ok {
		return
	}
	t.handleEvent(ctx, b.ev)
}

func (t *Task) handleEvent(ctx *kernel.Context, ev event) {
	wasFailed := t.state.Failed()
	computes := t.state.computes
	pending := t.state.Pending()
	prev, cur := t.state.Previous(), t.state.Current()

	ev.apply(t.state)

	switch {
	case !wasFailed && t.state.Failed():
		logclient.Logf(ctx, t.logCap, "calc: %s %c %s: %v", prev, pending.Glyph(), cur, t.state.Err())
		t.armAlarm(ctx)
	case t.state.computes != computes:
		// An operator key folds the result into the previous operand.
		result := t.state.Current()
		if !t.state.AwaitingReset() {
			result = t.state.Previous()
		}
		logclient.Logf(ctx, t.logCap, "calc: %s %c %s = %s", prev, pending.Glyph(), cur, result)
	}
	t.refresh(ctx)
}

func (t *Task) armAlarm(ctx *kernel.Context) {
	d := t.armDelay
	t.armDelay = 0
	if d <= 0 {
		return
	}
	if _, err := t.alarm.Arm(ctx, d); err != nil {
		// Without a wake the error state would never clear.
		logclient.Logf(ctx, t.logCap, "calc: %v; recovering now", err)
		t.state.Recover()
	}
}

func (t *Task) handleAlarm(ctx *kernel.Context, msg kernel.Message) {
	fired, err := t.alarm.Fired(msg)
	if err != nil {
		logclient.Logf(ctx, t.logCap, "calc: %v; recovering now", err)
		fired = true
	}
	if !fired || !t.state.Failed() {
		return
	}
	t.state.Recover()
	logclient.Log(ctx, t.logCap, "calc: recovered")
	t.refresh(ctx)
}

func (t *Task) handleSubscribe(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	if len(t.subs) >= maxSubscribers {
		refusal := proto.Error{Code: proto.ErrOverflow, Ref: proto.MsgCalcSubscribe}
		_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgError), refusal.Payload(), kernel.Capability{})
		return
	}
	t.subs = append(t.subs, subscriber{cap: msg.Cap, behind: true})
	t.publish(ctx, t.displayPayload())
}

func (t *Task) handleQuery(ctx *kernel.Context, msg kernel.Message) {
	if !msg.Cap.Valid() {
		return
	}
	_ = ctx.SendToCapResult(msg.Cap, uint16(proto.MsgCalcDisplay), t.displayPayload(), kernel.Capability{})
}

// refresh redraws and publishes the display. Every handler that changes the
// state calls it exactly once.
func (t *Task) refresh(ctx *kernel.Context) {
	d := t.state.Display()
	if t.r != nil {
		hint := ""
		if t.state.Failed() && t.state.Err() != nil {
			hint = t.state.Err().Error()
		}
		t.r.render(d, hint)
	}

	for i := range t.subs {
		t.subs[i].behind = true
	}
	t.publish(ctx, t.displayPayload())
}

// catchUp resends the current display to subscribers that missed one.
func (t *Task) catchUp(ctx *kernel.Context) {
	for _, sub := range t.subs {
		if sub.behind {
			t.publish(ctx, t.displayPayload())
			return
		}
	}
}

// publish sends payload to every subscriber marked behind. A full mailbox
// leaves it behind; any other failure drops the subscriber.
func (t *Task) publish(ctx *kernel.Context, payload []byte) {
	live := t.subs[:0]
	for _, sub := range t.subs {
		if sub.behind {
			switch ctx.SendToCapResult(sub.cap, uint16(proto.MsgCalcDisplay), payload, kernel.Capability{}) {
			case kernel.SendOK:
				sub.behind = false
			case kernel.SendErrQueueFull:
			default:
				continue
			}
		}
		live = append(live, sub)
	}
	t.subs = live
}

func (t *Task) displayPayload() []byte {
	return proto.CalcDisplayPayload(wireDisplay(t.state.Display()), kernel.MaxMessageBytes)
}

func wireDisplay(d Display) proto.CalcDisplay {
	return proto.CalcDisplay{
		Previous: d.Previous,
		Current:  d.Current,
		Active:   d.Active.Glyph(),
		Error:    d.Error,
	}
}

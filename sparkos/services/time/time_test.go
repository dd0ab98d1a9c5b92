package timesvc

import (
	"testing"
	"time"

	timeclient "sparkcalc/sparkos/client/time"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

type wakeResult struct {
	fired bool
	err   error
	tick  uint64
}

// armTask arms an alarm for each delay in order and reports what Fired says
// about every message that arrives.
func armTask(timeCap kernel.Capability, reply kernel.Capability, delays []time.Duration, out chan<- wakeResult) kernel.Task {
	return kernel.TaskFunc(func(ctx *kernel.Context) {
		a := timeclient.NewAlarm(timeCap, reply.Restrict(kernel.RightSend))
		for _, d := range delays {
			if _, err := a.Arm(ctx, d); err != nil {
				out <- wakeResult{err: err}
				return
			}
		}
		for {
			msg, ok := ctx.Recv(reply)
			if !ok {
				return
			}
			fired, err := a.Fired(msg)
			out <- wakeResult{fired: fired, err: err, tick: ctx.NowTick()}
		}
	})
}

func advance(k *kernel.Kernel, from, to uint64) {
	for seq := from; seq <= to; seq++ {
		k.TickTo(seq)
		time.Sleep(100 * time.Microsecond)
	}
}

func TestWakeAfterDelay(t *testing.T) {
	k := kernel.New()
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(timeEP.Restrict(kernel.RightRecv)))

	out := make(chan wakeResult, 4)
	k.AddTask(armTask(timeEP.Restrict(kernel.RightSend), reply, []time.Duration{5 * time.Millisecond}, out))

	time.Sleep(10 * time.Millisecond)
	advance(k, 1, 4)
	select {
	case r := <-out:
		t.Fatalf("woke early: %+v", r)
	default:
	}

	advance(k, 5, 8)
	select {
	case r := <-out:
		if !r.fired || r.err != nil {
			t.Fatalf("wake = %+v, want fired", r)
		}
		if r.tick < 5 {
			t.Fatalf("woke at tick %d, want >= 5", r.tick)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no wake")
	}
}

func TestRearmMakesEarlierWakeStale(t *testing.T) {
	k := kernel.New()
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(timeEP.Restrict(kernel.RightRecv)))

	out := make(chan wakeResult, 4)
	k.AddTask(armTask(timeEP.Restrict(kernel.RightSend), reply,
		[]time.Duration{2 * time.Millisecond, 6 * time.Millisecond}, out))

	time.Sleep(10 * time.Millisecond)
	advance(k, 1, 10)

	var got []bool
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case r := <-out:
			if r.err != nil {
				t.Fatalf("Fired() error = %v", r.err)
			}
			got = append(got, r.fired)
		case <-deadline:
			t.Fatalf("got %v wakes, want 2", got)
		}
	}
	if got[0] || !got[1] {
		t.Fatalf("fired = %v, want [false true]", got)
	}
}

func TestZeroDelayWakesImmediately(t *testing.T) {
	k := kernel.New()
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(timeEP.Restrict(kernel.RightRecv)))

	out := make(chan kernel.Message, 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		ctx.SendToCapResult(timeEP, uint16(proto.MsgSleep), proto.Sleep{ID: 9}.Payload(), reply.Restrict(kernel.RightSend))
		msg, _ := ctx.Recv(reply)
		out <- msg
	}))

	select {
	case msg := <-out:
		id, ok := proto.DecodeWakePayload(msg.Payload())
		if proto.Kind(msg.Kind) != proto.MsgWake || !ok || id != 9 {
			t.Fatalf("reply = %v id %d, want wake 9", proto.Kind(msg.Kind), id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no wake")
	}
}

func TestBadSleepPayloadReturnsError(t *testing.T) {
	k := kernel.New()
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	reply := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	k.AddTask(New(timeEP.Restrict(kernel.RightRecv)))

	out := make(chan kernel.Message, 1)
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		ctx.SendToCapResult(timeEP, uint16(proto.MsgSleep), []byte{1, 2}, reply.Restrict(kernel.RightSend))
		msg, _ := ctx.Recv(reply)
		out <- msg
	}))

	select {
	case msg := <-out:
		e, ok := proto.DecodeError(msg.Payload())
		if proto.Kind(msg.Kind) != proto.MsgError || !ok || e.Code != proto.ErrBadMessage || e.Ref != proto.MsgSleep {
			t.Fatalf("reply = %v %v, want bad_message for sleep", proto.Kind(msg.Kind), e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no reply")
	}
}

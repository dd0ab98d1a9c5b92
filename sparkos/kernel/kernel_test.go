package kernel

import (
	"testing"
	"time"
)

func TestMessagePayloadClampsLen(t *testing.T) {
	var msg Message
	msg.Len = MaxMessageBytes + 10
	if got := len(msg.Payload()); got != MaxMessageBytes {
		t.Fatalf("len(Payload()) = %d, want %d", got, MaxMessageBytes)
	}
}

func TestCapabilityRestrict(t *testing.T) {
	k := New()
	c := k.NewEndpoint(RightSend | RightRecv)

	if got := c.Restrict(RightSend); !got.canSend() || got.canRecv() {
		t.Fatalf("Restrict(RightSend) = %+v, want send-only", got)
	}
	if got := c.Restrict(RightSend).Restrict(RightRecv); got.Valid() {
		t.Fatalf("Restrict(send).Restrict(recv) valid, want invalid")
	}
	if got := (Capability{}).Restrict(RightSend); got.Valid() {
		t.Fatalf("zero.Restrict() valid, want invalid")
	}
}

func TestSendRespectsRights(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	if res := ctx.SendToCapResult(ep.Restrict(RightRecv), 1, nil, Capability{}); res != SendErrToNoSendRight {
		t.Fatalf("send via recv-only cap = %s, want %s", res, SendErrToNoSendRight)
	}
	if res := ctx.SendToCapResult(Capability{}, 1, nil, Capability{}); res != SendErrInvalidToCap {
		t.Fatalf("send via zero cap = %s, want %s", res, SendErrInvalidToCap)
	}
	if _, ok := ctx.RecvChan(ep.Restrict(RightSend)); ok {
		t.Fatalf("RecvChan(send-only) ok = true, want false")
	}
	big := make([]byte, MaxMessageBytes+1)
	if res := ctx.SendToCapResult(ep, 1, big, Capability{}); res != SendErrPayloadTooLarge {
		t.Fatalf("oversized send = %s, want %s", res, SendErrPayloadTooLarge)
	}
}

func TestSendRecvCarriesPayloadAndCap(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	reply := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	if res := ctx.SendToCapResult(ep, 7, []byte("42"), reply.Restrict(RightSend)); res != SendOK {
		t.Fatalf("SendToCapResult() = %s, want ok", res)
	}
	msg, ok := ctx.TryRecv(ep)
	if !ok {
		t.Fatalf("TryRecv() ok = false, want true")
	}
	if msg.Kind != 7 || string(msg.Payload()) != "42" {
		t.Fatalf("TryRecv() = kind %d payload %q, want 7 %q", msg.Kind, msg.Payload(), "42")
	}
	if !msg.Cap.Valid() || msg.Cap.canRecv() {
		t.Fatalf("transferred cap = %+v, want send-only", msg.Cap)
	}
	if _, ok := ctx.TryRecv(ep); ok {
		t.Fatalf("TryRecv() on empty ok = true, want false")
	}
}

func TestSendQueueFull(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	for i := 0; i < mailboxSlots; i++ {
		if res := ctx.SendToCapResult(ep, 1, []byte("x"), Capability{}); res != SendOK {
			t.Fatalf("send %d = %s, want ok", i, res)
		}
	}
	if res := ctx.SendToCapRetry(ep, 1, []byte("y"), Capability{}, 0); res != SendErrQueueFull {
		t.Fatalf("SendToCapRetry(limit 0) = %s, want %s", res, SendErrQueueFull)
	}
}

func TestSendToCapRetrySucceedsAfterDrain(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	for i := 0; i < mailboxSlots; i++ {
		_ = ctx.SendToCapResult(ep, 1, []byte("x"), Capability{})
	}

	resultCh := make(chan SendResult, 1)
	go func() {
		resultCh <- ctx.SendToCapRetry(ep, 1, []byte("y"), Capability{}, 5)
	}()

	if _, ok := ctx.Recv(ep); !ok {
		t.Fatalf("Recv() ok = false, want true")
	}
	go func() {
		for i := uint64(1); i <= 10; i++ {
			k.TickTo(i)
			time.Sleep(time.Millisecond)
		}
	}()

	select {
	case res := <-resultCh:
		if res != SendOK {
			t.Fatalf("SendToCapRetry() = %s, want ok", res)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for send retry")
	}
}

func TestTickToIsMonotonic(t *testing.T) {
	k := New()
	k.TickTo(5)
	k.TickTo(3)
	if got := k.nowTick(); got != 5 {
		t.Fatalf("nowTick() = %d, want 5", got)
	}

	done := make(chan uint64, 1)
	go func() { done <- k.waitTick(5) }()
	k.TickTo(9)

	select {
	case got := <-done:
		if got != 9 {
			t.Fatalf("waitTick(5) = %d, want 9", got)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for tick")
	}
}

type panicTask struct{}

func (panicTask) Run(*Context) { panic("boom") }

func TestTaskPanicInvokesHandler(t *testing.T) {
	got := make(chan PanicInfo, 2)
	k := New()
	k.OnPanic(func(info PanicInfo) { got <- info })
	id := k.AddTask(panicTask{})

	select {
	case info := <-got:
		if info.TaskID != id || info.Value != "boom" {
			t.Fatalf("PanicInfo = task %d value %v, want task %d value boom", info.TaskID, info.Value, id)
		}
		if len(info.Stack) == 0 {
			t.Fatalf("PanicInfo.Stack empty, want stack trace")
		}
		if !k.Panicked() {
			t.Fatalf("Panicked() = false, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for panic handler")
	}

	k.AddTask(panicTask{})
	select {
	case info := <-got:
		t.Fatalf("second panic reported: %+v", info)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPanicIsPerKernel(t *testing.T) {
	a, b := New(), New()
	done := make(chan struct{})
	a.OnPanic(func(PanicInfo) { close(done) })
	a.AddTask(panicTask{})
	<-done
	if b.Panicked() {
		t.Fatalf("Panicked() on an unrelated kernel = true, want false")
	}
}

func TestTaskFuncRuns(t *testing.T) {
	k := New()
	ran := make(chan TaskID, 1)
	id := k.AddTask(TaskFunc(func(ctx *Context) { ran <- ctx.TaskID() }))
	select {
	case got := <-ran:
		if got != id {
			t.Fatalf("TaskID() = %d, want %d", got, id)
		}
	case <-time.After(time.Second):
		t.Fatal("TaskFunc did not run")
	}
}

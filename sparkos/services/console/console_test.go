package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

func TestLines(t *testing.T) {
	got := Lines(proto.CalcDisplay{Previous: "8 ×", Current: "12"}, 6)
	if got != "   8 ×\n    12\n" {
		t.Fatalf("Lines() = %q", got)
	}
	got = Lines(proto.CalcDisplay{Current: "Error", Error: true}, 4)
	if got != "    \n! Error\n" {
		t.Fatalf("Lines(error) = %q", got)
	}
}

func TestPlain(t *testing.T) {
	tests := []struct {
		in   proto.CalcDisplay
		want string
	}{
		{proto.CalcDisplay{Current: "0"}, "0"},
		{proto.CalcDisplay{Previous: "1,234 +", Current: "5"}, "1,234 + | 5"},
		{proto.CalcDisplay{Current: "Error", Error: true}, "Error !"},
		{proto.CalcDisplay{Current: "789", Truncated: true}, "<789"},
	}
	for _, tt := range tests {
		if got := Plain(tt.in); got != tt.want {
			t.Fatalf("Plain(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsTerminalOnBuffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("IsTerminal(buffer) = true")
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestSubscribesAndPrintsChanges(t *testing.T) {
	k := kernel.New()
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	consoleEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	// Fake calc: pushes three displays (one repeated) to whoever subscribes.
	k.AddTask(kernel.TaskFunc(func(ctx *kernel.Context) {
		msg, _ := ctx.Recv(calcEP)
		if proto.Kind(msg.Kind) != proto.MsgCalcSubscribe {
			return
		}
		for _, cur := range []string{"0", "0", "7"} {
			p := proto.CalcDisplayPayload(proto.CalcDisplay{Current: cur}, kernel.MaxMessageBytes)
			ctx.SendToCapResult(msg.Cap, uint16(proto.MsgCalcDisplay), p, kernel.Capability{})
		}
	}))

	out := &syncBuffer{}
	k.AddTask(New(out, calcEP.Restrict(kernel.RightSend), consoleEP))

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "7\n") {
		if time.Now().After(deadline) {
			t.Fatalf("output = %q, want the 7 line", out.String())
		}
		time.Sleep(time.Millisecond)
	}
	if got := out.String(); got != "0\n7\n" {
		t.Fatalf("output = %q, want %q", got, "0\n7\n")
	}
}

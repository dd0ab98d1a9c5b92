package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"sparkcalc/hal"
	"sparkcalc/sparkos/proto"
	"sparkcalc/sparkos/services/remote"

	. "github.com/onsi/gomega"
)

func runHeadless(t *testing.T, cfg Config, host hal.HostConfig) (context.Context, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if host.LogOut == nil {
		host.LogOut = io.Discard
	}
	errc := make(chan error, 1)
	go func() {
		errc <- hal.RunHeadless(ctx, func(h hal.HAL) func() error {
			return NewWithConfig(h, cfg)
		}, hal.HeadlessConfig{Hz: 1000, Host: host})
	}()
	return ctx, errc
}

func TestDivisionByZeroRecoversEndToEnd(t *testing.T) {
	g := NewWithT(t)

	b := remote.NewBridge()
	defer b.Close()
	ctx, errc := runHeadless(t, Config{ErrorDelay: 100 * time.Millisecond, Remote: b}, hal.HostConfig{})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	d, err := b.Press(pctx, "8/0=")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d).To(Equal(proto.CalcDisplay{Current: "Error", Error: true}))

	d, err = b.Press(pctx, "5")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Error).To(BeTrue(), "input during the error window is ignored")

	display := func() (proto.CalcDisplay, error) {
		qctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return b.Display(qctx)
	}
	g.Eventually(display).WithTimeout(3 * time.Second).WithPolling(10 * time.Millisecond).
		Should(Equal(proto.CalcDisplay{Current: "0"}))

	g.Consistently(errc).ShouldNot(Receive())
}

func TestChainedComputationEndToEnd(t *testing.T) {
	g := NewWithT(t)

	b := remote.NewBridge()
	defer b.Close()
	ctx, _ := runHeadless(t, Config{Remote: b}, hal.HostConfig{})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	d, err := b.Press(pctx, "5+3×")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d).To(Equal(proto.CalcDisplay{Previous: "8 ×", Current: "0", Active: '×'}))

	d, err = b.Press(pctx, "2=")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Current).To(Equal("16"))

	d, err = b.Press(pctx, "\x1b1234567")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(d.Current).To(Equal("1,234,567"))
}

type lockedBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestConsoleFrontEndPrintsDisplays(t *testing.T) {
	g := NewWithT(t)

	out := &lockedBuffer{}
	logs := &lockedBuffer{}
	runHeadless(t, Config{Console: out}, hal.HostConfig{
		KeysIn: strings.NewReader("12+30\n"),
		LogOut: logs,
	})

	g.Eventually(out.String).WithTimeout(3 * time.Second).Should(ContainSubstring("42\n"))
	g.Expect(out.String()).To(ContainSubstring("12 + | 3"))
	g.Eventually(logs.String).WithTimeout(3 * time.Second).Should(ContainSubstring("calc: 12 + 30 = 42"))
}

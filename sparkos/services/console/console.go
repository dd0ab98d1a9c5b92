// Package console renders calc display snapshots on a text terminal. On a
// TTY the two lines are redrawn in place; otherwise every change is printed
// as one plain line.
package console

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"

	"github.com/gosuri/uilive"
	"github.com/mattn/go-isatty"
)

// DefaultWidth is the column the display lines are right-aligned to.
const DefaultWidth = 24

type Service struct {
	out     io.Writer
	calcCap kernel.Capability
	ep      kernel.Capability
	width   int

	live *uilive.Writer
	last proto.CalcDisplay
	seen bool
}

// New returns the console task. ep receives display pushes and needs both
// rights: its send half is the subscription handed to the calc task.
func New(out io.Writer, calcCap, ep kernel.Capability) *Service {
	s := &Service{out: out, calcCap: calcCap, ep: ep, width: DefaultWidth}
	if IsTerminal(out) {
		s.live = uilive.New()
		s.live.Out = out
	}
	return s
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *Service) Run(ctx *kernel.Context) {
	if s.out == nil {
		return
	}
	res := ctx.SendToCapRetry(s.calcCap, uint16(proto.MsgCalcSubscribe), nil, s.ep.Restrict(kernel.RightSend), 64)
	if res != kernel.SendOK {
		fmt.Fprintf(s.out, "console: subscribe: %s\n", res)
		return
	}

	for {
		msg, ok := ctx.Recv(s.ep)
		if !ok {
			return
		}
		switch proto.Kind(msg.Kind) {
		case proto.MsgCalcDisplay:
			if d, ok := proto.DecodeCalcDisplayPayload(msg.Payload()); ok {
				s.show(d)
			}
		case proto.MsgError:
			e, _ := proto.DecodeError(msg.Payload())
			fmt.Fprintf(s.out, "console: subscribe refused: %s\n", e.Code)
			return
		}
	}
}

func (s *Service) show(d proto.CalcDisplay) {
	if s.seen && d == s.last {
		return
	}
	s.seen = true
	s.last = d

	if s.live != nil {
		fmt.Fprint(s.live, Lines(d, s.width))
		_ = s.live.Flush()
		return
	}
	fmt.Fprintln(s.out, Plain(d))
}

// Lines renders both display lines right-aligned to width.
func Lines(d proto.CalcDisplay, width int) string {
	cur := d.Current
	if d.Truncated {
		cur = "<" + cur
	}
	if d.Error {
		cur = "! " + cur
	}
	return padLeft(d.Previous, width) + "\n" + padLeft(cur, width) + "\n"
}

// Plain renders the display as a single line.
func Plain(d proto.CalcDisplay) string {
	var b strings.Builder
	if d.Previous != "" {
		b.WriteString(d.Previous)
		b.WriteString(" | ")
	}
	if d.Truncated {
		b.WriteByte('<')
	}
	b.WriteString(d.Current)
	if d.Error {
		b.WriteString(" !")
	}
	return b.String()
}

func padLeft(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

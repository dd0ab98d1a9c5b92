// Package remote bridges Go callers outside the kernel (the MCP server) to
// the calc task: key strings go in as MsgTermInput and the display comes back
// from a MsgCalcQuery.
package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/proto"
)

// Key strings understood by the calc task for the non-printing keys.
const (
	KeyClear  = "\x1b"
	KeyDelete = "\x7f"
	KeyEnter  = "\n"
)

var ErrClosed = errors.New("remote: bridge closed")

type request struct {
	ctx   context.Context
	keys  string
	reply chan response
}

type response struct {
	display proto.CalcDisplay
	err     error
}

// Bridge is the caller side. It is safe for concurrent use; requests are
// served one at a time in arrival order.
type Bridge struct {
	reqs   chan request
	closed chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{reqs: make(chan request), closed: make(chan struct{})}
}

// Press sends keys to the calculator and returns the display after they
// were handled. An empty keys string only reads the display.
func (b *Bridge) Press(ctx context.Context, keys string) (proto.CalcDisplay, error) {
	req := request{ctx: ctx, keys: keys, reply: make(chan response, 1)}
	select {
	case b.reqs <- req:
	case <-b.closed:
		return proto.CalcDisplay{}, ErrClosed
	case <-ctx.Done():
		return proto.CalcDisplay{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp.display, resp.err
	case <-ctx.Done():
		return proto.CalcDisplay{}, ctx.Err()
	}
}

// Display returns the current display.
func (b *Bridge) Display(ctx context.Context) (proto.CalcDisplay, error) {
	return b.Press(ctx, "")
}

// Close fails pending and future requests.
func (b *Bridge) Close() {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
}

// Service is the kernel side of a Bridge.
type Service struct {
	b       *Bridge
	calcCap kernel.Capability
	ep      kernel.Capability

	// stale counts query replies still owed to callers that gave up.
	stale int
}

// New returns the bridge task. ep receives query replies and needs both rights.
func New(b *Bridge, calcCap, ep kernel.Capability) *Service {
	return &Service{b: b, calcCap: calcCap, ep: ep}
}

const sendRetries = 64

func (s *Service) Run(ctx *kernel.Context) {
	replies, ok := ctx.RecvChan(s.ep)
	if !ok {
		return
	}
	for {
		select {
		case <-s.b.closed:
			return
		case req := <-s.b.reqs:
			d, err := s.serve(ctx, replies, req)
			req.reply <- response{display: d, err: err}
		}
	}
}

func (s *Service) serve(ctx *kernel.Context, replies <-chan kernel.Message, req request) (proto.CalcDisplay, error) {
	for _, chunk := range chunks(req.keys, kernel.MaxMessageBytes) {
		res := ctx.SendToCapRetry(s.calcCap, uint16(proto.MsgTermInput), []byte(chunk), kernel.Capability{}, sendRetries)
		if res != kernel.SendOK {
			return proto.CalcDisplay{}, fmt.Errorf("remote: send keys: %s", res)
		}
	}

	res := ctx.SendToCapRetry(s.calcCap, uint16(proto.MsgCalcQuery), nil, s.ep.Restrict(kernel.RightSend), sendRetries)
	if res != kernel.SendOK {
		return proto.CalcDisplay{}, fmt.Errorf("remote: send query: %s", res)
	}

	for {
		select {
		case msg := <-replies:
			if proto.Kind(msg.Kind) != proto.MsgCalcDisplay {
				continue
			}
			if s.stale > 0 {
				s.stale--
				continue
			}
			d, ok := proto.DecodeCalcDisplayPayload(msg.Payload())
			if !ok {
				return proto.CalcDisplay{}, fmt.Errorf("remote: bad display payload")
			}
			return d, nil
		case <-req.ctx.Done():
			s.stale++
			return proto.CalcDisplay{}, req.ctx.Err()
		case <-s.b.closed:
			return proto.CalcDisplay{}, ErrClosed
		}
	}
}

// chunks splits s into pieces of at most n bytes without splitting a rune
// or an escape sequence.
func chunks(s string, n int) []string {
	var out []string
	for len(s) > n {
		i := n
		for i > 0 && !utf8.RuneStart(s[i]) {
			i--
		}
		if j := strings.LastIndexByte(s[:i], 0x1b); j > 0 && j+escapeLen(s[j:]) > i {
			i = j
		}
		out = append(out, s[:i])
		s = s[i:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// maxEscape bounds the "ESC [ params final" sequences the calculator reads.
const maxEscape = 8

// escapeLen is the length of the escape sequence at the start of s.
func escapeLen(s string) int {
	if len(s) < 2 || s[1] != '[' {
		return 1
	}
	for k := 2; k < len(s) && k < maxEscape; k++ {
		if s[k] >= 0x40 && s[k] <= 0x7e {
			return k + 1
		}
	}
	return min(len(s), maxEscape)
}

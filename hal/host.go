package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig selects where the host HAL writes logs and which extra key
// sources feed its keyboard.
type HostConfig struct {
	Width, Height int

	// LogOut receives logger lines. Defaults to os.Stdout.
	LogOut io.Writer

	// KeysIn is read byte by byte as keyboard input (console mode).
	KeysIn io.Reader

	// TapePath names a key tape file that is replayed and then followed.
	TapePath string
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
	t      *hostTime

	inputDone chan struct{}
}

// New returns a host HAL implementation with default config.
func New() HAL {
	return newHost(HostConfig{})
}

func newHost(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = 320
	}
	if cfg.Height <= 0 {
		cfg.Height = 320
	}
	out := cfg.LogOut
	if out == nil {
		out = os.Stdout
	}
	return &hostHAL{
		logger:    &hostLogger{w: out},
		fb:        newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:       newHostKeyboard(),
		ptr:       newHostPointer(),
		t:         newHostTime(),
		inputDone: make(chan struct{}),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time       { return h.t }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLine(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

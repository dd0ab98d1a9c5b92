package app

import (
	"io"
	"time"

	"sparkcalc/hal"
	"sparkcalc/sparkos/kernel"
	"sparkcalc/sparkos/services/console"
	"sparkcalc/sparkos/services/logger"
	"sparkcalc/sparkos/services/remote"
	"sparkcalc/sparkos/services/termkbd"
	timesvc "sparkcalc/sparkos/services/time"
	"sparkcalc/sparkos/tasks/calc"
)

type system struct {
	k *kernel.Kernel
}

type Config struct {
	// ErrorDelay is how long "Error" stays up after a division by zero.
	ErrorDelay time.Duration

	// Console, when set, receives the display as text.
	Console io.Writer

	// Remote, when set, is served by a bridge task.
	Remote *remote.Bridge
}

// New initializes and starts the OS with default config.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, Config{})
}

func NewWithConfig(h hal.HAL, cfg Config) func() error {
	_ = newSystem(h, cfg)
	return func() error { return nil }
}

func newSystem(h hal.HAL, cfg Config) *system {
	k := kernel.New()
	k.OnPanic(crashHandler(h))

	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	timeEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	calcEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(timesvc.New(timeEP.Restrict(kernel.RightRecv)))
	k.AddTask(calc.New(
		h.Display(),
		calcEP,
		timeEP.Restrict(kernel.RightSend),
		logEP.Restrict(kernel.RightSend),
		calc.Config{ErrorDelay: cfg.ErrorDelay},
	))
	k.AddTask(termkbd.New(h.Input(), calcEP.Restrict(kernel.RightSend)))

	if cfg.Console != nil {
		ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		k.AddTask(console.New(cfg.Console, calcEP.Restrict(kernel.RightSend), ep))
	}
	if cfg.Remote != nil {
		ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
		k.AddTask(remote.New(cfg.Remote, calcEP.Restrict(kernel.RightSend), ep))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	return &system{k: k}
}

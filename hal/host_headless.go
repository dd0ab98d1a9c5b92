package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig

	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int

	// Linger is how long to keep running once Host.KeysIn reaches EOF.
	// Zero keeps running until ctx is done or Ticks is reached.
	Linger time.Duration
}

// RunHeadless runs the OS without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := newHost(cfg.Host)
	h.startKeySources(ctx, cfg.Host)
	step := newApp(h)

	t := time.NewTicker(d)
	defer t.Stop()

	inputDone := h.inputDone
	if cfg.Host.KeysIn == nil || cfg.Linger <= 0 {
		inputDone = nil
	}
	var linger <-chan time.Time

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-inputDone:
			inputDone = nil
			linger = time.After(cfg.Linger)
		case <-linger:
			return nil
		case <-t.C:
			h.t.step(1)
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"sparkcalc/app"
	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
	"sparkcalc/sparkos/tasks/calc"
)

func main() {
	var cfg hal.HeadlessConfig
	var appCfg app.Config
	var console, version bool
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&console, "console", false, "Read keys from stdin and print the display to stdout (implies -headless).")
	flag.StringVar(&cfg.Host.TapePath, "keys", "", "Replay key presses from `file` and follow bytes appended to it.")
	flag.IntVar(&cfg.Host.Width, "width", 320, "Framebuffer width in pixels.")
	flag.IntVar(&cfg.Host.Height, "height", 320, "Framebuffer height in pixels.")
	flag.DurationVar(&appCfg.ErrorDelay, "error-delay", calc.DefaultErrorDelay, "How long Error stays up after a division by zero.")
	flag.BoolVar(&version, "version", false, "Print the build version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String("sparkcalc"))
		return
	}

	if console {
		cfg.Enabled = true
		cfg.Host.KeysIn = os.Stdin
		cfg.Host.LogOut = os.Stderr
		cfg.Linger = appCfg.ErrorDelay + 100*time.Millisecond
		appCfg.Console = os.Stdout
	}

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, cfg); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(cfg.Host, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command sparkcalc-mcp runs the calculator headless and serves it as MCP
// tools on stdin/stdout. Logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"sparkcalc/app"
	"sparkcalc/hal"
	"sparkcalc/internal/buildinfo"
	"sparkcalc/internal/mcpserver"
	"sparkcalc/sparkos/services/remote"
	"sparkcalc/sparkos/tasks/calc"
)

func main() {
	cfg := hal.HeadlessConfig{Enabled: true}
	var appCfg app.Config
	var version bool
	flag.IntVar(&cfg.Hz, "hz", 200, "Tick rate of the headless calculator.")
	flag.DurationVar(&appCfg.ErrorDelay, "error-delay", calc.DefaultErrorDelay, "How long Error stays up after a division by zero.")
	flag.BoolVar(&version, "version", false, "Print the build version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String("sparkcalc-mcp"))
		return
	}

	bridge := remote.NewBridge()
	defer bridge.Close()
	appCfg.Remote = bridge
	cfg.Host.LogOut = os.Stderr

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	newApp := func(h hal.HAL) func() error {
		return app.NewWithConfig(h, appCfg)
	}
	errc := make(chan error, 1)
	go func() {
		errc <- hal.RunHeadless(ctx, newApp, cfg)
	}()

	srv := mcpserver.New(bridge, buildinfo.Short())
	served := make(chan error, 1)
	go func() {
		served <- srv.ServeStdio()
	}()

	select {
	case err := <-served:
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case err := <-errc:
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "calculator stopped: %v\n", err)
			os.Exit(1)
		}
	}
}

// Package main is the platecount command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.plaquette.dev/platecount/cli"
	"go.plaquette.dev/platecount/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		// count swaps in the configured logger, so failures also reach the log file
		logging.Global().Errorw("platecount failed", "error", err)
		os.Exit(1)
	}
}

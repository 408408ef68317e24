package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cametumbling/discovery-pipeline/cmd/discover/commands"
)

// shutdownGrace bounds how long a cancelled run may take to unwind.
const shutdownGrace = 5 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for SIGINT (Ctrl+C)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- commands.ExecuteContext(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			os.Exit(1)
		}
	case sig := <-sigCh:
		fmt.Fprintf(os.Stderr, "\nReceived signal %v, shutting down...\n", sig)
		cancel()

		select {
		case <-errCh:
			os.Exit(1)
		case <-time.After(shutdownGrace):
			fmt.Fprintln(os.Stderr, "Shutdown timeout exceeded, forcing exit")
			os.Exit(1)
		}
	}
}

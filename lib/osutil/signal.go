package osutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context that is cancelled by the first Ctrl+C
// (or SIGTERM). A second signal exits the process with status 130.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		slog.Warn("interrupted, stopping the export (press Ctrl+C again to quit now)")
		cancel()
		<-sigs
		os.Exit(130)
	}()

	return ctx
}

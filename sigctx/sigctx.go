// Package sigctx provides a context canceled by SIGINT or SIGTERM.
package sigctx

import (
	"context"
	"os/signal"
	"syscall"
)

// New returns a context that is canceled when the process receives an
// interrupt or termination signal. A second signal kills the process the
// usual way.
func New() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

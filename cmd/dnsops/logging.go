package main

import (
	"context"
	"time"

	"github.com/northroot-labs/dnsops/internal/logging"
)

// withCmdRunLogger emits a start log line and returns a context with the
// operation attached, plus a cleanup function to emit the success or
// failure line.
//
// Usage:
//
//	ctx, cleanup := withCmdRunLogger(ctx, "cutover.run", domain)
//	defer func() { cleanup(err) }()
//
// Log message format:
// - Start:   CMD:<operation>/S
// - Success: CMD:<operation>/EOK
// - Failure: CMD:<operation>/EFAIL
func withCmdRunLogger(ctx context.Context, operation, domain string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("domain", domain)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "CMD:"+operation+"/S")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "CMD:"+operation+"/EOK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 96 {
			errStr = errStr[:96] + "..."
		}
		logger.Info(ctx, "CMD:"+operation+"/EFAIL", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}

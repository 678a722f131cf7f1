package dispatch

import (
	"context"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// RunTicker re-evaluates all patients every interval until ctx is
// cancelled. The ledger dedup makes each sweep idempotent, so the
// interval only bounds dispatch latency, not dedup correctness.
func RunTicker(ctx context.Context, svc *Service, interval time.Duration, logger log.Logger) {
	if logger == nil {
		logger = log.Nop()
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	logger.Info(ctx, "dispatch ticker started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info(context.WithoutCancel(ctx), "dispatch ticker stopped")
			return
		case <-t.C:
			if err := svc.RunAll(ctx); err != nil {
				logger.Error(ctx, err, "dispatch sweep failed")
			}
		}
	}
}

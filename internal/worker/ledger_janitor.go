package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultJanitorInterval is how often idle rate limit keys are swept.
const DefaultJanitorInterval = 5 * time.Minute

// Sweeper drops idle entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// RunLedgerJanitor sweeps the login ledger every interval until ctx is done.
func RunLedgerJanitor(ctx context.Context, ledger Sweeper, interval time.Duration, logger *zap.Logger) {
	if ledger == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := ledger.Sweep(); removed > 0 {
				logger.Debug("login ledger swept", zap.Int("removed", removed))
			}
		}
	}
}

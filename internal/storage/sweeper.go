package storage

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartExpirySweeper deactivates expired links with interval until ctx
// is cancelled.
func StartExpirySweeper(ctx context.Context, store *MemoryStore, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				touched, err := store.DeactivateExpired(ctx, time.Now())
				if err != nil {
					log.Error("failed to sweep expired links", zap.Error(err))
					continue
				}
				if touched > 0 {
					log.Info("deactivated expired links", zap.Int("count", touched))
				}
			}
		}
	}()
}

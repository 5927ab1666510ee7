package auth

import (
	"context"
	"log/slog"
	"time"

	"portal/internal/domain/repositories"
)

// RunSessionSweeper removes lapsed sessions every interval until ctx is done.
func RunSessionSweeper(ctx context.Context, sweeper repositories.SessionSweeper, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := sweeper.DeleteExpired(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("session sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("expired sessions removed", "count", removed)
			}
		}
	}
}

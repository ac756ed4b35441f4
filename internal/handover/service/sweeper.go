package service

import (
	"context"
	"time"
)

// RunSweeper deletes expired records on a fixed interval until the context is
// cancelled. The sweep uses the store's own DeleteExpired, which shares the
// claim path's per-record state, so it can never evict a record out from
// under a concurrent claim. Sweep failures are logged and retried on the next
// tick; correctness never depends on the sweep.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			deleted, err := s.store.DeleteExpired(ctx, s.clock())
			if err != nil {
				s.logger.WarnContext(ctx, "handover sweep failed", "error", err)
				continue
			}
			if deleted > 0 {
				s.metrics.AddSwept(deleted)
				s.logger.DebugContext(ctx, "handover sweep completed", "deleted", deleted)
			}
		}
	}
}

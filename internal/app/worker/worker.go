package worker

import (
	"context"
	"log/slog"
	"time"

	"chatwire/internal/core/services"
)

// PresenceSyncWorker re-publishes the registry snapshot into the redis
// mirror on a ticker. Broadcast-time writes keep the mirror current;
// this loop keeps the TTL-scored entries from expiring during quiet
// periods with no registry churn.
type PresenceSyncWorker struct {
	log      *slog.Logger
	presence *services.PresenceService
	interval time.Duration
}

func NewPresenceSyncWorker(
	log *slog.Logger,
	presence *services.PresenceService,
	interval time.Duration,
) *PresenceSyncWorker {
	return &PresenceSyncWorker{
		log:      log,
		presence: presence,
		interval: interval,
	}
}

func (w *PresenceSyncWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("presence sync worker - stopped")
			return
		case <-ticker.C:
			w.presence.Sync(ctx)
		}
	}
}

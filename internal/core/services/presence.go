package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"chatwire/internal/core/contracts"
	"chatwire/internal/core/domain"
)

var presenceTracer = otel.Tracer("presence-service")

// PresenceService pushes the full online set to every live connection
// after each registry change. No diffing against the previous snapshot:
// every change resends the whole set, which is the intended bandwidth
// trade-off at this scale.
type PresenceService struct {
	log       *slog.Logger
	registry  contracts.Registry
	mirror    contracts.PresenceMirror
	mirrorTTL time.Duration
}

func NewPresenceService(
	log *slog.Logger,
	registry contracts.Registry,
	mirror contracts.PresenceMirror,
	mirrorTTL time.Duration,
) *PresenceService {
	return &PresenceService{
		log:       log,
		registry:  registry,
		mirror:    mirror,
		mirrorTTL: mirrorTTL,
	}
}

// Broadcast snapshots the registry and pushes a presence event to every
// registered connection, including the one that just joined or left.
// A connection that fails the push is lazily unregistered and the
// broadcast runs again so survivors see the corrected set.
func (s *PresenceService) Broadcast(ctx context.Context) {
	for {
		snapshot := s.registry.Snapshot()
		data, err := json.Marshal(domain.PresenceEvent{
			Type:   domain.TypePresence,
			Online: snapshot,
		})
		if err != nil {
			s.log.ErrorContext(ctx, "presence - broadcast - marshal failed", "err", err)
			return
		}

		_, span := presenceTracer.Start(ctx, "PresenceService.Broadcast")
		span.SetAttributes(attribute.Int("presence.online", len(snapshot)))

		pruned := false
		for identity, c := range s.registry.All() {
			if err := c.Send(ctx, data); err != nil {
				// Stale entry: the transport is gone but the registry
				// still holds the handle. Guarded remove, then resend.
				if s.registry.Unregister(identity, c) {
					pruned = true
				}
				s.log.WarnContext(ctx, "presence - broadcast - push failed, entry pruned",
					"user_id", identity, "err", err)
			}
		}
		span.End()

		s.mirrorSnapshot(ctx, snapshot)
		if !pruned {
			return
		}
	}
}

func (s *PresenceService) mirrorSnapshot(ctx context.Context, online []string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.PublishSnapshot(ctx, online, s.mirrorTTL); err != nil {
		s.log.WarnContext(ctx, "presence - mirror publish failed", "err", err)
	}
}

// Sync re-publishes the current snapshot to the mirror without touching
// any connection. The worker calls this on a ticker so the mirrored TTL
// keys stay fresh between registry changes.
func (s *PresenceService) Sync(ctx context.Context) {
	s.mirrorSnapshot(ctx, s.registry.Snapshot())
}

// Online returns the authoritative online set.
func (s *PresenceService) Online() []string {
	return s.registry.Snapshot()
}

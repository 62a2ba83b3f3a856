package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chatwire/internal/core/contracts"
	"chatwire/internal/core/domain"
)

var relayTracer = otel.Tracer("relay-service")

// Outcome is the result of a relay attempt. RecipientOffline is the
// normal steady state for offline receivers, not an error: the record
// is already durable and can be fetched from history later.
type Outcome int

const (
	Delivered Outcome = iota
	RecipientOffline
)

func (o Outcome) String() string {
	if o == Delivered {
		return "delivered"
	}
	return "recipient_offline"
}

// RelayService pushes an already-persisted message to the receiver's
// live connection, if any. Best effort only: it never buffers, never
// retries, and never surfaces a failure to the sender.
type RelayService struct {
	log      *slog.Logger
	registry contracts.Registry
	presence *PresenceService
}

func NewRelayService(log *slog.Logger, registry contracts.Registry, presence *PresenceService) *RelayService {
	return &RelayService{
		log:      log,
		registry: registry,
		presence: presence,
	}
}

// Relay resolves rec.ReceiverID in the registry and pushes a
// new-message event carrying the full record. A push failure means the
// registry entry went stale mid-flight: the entry is removed (guarded)
// and the outcome downgrades to RecipientOffline.
func (s *RelayService) Relay(ctx context.Context, rec domain.MessageRecord) Outcome {
	ctx, span := relayTracer.Start(ctx, "RelayService.Relay", trace.WithAttributes(
		attribute.String("message.id", rec.ID.String()),
		attribute.String("message.receiver_id", rec.ReceiverID),
	))
	defer span.End()

	c, ok := s.registry.Lookup(rec.ReceiverID)
	if !ok {
		span.SetAttributes(attribute.String("relay.outcome", RecipientOffline.String()))
		return RecipientOffline
	}

	data, err := json.Marshal(domain.NewMessageEvent{
		Type:    domain.TypeNewMessage,
		Message: rec,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "relay - marshal failed", "message_id", rec.ID, "err", err)
		return RecipientOffline
	}

	if err := c.Send(ctx, data); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("relay.outcome", RecipientOffline.String()))
		s.log.WarnContext(ctx, "relay - push failed, entry pruned",
			"message_id", rec.ID, "receiver_id", rec.ReceiverID, "err", err)
		if s.registry.Unregister(rec.ReceiverID, c) {
			s.presence.Broadcast(ctx)
		}
		return RecipientOffline
	}
	span.SetAttributes(attribute.String("relay.outcome", Delivered.String()))
	return Delivered
}

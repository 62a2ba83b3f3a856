package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chatwire/internal/core/contracts"
	"chatwire/internal/core/domain"
)

var deliveryTracer = otel.Tracer("delivery-service")

// DeliveryService is the public entry point of the delivery core.
// The send path persists through the durable store and only then lets
// the relay notify the receiver; the receive path drives the
// per-connection lifecycle against the registry.
type DeliveryService struct {
	log      *slog.Logger
	repo     domain.MessageRepository
	tx       contracts.TxRunner
	registry contracts.Registry
	relay    *RelayService
	presence *PresenceService
}

func NewDeliveryService(
	log *slog.Logger,
	repo domain.MessageRepository,
	tx contracts.TxRunner,
	registry contracts.Registry,
	relay *RelayService,
	presence *PresenceService,
) *DeliveryService {
	return &DeliveryService{
		log:      log,
		repo:     repo,
		tx:       tx,
		registry: registry,
		relay:    relay,
		presence: presence,
	}
}

// Send validates, persists, then relays. Persistence is the source of
// truth: a storage failure aborts before any relay attempt, and the
// relay outcome never affects the sender's response.
func (s *DeliveryService) Send(ctx context.Context, senderID string, req domain.SendRequest) (*domain.MessageRecord, error) {
	ctx, span := deliveryTracer.Start(ctx, "DeliveryService.Send", trace.WithAttributes(
		attribute.String("message.sender_id", senderID),
		attribute.String("message.receiver_id", req.ReceiverID),
	))
	defer span.End()

	if req.ReceiverID == "" {
		span.RecordError(domain.ErrValidation)
		return nil, fmt.Errorf("%w: receiver is required", domain.ErrValidation)
	}
	if req.Empty() {
		span.RecordError(domain.ErrValidation)
		return nil, fmt.Errorf("%w: text or attachment is required", domain.ErrValidation)
	}

	var rec *domain.MessageRecord
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		var txErr error
		rec, txErr = s.repo.Save(txCtx, senderID, req.ReceiverID, req.Text, req.Attachment)
		return txErr
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.log.ErrorContext(ctx, "delivery - send - persist failed",
			"sender_id", senderID, "receiver_id", req.ReceiverID, "err", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	outcome := s.relay.Relay(ctx, *rec)
	span.SetAttributes(attribute.String("relay.outcome", outcome.String()))
	s.log.InfoContext(ctx, "delivery - send - message persisted",
		"message_id", rec.ID, "sender_id", senderID, "receiver_id", req.ReceiverID,
		"relay", outcome.String())
	return rec, nil
}

// Connect admits an authenticated connection: register (overwriting any
// previous handle for the identity) and broadcast the new online set.
func (s *DeliveryService) Connect(ctx context.Context, identity string, c contracts.Client) {
	s.registry.Register(identity, c)
	s.log.InfoContext(ctx, "delivery - connect - registered", "user_id", identity)
	s.presence.Broadcast(ctx)
}

// Disconnect releases the connection's registry entry. The removal is
// guarded on the handle, so a stale callback from an overwritten
// connection changes nothing and triggers no broadcast.
func (s *DeliveryService) Disconnect(ctx context.Context, identity string, c contracts.Client) {
	if s.registry.Unregister(identity, c) {
		s.log.InfoContext(ctx, "delivery - disconnect - unregistered", "user_id", identity)
		s.presence.Broadcast(ctx)
	}
}

// HandleInbound dispatches one socket frame from an authenticated,
// registered connection. Unknown payload shapes are dropped with a
// warning; the channel stays open.
func (s *DeliveryService) HandleInbound(ctx context.Context, identity string, raw []byte) {
	var ev domain.InboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		s.log.WarnContext(ctx, "delivery - inbound - undecodable frame dropped",
			"user_id", identity, "size", len(raw))
		return
	}
	switch ev.Type {
	case domain.TypePing:
		// Liveness only. The transport-level pong already answered.
	default:
		s.log.WarnContext(ctx, "delivery - inbound - unknown event dropped",
			"user_id", identity, "event_type", ev.Type)
	}
}

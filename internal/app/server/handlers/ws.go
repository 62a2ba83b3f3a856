package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chatwire/internal/app/server/ws"
	"chatwire/internal/core/services"
	"chatwire/internal/platform/logger"
	"chatwire/pkg/middleware"
)

// WSHandler drives the receive path of the delivery gateway: the auth
// middleware has already validated the handshake token, so by the time
// Handler runs the connection is Authenticated. Registration, the
// per-connection read loop, and teardown all live here.
type WSHandler struct {
	delivery *services.DeliveryService
	upgrader websocket.Upgrader
}

func NewWSHandler(delivery *services.DeliveryService) *WSHandler {
	return &WSHandler{
		delivery: delivery,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // tighten later
			},
		},
	}
}

func (h *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		// Auth failure is terminal: no registry mutation on this path.
		log.ErrorContext(r.Context(), "ws handler - missing user identity")
		http.Error(w, "authentication error", http.StatusUnauthorized)
		return
	}
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("user.id", userID))

	// The session outlives the HTTP request's cancellation.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", err)
		cancel()
		return
	}
	defer cancel()
	conn.SetCloseHandler(func(code int, text string) error {
		log.Info("ws handler - transport closed", "user_id", userID, "code", code)
		cancel()
		return nil
	})
	socket := ws.NewWebSocket(ctx, conn)
	client := ws.NewClient(ctx, socket, userID)

	h.delivery.Connect(ctx, userID, client)
	// Teardown order matters: unregister before closing the handle so
	// no broadcast still finds a closed client in the registry, and
	// broadcast under the session context, not the connection's own
	// (already cancelled) one.
	defer client.Close()
	defer h.delivery.Disconnect(sessionCtx, userID, client)
	log.InfoContext(r.Context(), "ws handler - connection established", "user_id", userID)

	socket.ReadLoop(func(data []byte) {
		h.delivery.HandleInbound(ctx, userID, data)
	})
}

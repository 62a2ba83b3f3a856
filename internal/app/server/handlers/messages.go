package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chatwire/internal/core/domain"
	"chatwire/internal/core/services"
	"chatwire/internal/platform/logger"
	"chatwire/pkg/middleware"
)

// MessageHandler serves the send path and the history/contacts reads.
type MessageHandler struct {
	delivery *services.DeliveryService
	messages domain.MessageRepository
	users    domain.UserRepository
}

func NewMessageHandler(
	delivery *services.DeliveryService,
	messages domain.MessageRepository,
	users domain.UserRepository,
) *MessageHandler {
	return &MessageHandler{
		delivery: delivery,
		messages: messages,
		users:    users,
	}
}

// Send handles POST /api/messages/send/{receiverId}. The response is
// the persisted record regardless of whether the receiver was online.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	senderID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication error", http.StatusUnauthorized)
		return
	}
	var req domain.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "messages handler - send - bad request body", "err", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.ReceiverID = r.PathValue("receiverId")

	rec, err := h.delivery.Send(r.Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrStorage):
			http.Error(w, "storage error", http.StatusInternalServerError)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// History handles GET /api/messages/{userId}: the conversation between
// the authenticated user and userId, oldest first.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	selfID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication error", http.StatusUnauthorized)
		return
	}
	peerID := r.PathValue("userId")
	msgs, err := h.messages.ListConversation(r.Context(), selfID, peerID)
	if err != nil {
		log.ErrorContext(r.Context(), "messages handler - history failed", "peer_id", peerID, "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if msgs == nil {
		msgs = []domain.MessageRecord{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Contacts handles GET /api/users: every known user except self.
func (h *MessageHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	selfID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication error", http.StatusUnauthorized)
		return
	}
	users, err := h.users.ListContacts(r.Context(), selfID)
	if err != nil {
		log.ErrorContext(r.Context(), "messages handler - contacts failed", "err", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

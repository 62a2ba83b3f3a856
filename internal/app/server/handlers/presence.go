package handlers

import (
	"net/http"

	"chatwire/internal/core/services"
)

// PresenceHandler exposes the current online set over REST. The
// in-memory registry answers directly; the redis mirror is not read
// here because this process owns the authoritative copy.
type PresenceHandler struct {
	presence *services.PresenceService
}

func NewPresenceHandler(presence *services.PresenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

func (h *PresenceHandler) Online(w http.ResponseWriter, r *http.Request) {
	online := h.presence.Online()
	if online == nil {
		online = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"online": online})
}

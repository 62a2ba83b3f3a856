package domain

const (
	TypePresence   = "presence"
	TypeNewMessage = "new_message"
	TypePing       = "ping"
	TypeError      = "error"
)

// PresenceEvent is pushed to every live connection on any registry
// change. It always carries the full online set, never a diff.
type PresenceEvent struct {
	Type   string   `json:"type"` // "presence"
	Online []string `json:"online"`
}

// NewMessageEvent is pushed only to the receiver's connection.
type NewMessageEvent struct {
	Type    string        `json:"type"` // "new_message"
	Message MessageRecord `json:"message"`
}

// InboundEvent is the envelope for anything a client sends over the
// socket after the handshake. Only the type field is inspected first;
// unknown types are dropped without closing the channel.
type InboundEvent struct {
	Type string `json:"type"`
}

// ErrorEvent is a socket-safe error shape.
type ErrorEvent struct {
	Type    string `json:"type"` // "error"
	Code    string `json:"code"`
	Message string `json:"message"`
}

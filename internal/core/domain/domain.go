package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a read-only projection of the external account store.
// The account store owns credentials and signup; this service only
// looks users up by the identity embedded in a validated token.
type User struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}

// MessageRecord is the canonical, durable form of a chat message.
// Created once by the send path, persisted before any relay attempt,
// never mutated afterwards.
type MessageRecord struct {
	ID         uuid.UUID `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text,omitempty"`
	Attachment string    `json:"attachment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SendRequest is the inbound shape of the REST send path.
type SendRequest struct {
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

// Empty reports whether the request carries neither text nor attachment.
func (r SendRequest) Empty() bool {
	return r.Text == "" && r.Attachment == ""
}

package domain

import "context"

// MessageRepository is the durable message store. Save assigns the
// canonical id and timestamp; the returned record is the source of
// truth for everything downstream.
type MessageRepository interface {
	Save(ctx context.Context, senderID, receiverID, text, attachment string) (*MessageRecord, error)
	// ListConversation returns all messages exchanged between the two
	// users in either direction, oldest first.
	ListConversation(ctx context.Context, userA, userB string) ([]MessageRecord, error)
}

// UserRepository reads the account-store projection.
type UserRepository interface {
	// ListContacts returns every known user except selfID.
	ListContacts(ctx context.Context, selfID string) ([]User, error)
}

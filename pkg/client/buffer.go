package client

import (
	"sync"

	"github.com/google/uuid"

	"chatwire/internal/core/domain"
)

// Buffer holds the message records of one open conversation in arrival
// order. The same record can reach the consumer twice: once as the REST
// send response and once as the socket push. Append rejects the second
// copy by id.
type Buffer struct {
	mu      sync.Mutex
	peerID  string
	records []domain.MessageRecord
	seen    map[uuid.UUID]struct{}
}

func NewBuffer(peerID string) *Buffer {
	return &Buffer{
		peerID: peerID,
		seen:   make(map[uuid.UUID]struct{}),
	}
}

func (b *Buffer) PeerID() string { return b.peerID }

// Append adds rec unless a record with the same id is already buffered.
// It reports whether the record was added.
func (b *Buffer) Append(rec domain.MessageRecord) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[rec.ID]; dup {
		return false
	}
	b.seen[rec.ID] = struct{}{}
	b.records = append(b.records, rec)
	return true
}

// AppendIfFrom appends only when rec belongs to this conversation,
// i.e. was sent by the peer whose chat is open.
func (b *Buffer) AppendIfFrom(rec domain.MessageRecord) bool {
	if rec.SenderID != b.peerID {
		return false
	}
	return b.Append(rec)
}

// Reset replaces the buffer contents with a history fetch.
func (b *Buffer) Reset(records []domain.MessageRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
	b.seen = make(map[uuid.UUID]struct{}, len(records))
	for _, rec := range records {
		if _, dup := b.seen[rec.ID]; dup {
			continue
		}
		b.seen[rec.ID] = struct{}{}
		b.records = append(b.records, rec)
	}
}

// Records returns a copy of the buffered records in order.
func (b *Buffer) Records() []domain.MessageRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.MessageRecord, len(b.records))
	copy(out, b.records)
	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

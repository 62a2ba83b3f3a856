package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"chatwire/internal/app/registry"
	"chatwire/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient records every frame pushed to it. Setting failing makes
// every Send fail, simulating a connection whose transport died while
// its registry entry is still present.
type fakeClient struct {
	id      string
	mu      sync.Mutex
	frames  [][]byte
	failing bool
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (c *fakeClient) UserID() string { return c.id }

func (c *fakeClient) Send(ctx context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failing {
		return errors.New("transport closed")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *fakeClient) Close() {}

func (c *fakeClient) fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = true
}

func (c *fakeClient) sent() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *fakeClient) presenceEvents(t *testing.T) []domain.PresenceEvent {
	t.Helper()
	var events []domain.PresenceEvent
	for _, frame := range c.sent() {
		var envelope domain.InboundEvent
		if err := json.Unmarshal(frame, &envelope); err != nil || envelope.Type != domain.TypePresence {
			continue
		}
		var ev domain.PresenceEvent
		if err := json.Unmarshal(frame, &ev); err != nil {
			t.Fatalf("bad presence frame: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

func (c *fakeClient) messageEvents(t *testing.T) []domain.NewMessageEvent {
	t.Helper()
	var events []domain.NewMessageEvent
	for _, frame := range c.sent() {
		var envelope domain.InboundEvent
		if err := json.Unmarshal(frame, &envelope); err != nil || envelope.Type != domain.TypeNewMessage {
			continue
		}
		var ev domain.NewMessageEvent
		if err := json.Unmarshal(frame, &ev); err != nil {
			t.Fatalf("bad message frame: %v", err)
		}
		events = append(events, ev)
	}
	return events
}

// fakeMessageRepo persists in memory and can be told to fail.
type fakeMessageRepo struct {
	mu      sync.Mutex
	saved   []domain.MessageRecord
	saveErr error
}

func (r *fakeMessageRepo) Save(
	ctx context.Context,
	senderID, receiverID, text, attachment string,
) (*domain.MessageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	rec := domain.MessageRecord{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Attachment: attachment,
		CreatedAt:  time.Now().UTC(),
	}
	r.saved = append(r.saved, rec)
	return &rec, nil
}

func (r *fakeMessageRepo) ListConversation(ctx context.Context, userA, userB string) ([]domain.MessageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.MessageRecord
	for _, rec := range r.saved {
		if (rec.SenderID == userA && rec.ReceiverID == userB) ||
			(rec.SenderID == userB && rec.ReceiverID == userA) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) savedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

// fakeMirror records every snapshot published to it.
type fakeMirror struct {
	mu        sync.Mutex
	snapshots [][]string
	ttl       time.Duration
}

func (m *fakeMirror) PublishSnapshot(ctx context.Context, online []string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(online))
	copy(cp, online)
	m.snapshots = append(m.snapshots, cp)
	m.ttl = ttl
	return nil
}

func (m *fakeMirror) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = nil
	return nil
}

func (m *fakeMirror) published() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.snapshots))
	copy(out, m.snapshots)
	return out
}

// passthroughTx runs the function without any transaction.
type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// core wires a full delivery stack over an isolated registry.
type core struct {
	hub      *registry.Registry
	repo     *fakeMessageRepo
	presence *PresenceService
	relay    *RelayService
	delivery *DeliveryService
}

func newCore() *core {
	log := testLogger()
	hub := registry.NewRegistry()
	repo := &fakeMessageRepo{}
	presence := NewPresenceService(log, hub, nil, time.Minute)
	relay := NewRelayService(log, hub, presence)
	delivery := NewDeliveryService(log, repo, passthroughTx{}, hub, relay, presence)
	return &core{
		hub:      hub,
		repo:     repo,
		presence: presence,
		relay:    relay,
		delivery: delivery,
	}
}

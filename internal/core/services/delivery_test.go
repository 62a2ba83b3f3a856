package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"chatwire/internal/core/domain"
)

func TestSend_ValidationRejectsEmptyPayload(t *testing.T) {
	req := require.New(t)
	c := newCore()

	_, err := c.delivery.Send(context.Background(), "alice", domain.SendRequest{ReceiverID: "bob"})
	req.ErrorIs(err, domain.ErrValidation)
	req.Zero(c.repo.savedCount())

	_, err = c.delivery.Send(context.Background(), "alice", domain.SendRequest{Text: "hi"})
	req.ErrorIs(err, domain.ErrValidation)
	req.Zero(c.repo.savedCount())
}

func TestSend_StorageFailureAbortsBeforeRelay(t *testing.T) {
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	bob := newFakeClient("bob")
	c.hub.Register("bob", bob)
	c.repo.saveErr = errors.New("disk on fire")

	_, err := c.delivery.Send(ctx, "alice", domain.SendRequest{ReceiverID: "bob", Text: "hi"})

	req.ErrorIs(err, domain.ErrStorage)
	// A message that failed to persist must never produce a phantom
	// delivery notification.
	req.Empty(bob.messageEvents(t))
}

func TestSend_OnlineReceiverGetsExactlyOneEvent(t *testing.T) {
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	bob := newFakeClient("bob")
	c.hub.Register("bob", bob)

	rec, err := c.delivery.Send(ctx, "alice", domain.SendRequest{ReceiverID: "bob", Text: "hi"})
	req.NoError(err)
	req.Equal("alice", rec.SenderID)
	req.Equal("bob", rec.ReceiverID)
	req.Equal("hi", rec.Text)
	req.False(rec.CreatedAt.IsZero())

	events := bob.messageEvents(t)
	req.Len(events, 1)
	req.Equal(*rec, events[0].Message)
}

func TestSend_OfflineReceiverStillPersists(t *testing.T) {
	req := require.New(t)
	c := newCore()

	rec, err := c.delivery.Send(context.Background(), "alice",
		domain.SendRequest{ReceiverID: "bob", Attachment: "ref/123"})
	req.NoError(err)
	req.NotNil(rec)
	req.Equal(1, c.repo.savedCount())

	// A later connect does not retroactively deliver the missed event;
	// it only shows up through the history query.
	bob := newFakeClient("bob")
	c.delivery.Connect(context.Background(), "bob", bob)
	req.Empty(bob.messageEvents(t))

	history, err := c.repo.ListConversation(context.Background(), "alice", "bob")
	req.NoError(err)
	req.Len(history, 1)
	req.Equal(rec.ID, history[0].ID)
}

func TestSend_DuplicateSendsProduceDistinctRecords(t *testing.T) {
	// Transport-level retries are not deduplicated; two sends are two
	// records. Known non-goal, asserted so it stays deliberate.
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	first, err := c.delivery.Send(ctx, "alice", domain.SendRequest{ReceiverID: "bob", Text: "hi"})
	req.NoError(err)
	second, err := c.delivery.Send(ctx, "alice", domain.SendRequest{ReceiverID: "bob", Text: "hi"})
	req.NoError(err)

	req.NotEqual(first.ID, second.ID)
	req.Equal(2, c.repo.savedCount())
}

func TestHandleInbound_UnknownEventKeepsChannelOpen(t *testing.T) {
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	alice := newFakeClient("alice")
	c.delivery.Connect(ctx, "alice", alice)

	c.delivery.HandleInbound(ctx, "alice", []byte(`{"type":"launch_missiles"}`))
	c.delivery.HandleInbound(ctx, "alice", []byte(`not json at all`))
	c.delivery.HandleInbound(ctx, "alice", []byte(`{"type":"ping"}`))

	// Still registered, nothing pushed back.
	req.Equal([]string{"alice"}, c.hub.Snapshot())
	req.Empty(alice.messageEvents(t))
}

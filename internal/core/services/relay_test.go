package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chatwire/internal/core/domain"
)

func record(sender, receiver, text string) domain.MessageRecord {
	return domain.MessageRecord{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestRelay_DeliveredToOnlineReceiver(t *testing.T) {
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	bob := newFakeClient("bob")
	c.hub.Register("bob", bob)

	rec := record("alice", "bob", "hi")
	req.Equal(Delivered, c.relay.Relay(ctx, rec))

	events := bob.messageEvents(t)
	req.Len(events, 1)
	req.Equal(rec.ID, events[0].Message.ID)
	req.Equal("alice", events[0].Message.SenderID)
	req.Equal("hi", events[0].Message.Text)
}

func TestRelay_RecipientOfflineIsNotAnError(t *testing.T) {
	c := newCore()
	outcome := c.relay.Relay(context.Background(), record("alice", "bob", "hi"))
	require.Equal(t, RecipientOffline, outcome)
}

func TestRelay_MidPushFailureDowngradesAndPrunes(t *testing.T) {
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	alice := newFakeClient("alice")
	dead := newFakeClient("bob")
	dead.fail()
	c.hub.Register("alice", alice)
	c.hub.Register("bob", dead)

	outcome := c.relay.Relay(ctx, record("alice", "bob", "hi"))

	req.Equal(RecipientOffline, outcome)
	// Lazy cleanup: the stale entry is gone and the survivors were told.
	req.Equal([]string{"alice"}, c.hub.Snapshot())
	events := alice.presenceEvents(t)
	req.NotEmpty(events)
	req.Equal([]string{"alice"}, events[len(events)-1].Online)
}

func TestRelay_DoesNotPushToSenderOrThirdParties(t *testing.T) {
	req := require.New(t)
	c := newCore()
	ctx := context.Background()

	alice := newFakeClient("alice")
	bob := newFakeClient("bob")
	carol := newFakeClient("carol")
	c.hub.Register("alice", alice)
	c.hub.Register("bob", bob)
	c.hub.Register("carol", carol)

	c.relay.Relay(ctx, record("alice", "bob", "hi"))

	req.Empty(alice.messageEvents(t))
	req.Len(bob.messageEvents(t), 1)
	req.Empty(carol.messageEvents(t))
}

package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chatwire/internal/core/domain"
)

func rec(sender string, text string) domain.MessageRecord {
	return domain.MessageRecord{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: "me",
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestBuffer_AppendRejectsDuplicateID(t *testing.T) {
	req := require.New(t)
	b := NewBuffer("peer")

	// The REST send response and the socket push carry the same record.
	r := rec("peer", "hi")
	req.True(b.Append(r))
	req.False(b.Append(r))

	req.Equal(1, b.Len())
	req.Equal([]domain.MessageRecord{r}, b.Records())
}

func TestBuffer_PreservesArrivalOrder(t *testing.T) {
	req := require.New(t)
	b := NewBuffer("peer")

	first := rec("peer", "one")
	second := rec("peer", "two")
	third := rec("peer", "three")
	b.Append(first)
	b.Append(second)
	b.Append(third)

	got := b.Records()
	req.Equal([]string{"one", "two", "three"}, []string{got[0].Text, got[1].Text, got[2].Text})
}

func TestBuffer_AppendIfFromFiltersOtherConversations(t *testing.T) {
	req := require.New(t)
	b := NewBuffer("peer")

	req.True(b.AppendIfFrom(rec("peer", "for this chat")))
	req.False(b.AppendIfFrom(rec("someone-else", "different chat")))
	req.Equal(1, b.Len())
}

func TestBuffer_ResetDropsStateAndDedups(t *testing.T) {
	req := require.New(t)
	b := NewBuffer("peer")
	b.Append(rec("peer", "stale"))

	kept := rec("peer", "historic")
	b.Reset([]domain.MessageRecord{kept, kept})

	req.Equal(1, b.Len())
	req.Equal("historic", b.Records()[0].Text)

	// Records returns a copy; mutating it must not corrupt the buffer.
	out := b.Records()
	out[0].Text = "mutated"
	req.Equal("historic", b.Records()[0].Text)
}

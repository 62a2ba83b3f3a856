package contracts

import (
	"context"
	"time"
)

// PresenceMirror is a best-effort external copy of the online set.
// The in-memory registry stays authoritative and this process never
// reads the mirror back; it is refreshed with a TTL so it self-expires
// if the process dies, and cleared explicitly on graceful shutdown.
type PresenceMirror interface {
	PublishSnapshot(ctx context.Context, online []string, ttl time.Duration) error
	Clear(ctx context.Context) error
}

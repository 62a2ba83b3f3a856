package contracts

import "context"

// Client is the minimal surface the core needs to talk to one live
// WebSocket connection.
type Client interface {
	UserID() string
	Send(ctx context.Context, data []byte) error
	Close()
}

// Registry maps a user identity to its single live connection handle.
// A later Register for the same identity overwrites the earlier entry;
// Unregister is compare-and-remove keyed on the handle so a stale
// disconnect callback can never clobber a newer connection.
type Registry interface {
	Register(identity string, c Client)
	// Unregister removes the mapping only if c is the stored handle.
	// It reports whether an entry was actually removed.
	Unregister(identity string, c Client) bool
	Lookup(identity string) (Client, bool)
	// Snapshot returns the current set of online identities.
	Snapshot() []string
	// All returns a copy of the current identity → handle pairs so a
	// broadcast can iterate without holding the registry lock.
	All() map[string]Client
}

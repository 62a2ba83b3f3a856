package registry

import (
	"sync"

	"chatwire/internal/core/contracts"
)

// Registry is the single piece of shared mutable state in the delivery
// core: user identity → live connection handle. At most one handle per
// identity; registering again overwrites, and the orphaned entry's
// transport is closed by its own lifecycle, not by us.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]contracts.Client
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]contracts.Client),
	}
}

func (r *Registry) Register(identity string, c contracts.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[identity] = c
}

// Unregister is compare-and-remove: a disconnect callback carries the
// handle it belonged to, and if a newer connection has already
// overwritten the entry the stale callback must leave it alone.
func (r *Registry) Unregister(identity string, c contracts.Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.clients[identity]; ok && cur == c {
		delete(r.clients, identity)
		return true
	}
	return false
}

func (r *Registry) Lookup(identity string) (contracts.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[identity]
	return c, ok
}

func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	online := make([]string, 0, len(r.clients))
	for id := range r.clients {
		online = append(online, id)
	}
	return online
}

// All returns the current identity → handle pairs as a copy, so a
// broadcast can push without holding the lock across writes.
func (r *Registry) All() map[string]contracts.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]contracts.Client, len(r.clients))
	for id, c := range r.clients {
		out[id] = c
	}
	return out
}

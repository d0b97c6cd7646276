package websocket

import "sync"

// Registry maps a user ID to its current live-connection handle. At most one
// handle is tracked per user; a new Bind for the same user overwrites the old
// binding (last-connect-wins). Multi-tab fan-out is not modeled.
type Registry interface {
	Bind(userID, handle string)
	Unbind(userID string)
	Resolve(userID string) (string, bool)
}

type memoryRegistry struct {
	mu      sync.RWMutex
	handles map[string]string
}

// NewRegistry creates an in-memory, process-local registry. Bindings are lost
// on restart; the registry is a local cache, not the source of truth for
// reachability.
func NewRegistry() Registry {
	return &memoryRegistry{handles: make(map[string]string)}
}

func (r *memoryRegistry) Bind(userID, handle string) {
	r.mu.Lock()
	r.handles[userID] = handle
	r.mu.Unlock()
}

func (r *memoryRegistry) Unbind(userID string) {
	r.mu.Lock()
	delete(r.handles, userID)
	r.mu.Unlock()
}

func (r *memoryRegistry) Resolve(userID string) (string, bool) {
	r.mu.RLock()
	handle, ok := r.handles[userID]
	r.mu.RUnlock()
	return handle, ok
}

package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Actions sent over the persistent channel. Clients ignore any message whose
// action is not ActionSendNotification.
const (
	ActionSendNotification = "sendNotification"
	ActionConnected        = "connected"
)

// ErrStaleHandle is reported when a push targets a connection handle that no
// longer exists. Callers should evict the binding so a future attempt does not
// retry a dead handle.
var ErrStaleHandle = errors.New("stale connection handle")

// PushMessage is the wire shape of a notification push.
type PushMessage struct {
	Action    string      `json:"action"`
	UserID    string      `json:"userId"`
	Message   string      `json:"message"`
	Type      string      `json:"type,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
	ID        string      `json:"id"`
	IsRead    bool        `json:"isRead"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID string
	Handle string
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// Hub maintains the set of active connections keyed by their handle and keeps
// the Registry's userId bindings in sync with connection lifecycle.
type Hub struct {
	registry   Registry
	conns      map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub(registry Registry) *Hub {
	return &Hub{
		registry:   registry,
		conns:      make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.conns[client.Handle] = client
			h.mu.Unlock()
			h.registry.Bind(client.UserID, client.Handle)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.conns[client.Handle]; ok {
				delete(h.conns, client.Handle)
			}
			h.mu.Unlock()
			// Only drop the binding if it still points at this handle so a
			// newer connection for the same user is not unbound.
			if handle, ok := h.registry.Resolve(client.UserID); ok && handle == client.Handle {
				h.registry.Unbind(client.UserID)
			}
			client.Conn.Close()
		}
	}
}

// Register adds a connection to the hub and binds it in the registry.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection from the hub and unbinds it.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push writes a message to the connection identified by handle. It returns
// ErrStaleHandle when the handle is unknown or the write fails, in which case
// the connection is dropped.
func (h *Hub) Push(handle string, msg PushMessage) error {
	h.mu.RLock()
	client, ok := h.conns[handle]
	h.mu.RUnlock()

	if !ok {
		return ErrStaleHandle
	}

	client.writeMu.Lock()
	err := client.Conn.WriteJSON(msg)
	client.writeMu.Unlock()
	if err != nil {
		h.mu.Lock()
		delete(h.conns, handle)
		h.mu.Unlock()
		client.Conn.Close()
		return ErrStaleHandle
	}
	return nil
}

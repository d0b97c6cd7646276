package client

import (
	"sort"
	"sync"
	"time"

	"github.com/thanhtike404/hotel-booking/models"
)

// Notification is the client-side cache entry. The id is a string so the
// cache can hold both stored records (ObjectID hex) and ad-hoc pushes (UUID).
type Notification struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"userId"`
	Message   string                    `json:"message"`
	Status    models.NotificationStatus `json:"status,omitempty"`
	IsRead    bool                      `json:"isRead"`
	CreatedAt time.Time                 `json:"createdAt"`
}

func fromModel(n models.Notification) Notification {
	return Notification{
		ID:        n.ID.Hex(),
		UserID:    n.UserID.Hex(),
		Message:   n.Message,
		Status:    n.Status,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// Cache is the per-session notification cache, ordered newest-first and keyed
// by id. It is fed by two producers: live pushes (prepended) and bulk fetches
// (merged). Both paths de-duplicate by id.
type Cache struct {
	mu    sync.RWMutex
	items []Notification
	seen  map[string]bool
}

func NewCache() *Cache {
	return &Cache{seen: make(map[string]bool)}
}

// Prepend inserts a pushed notification at the front. It reports whether the
// notification was new; a duplicate id is dropped.
func (c *Cache) Prepend(n Notification) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n.ID == "" || c.seen[n.ID] {
		return false
	}
	c.seen[n.ID] = true
	c.items = append([]Notification{n}, c.items...)
	return true
}

// Merge reconciles the cache with an authoritative bulk fetch. Fetched records
// win over cached ones with the same id; records known only locally (a push
// that raced the fetch) are kept. The result is ordered newest-first.
func (c *Cache) Merge(fetched []models.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := make([]Notification, 0, len(fetched)+len(c.items))
	seen := make(map[string]bool, len(fetched)+len(c.items))

	for _, record := range fetched {
		n := fromModel(record)
		if n.ID == "" || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		merged = append(merged, n)
	}
	for _, n := range c.items {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		merged = append(merged, n)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	c.items = merged
	c.seen = seen
}

// Snapshot returns a copy of the cached notifications, newest first.
func (c *Cache) Snapshot() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cached notifications.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// UnreadCount returns how many cached notifications are unread.
func (c *Cache) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, n := range c.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

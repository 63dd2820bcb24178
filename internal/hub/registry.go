package hub

import (
	"sort"
	"sync"
)

// Registry is the process-wide presence table: which user ids currently
// have a live connection, and through which client. It is the only
// shared mutable state in the process; every access goes through the
// lock so insert, remove-by-handle and snapshot are linearizable.
type Registry struct {
	mu     sync.RWMutex
	online map[int64]*Client
}

func NewRegistry() *Registry {
	return &Registry{online: make(map[int64]*Client)}
}

// SetOnline maps userID to c, last-write-wins. The previous client for
// that user, if any and different, is returned; its future traffic is no
// longer tracked.
func (r *Registry) SetOnline(userID int64, c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.online[userID]
	r.online[userID] = c
	if prev == c {
		return nil
	}
	return prev
}

// RemoveByClient removes the entry whose client matches c. A disconnect
// only carries the connection handle, so handle identity is the deletion
// key; if the user has since reconnected through a newer client, the
// stale handle matches nothing and the mapping is left alone.
func (r *Registry) RemoveByClient(c *Client) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, cl := range r.online {
		if cl == c {
			delete(r.online, userID)
			return userID, true
		}
	}
	return 0, false
}

// Lookup returns the live client for userID, if present.
func (r *Registry) Lookup(userID int64) (*Client, bool) {
	r.mu.RLock()
	c, ok := r.online[userID]
	r.mu.RUnlock()
	return c, ok
}

// Snapshot returns the sorted set of online user ids.
func (r *Registry) Snapshot() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.online))
	for userID := range r.online {
		ids = append(ids, userID)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Entries returns a consistent copy of the table for broadcast and
// monitoring.
func (r *Registry) Entries() map[int64]*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make(map[int64]*Client, len(r.online))
	for userID, c := range r.online {
		entries[userID] = c
	}
	return entries
}

func (r *Registry) Len() int {
	r.mu.RLock()
	n := len(r.online)
	r.mu.RUnlock()
	return n
}

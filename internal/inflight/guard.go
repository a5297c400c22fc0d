// Package inflight sequences requests per key so late responses can be
// recognised and dropped.
//
// Each Begin for a key supersedes every earlier Begin for the same key. A
// response is applied only if its ticket is still Current; otherwise a newer
// request for that key has been issued and the response is stale.
package inflight

import "sync"

// Ticket identifies one issued request.
type Ticket uint64

// Guard tracks the latest ticket per key. The zero value is ready to use.
type Guard[K comparable] struct {
	mu     sync.Mutex
	latest map[K]Ticket
	next   Ticket
}

// Begin issues a new ticket for key, superseding earlier ones.
func (g *Guard[K]) Begin(key K) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		g.latest = make(map[K]Ticket)
	}
	g.next++
	g.latest[key] = g.next
	return g.next
}

// Current reports whether t is the latest ticket issued for key.
func (g *Guard[K]) Current(key K, t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return t != 0 && g.latest[key] == t
}

// Forget drops key so any outstanding ticket for it becomes stale.
func (g *Guard[K]) Forget(key K) {
	g.mu.Lock()
	delete(g.latest, key)
	g.mu.Unlock()
}

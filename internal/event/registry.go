package event

import (
	"slices"
	"sync"

	"github.com/dshills/vnav/internal/event/topic"
)

// Registry holds subscriptions ordered by priority, then registration order.
// It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	subs []*subscription
	byID map[string]*subscription
	seq  uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]*subscription),
	}
}

// Add registers a subscription.
func (r *Registry) Add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	sub.seq = r.seq

	idx, _ := slices.BinarySearchFunc(r.subs, sub, compareSubs)
	r.subs = slices.Insert(r.subs, idx, sub)
	r.byID[sub.id] = sub
}

// Remove unregisters a subscription by ID. Returns false if it was not registered.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	r.subs = slices.DeleteFunc(r.subs, func(s *subscription) bool { return s.id == id })
	return true
}

// Match returns the active subscriptions whose pattern matches t, in
// delivery order. The returned slice is a copy.
func (r *Registry) Match(t topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*subscription
	for _, s := range r.subs {
		if s.IsActive() && t.Matches(s.topic) {
			out = append(out, s)
		}
	}
	return out
}

// CountActive returns the number of active subscriptions.
func (r *Registry) CountActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.subs {
		if s.IsActive() {
			n++
		}
	}
	return n
}

func compareSubs(a, b *subscription) int {
	if a.config.Priority != b.config.Priority {
		return int(a.config.Priority - b.config.Priority)
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

// Package dedup tracks recently seen message ids to drop gateway redeliveries.
package dedup

import "sync"

// DefaultCapacity matches the reference window of 500 message ids.
const DefaultCapacity = 500

// Window is a bounded, insertion-ordered set of message ids. Membership is
// O(1); when full, recording a new id evicts the oldest one. Safe for
// concurrent use.
type Window struct {
	mu       sync.Mutex
	capacity int
	order    []string
	head     int
	members  map[string]struct{}
}

// NewWindow creates a window holding up to capacity ids.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		members:  make(map[string]struct{}, capacity),
	}
}

// Seen reports whether id was already recorded and, when it was not,
// records it. An empty id is never recorded and never reported as seen:
// without an upstream id we prefer answering twice over staying silent.
func (w *Window) Seen(id string) bool {
	if id == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.members[id]; ok {
		return true
	}

	if len(w.order) < w.capacity {
		w.order = append(w.order, id)
	} else {
		oldest := w.order[w.head]
		delete(w.members, oldest)
		w.order[w.head] = id
		w.head = (w.head + 1) % w.capacity
	}
	w.members[id] = struct{}{}
	return false
}

// Len returns the number of ids currently recorded.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.members)
}

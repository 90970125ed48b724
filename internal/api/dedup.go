// internal/api/dedup.go
package api

import "sync"

// Dedup is a fixed-capacity recency set of inbound update identifiers.
// The bot gateway delivers at least once, so retried updates legitimately
// arrive twice; tracking the most recent N lets the webhook drop them
// without reprocessing. Insert, membership, and oldest-first eviction are
// all O(1): a hash set paired with a ring buffer of arrival order.
type Dedup struct {
	mu   sync.Mutex
	seen map[int64]struct{}
	ring []int64
	head int
	size int
}

// NewDedup creates a Dedup tracking up to capacity identifiers. Capacity
// is clamped to at least 1 so the ring arithmetic is always defined.
func NewDedup(capacity int) *Dedup {
	if capacity < 1 {
		capacity = 1
	}
	return &Dedup{
		seen: make(map[int64]struct{}, capacity),
		ring: make([]int64, capacity),
	}
}

// Seen reports whether id is currently tracked. It does not record the
// id; callers record only once processing has actually been queued, so a
// dropped update stays eligible for a retry.
func (d *Dedup) Seen(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[id]
	return ok
}

// Record inserts id into the window. When the window is full the oldest
// identifier is evicted first. Recording an already-tracked id is a no-op.
func (d *Dedup) Record(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return
	}

	if d.size == len(d.ring) {
		delete(d.seen, d.ring[d.head])
	} else {
		d.size++
	}
	d.ring[d.head] = id
	d.head = (d.head + 1) % len(d.ring)
	d.seen[id] = struct{}{}
}

// Len returns the number of identifiers currently tracked.
func (d *Dedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}

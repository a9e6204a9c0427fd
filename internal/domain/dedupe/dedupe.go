// Package dedupe tracks already-ingested event IDs so retried
// deliveries append at most once.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event IDs for at-most-once ingestion.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records
	// it if not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets an id so a failed append can be retried.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int
}

// inMemoryDeduper keeps seen ids in a map with FIFO eviction over a
// ring of recent ids. Bounded by default: an interview platform sees a
// steady event stream and old ids stop mattering once their session
// completes.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> ring slot that currently owns it
	ring    []string
	next    int
	maxSize int
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: 100_000}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.ring = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		// A ring slot can hold a stale id: Unrecord leaves the ring
		// untouched, and re-recording that id claims a younger slot.
		// Evict only ids this slot still owns, or a stale slot would
		// delete an id that is live elsewhere in the ring.
		if evicted := d.ring[d.next]; evicted != "" {
			if slot, ok := d.seen[evicted]; ok && slot == d.next {
				delete(d.seen, evicted)
			}
		}
		d.ring[d.next] = id
		d.seen[id] = d.next
		d.next = (d.next + 1) % d.maxSize
		return false
	}
	d.seen[id] = -1
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

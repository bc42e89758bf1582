package capture

import (
	"sync"
	"time"
)

// DefaultDedupWindow is how long identical content is suppressed after a
// capture.
const DefaultDedupWindow = 5 * time.Second

// Deduplicator suppresses repeated captures of identical content within a
// time window, keyed by content hash.
type Deduplicator struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
	now    func() time.Time
}

// NewDeduplicator creates a deduplicator with the given window. A
// non-positive window falls back to DefaultDedupWindow.
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &Deduplicator{
		window: window,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Seen reports whether hash was captured within the window. Content is
// marked as seen at check time so a second check in the same poll cycle is
// already a duplicate.
func (d *Deduplicator) Seen(hash string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if last, ok := d.seen[hash]; ok && now.Sub(last) < d.window {
		return true
	}

	d.prune(now)
	d.seen[hash] = now
	return false
}

// Len returns the number of tracked hashes.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// prune drops entries older than the window. Caller holds the lock.
func (d *Deduplicator) prune(now time.Time) {
	for hash, ts := range d.seen {
		if now.Sub(ts) >= d.window {
			delete(d.seen, hash)
		}
	}
}

package visit

import (
	"sync"
	"sync/atomic"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

// Counter accumulates per-link visit counts between flushes.
// It is safe for concurrent use.
type Counter struct {
	// mu guards the identity of counts, not its contents: increments share the
	// read lock, Drain takes the write lock to swap in a fresh map.
	mu     sync.RWMutex
	counts *sync.Map // link id -> *atomic.Int64
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: new(sync.Map)}
}

// Record increments the visit count of the link.
func (c *Counter) Record(linkID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.counts.Load(linkID)
	if !ok {
		v, _ = c.counts.LoadOrStore(linkID, new(atomic.Int64))
	}
	v.(*atomic.Int64).Add(1)
}

// Drain resets the counter and returns everything recorded since the previous drain.
// Visits recorded concurrently with Drain are either in the returned snapshot or
// in the next one, never in both.
func (c *Counter) Drain() []entity.VisitCount {
	c.mu.Lock()
	old := c.counts
	c.counts = new(sync.Map)
	c.mu.Unlock()

	var snapshot []entity.VisitCount
	old.Range(func(k, v any) bool {
		if n := v.(*atomic.Int64).Load(); n > 0 {
			snapshot = append(snapshot, entity.VisitCount{LinkID: k.(string), Count: n})
		}
		return true
	})

	return snapshot
}

// Pending returns the number of links with visits waiting to be drained.
func (c *Counter) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	c.counts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

package msync

import (
	"sort"
	"sync"

	"github.com/CursedRock17/message-filters/core"
)

// Cache is a bounded look-back buffer of already-emitted tuples, grounded in
// the original's cache.h/cache.hpp: a small ring buffer that answers
// "what was published around time T" for code downstream of a
// synchronizer. It holds no unpublished state and performs no persistence -
// it only ever sees tuples handed to it through its Write method, which is
// itself a core.OutputSink and so can be registered directly as (or chained
// behind) a synchronizer's output sink.
type Cache struct {
	mu       sync.Mutex
	capacity int
	tuples   []core.Tuple // ascending by the first slot's timestamp
}

// NewCache creates a Cache retaining at most capacity tuples.
func NewCache(capacity int) *Cache {
	return &Cache{capacity: capacity}
}

// Write implements core.OutputSink: it appends t, evicting the oldest
// retained tuple if the cache is at capacity.
func (c *Cache) Write(t core.Tuple) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tuples = append(c.tuples, t.Clone())
	if len(c.tuples) > c.capacity {
		c.tuples = c.tuples[len(c.tuples)-c.capacity:]
	}
}

// timestampOf returns the timestamp used to order tuples in the cache: the
// timestamp of the first non-unset slot in stream-index order.
func timestampOf(t core.Tuple) (core.Timestamp, bool) {
	for _, e := range t {
		if !e.Unset() {
			return e.Timestamp, true
		}
	}
	return 0, false
}

// Nearest returns the cached tuple whose representative timestamp is
// closest to ts, and whether the cache held anything at all.
func (c *Cache) Nearest(ts core.Timestamp) (core.Tuple, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.tuples) == 0 {
		return nil, false
	}

	idx := sort.Search(len(c.tuples), func(i int) bool {
		t, _ := timestampOf(c.tuples[i])
		return t >= ts
	})

	candidates := make([]int, 0, 2)
	if idx < len(c.tuples) {
		candidates = append(candidates, idx)
	}
	if idx > 0 {
		candidates = append(candidates, idx-1)
	}

	best := candidates[0]
	bestTime, _ := timestampOf(c.tuples[best])
	bestDist := absDuration(bestTime.Sub(ts))
	for _, idx := range candidates[1:] {
		t, _ := timestampOf(c.tuples[idx])
		if d := absDuration(t.Sub(ts)); d < bestDist {
			best, bestDist = idx, d
		}
	}
	return c.tuples[best].Clone(), true
}

func absDuration(d core.Duration) core.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// Len reports how many tuples the cache currently retains.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tuples)
}

package core

import (
	"sync"
	"sync/atomic"
)

// ratingKey identifies one deterministic rating computation. The MOT is
// part of the key because lines may override the library value for their
// conductor type.
type ratingKey struct {
	conductor string
	motC      float64
	ambient   AmbientCondition
}

type ratingEntry struct {
	result RatingResult
	err    error
}

// CacheStats reports cache effectiveness for observability.
type CacheStats struct {
	Hits   uint64
	Misses uint64
}

// CachingRater memoizes an inner Rater by (conductor identity, ambient
// condition). Ratings are pure functions of that pair, so many lines
// sharing a conductor type during a sweep or N-1 run collapse to one
// solve per distinct condition. Failed solves are cached too — they are
// just as deterministic as successful ones.
//
// Safe for concurrent use by the contingency and sweep worker pools.
type CachingRater struct {
	inner Rater

	mu      sync.RWMutex
	entries map[ratingKey]ratingEntry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachingRater wraps the inner rater with a fresh cache. A cache is
// owned by one analysis run or one long-lived service; it never expires
// entries.
func NewCachingRater(inner Rater) *CachingRater {
	return &CachingRater{
		inner:   inner,
		entries: make(map[ratingKey]ratingEntry),
	}
}

// Rate returns the cached rating for the pair, computing it on first use.
func (r *CachingRater) Rate(c *Conductor, a AmbientCondition) (RatingResult, error) {
	key := ratingKey{conductor: c.Name, motC: c.MaxOpTempC, ambient: a}

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		r.hits.Add(1)
		return entry.result, entry.err
	}

	result, err := r.inner.Rate(c, a)

	r.mu.Lock()
	// Another worker may have raced us here; either result is identical
	// by determinism, so last write wins.
	r.entries[key] = ratingEntry{result: result, err: err}
	r.mu.Unlock()
	r.misses.Add(1)

	return result, err
}

// Stats returns a snapshot of hit/miss counts.
func (r *CachingRater) Stats() CacheStats {
	return CacheStats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

// Len returns the number of cached entries.
func (r *CachingRater) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

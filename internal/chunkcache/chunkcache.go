// Package chunkcache implements §4.4's LRU chunk cache: the
// exponentially-smoothed "peak chunks per request" estimate, the
// retain-vs-release policy, and the boundary bookkeeping that damps
// oscillation when the live chunk count hovers at one value.
package chunkcache

import "coreheap/internal/chunkmgr"

// Cache holds chunks detached from a heap's ring, available for reuse
// by the next run that needs a fresh chunk, implemented as a LIFO
// stack (the Go-idiomatic replacement for the spec's intrusive
// singly-linked cache list, per the design note in spec.md §9 about
// replacing ring pointers with slice/index-based bookkeeping).
type Cache struct {
	chunks []*chunkmgr.Chunk

	avg                float64
	lastDeleteBoundary uint32
	lastDeleteCount    int
}

// ShouldRetain reports whether a just-detached chunk should be kept in
// the cache given the ring's current live chunk count, per §4.4.
func (c *Cache) ShouldRetain(liveCount int) bool {
	cached := len(c.chunks)
	if float64(liveCount+cached) < c.avg+0.1 {
		return true
	}
	if uint32(liveCount) == c.lastDeleteBoundary && c.lastDeleteCount >= 4 {
		return true
	}
	return false
}

// Push offers a detached chunk to the cache. If policy says release,
// it prefers releasing a different (higher-Num) chunk already cached
// over the one just detached, keeping geometrically-closer chunks hot.
// It returns the chunk that should be returned to the OS, or nil if
// everything was retained.
func (c *Cache) Push(detached *chunkmgr.Chunk, liveCount int) (toRelease *chunkmgr.Chunk) {
	if c.ShouldRetain(liveCount) {
		c.chunks = append(c.chunks, detached)
		return nil
	}
	c.bumpBoundary(liveCount)
	if n := len(c.chunks); n > 0 && detached.Num < c.chunks[n-1].Num {
		head := c.chunks[n-1]
		c.chunks[n-1] = detached
		return head
	}
	return detached
}

func (c *Cache) bumpBoundary(liveCount int) {
	if uint32(liveCount) == c.lastDeleteBoundary {
		c.lastDeleteCount++
	} else {
		c.lastDeleteBoundary = uint32(liveCount)
		c.lastDeleteCount = 1
	}
}

// Pop removes and returns the most recently cached chunk, or nil.
func (c *Cache) Pop() *chunkmgr.Chunk {
	n := len(c.chunks)
	if n == 0 {
		return nil
	}
	ch := c.chunks[n-1]
	c.chunks = c.chunks[:n-1]
	return ch
}

func (c *Cache) Len() int { return len(c.chunks) }

// NoteRequestPeak folds a finished request's peak chunk count into the
// running average, per §4.4's shutdown bookkeeping.
func (c *Cache) NoteRequestPeak(peakChunks int) {
	c.avg = (c.avg + float64(peakChunks)) / 2
}

// Trim pops chunks until cached_count + 0.9 <= avg, returning the
// popped chunks for the caller to release to the OS.
func (c *Cache) Trim() []*chunkmgr.Chunk {
	var trimmed []*chunkmgr.Chunk
	for float64(len(c.chunks))+0.9 > c.avg && len(c.chunks) > 0 {
		trimmed = append(trimmed, c.Pop())
	}
	return trimmed
}

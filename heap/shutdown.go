package heap

import (
	"coreheap/internal/chunkmgr"
	"coreheap/internal/oschunk"
)

// Shutdown implements §4.6's two shutdown modes. full releases every
// cached chunk and the main chunk, returning the heap to empty; reset
// zeroes and retains the main chunk, trims the cache per §4.4, and
// folds this request's peak into the running average so the next
// request's chunk cache sizing adapts.
func (h *Heap) Shutdown(full bool) {
	for b := h.hugeHead; b != nil; {
		next := b.next
		_ = oschunk.Free(b.mem)
		b = next
	}
	h.hugeHead = nil

	h.cache.NoteRequestPeak(h.peakChunksThisRequest)
	for _, c := range h.cache.Trim() {
		_ = oschunk.Free(chunkBytes(c))
	}

	if full {
		for h.cache.Len() > 0 {
			_ = oschunk.Free(chunkBytes(h.cache.Pop()))
		}
		if h.main != nil {
			c := h.main
			for {
				next := c.Next
				_ = oschunk.Free(chunkBytes(c))
				if next == h.main {
					break
				}
				c = next
			}
		}
		h.ring, h.main = nil, nil
		h.numChunks = 0
	}

	h.size, h.peak = 0, 0
	h.realSize = 0
	if h.main != nil {
		h.realSize = chunkmgr.ChunkSize
	}
	h.peakChunksThisRequest = 0
	for i := range h.freeSlot {
		h.freeSlot[i] = nil
	}
	h.overflow = false
}

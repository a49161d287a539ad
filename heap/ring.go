package heap

import (
	"unsafe"

	"github.com/pkg/errors"

	"coreheap/internal/chunkmgr"
	"coreheap/internal/errs"
	"coreheap/internal/oschunk"
)

// installChunk splices a freshly obtained chunk into the ring. Small
// runs (n < 8 pages) reached after more than two ring hops get spliced
// at the head instead of the tail, per §4.3's search-cost heuristic;
// that happens in allocPages, not here.
func (h *Heap) installChunk(mem []byte) *chunkmgr.Chunk {
	num := h.nextNum
	h.nextNum++
	c := chunkmgr.New(mem, unsafe.Pointer(h), num)
	if h.ring == nil {
		c.Prev, c.Next = c, c
		h.ring = c
		h.main = c
	} else {
		tail := h.ring.Prev
		tail.Next = c
		c.Prev = tail
		c.Next = h.ring
		h.ring.Prev = c
	}
	h.numChunks++
	if h.numChunks > h.peakChunksThisRequest {
		h.peakChunksThisRequest = h.numChunks
	}
	h.realSize += chunkmgr.ChunkSize
	if h.realSize > h.realPeak {
		h.realPeak = h.realSize
	}
	return c
}

func (h *Heap) spliceToHead(c *chunkmgr.Chunk) {
	if h.ring == c {
		return
	}
	c.Prev.Next = c.Next
	c.Next.Prev = c.Prev
	tail := h.ring.Prev
	tail.Next = c
	c.Prev = tail
	c.Next = h.ring
	h.ring.Prev = c
	h.ring = c
}

func (h *Heap) detachChunk(c *chunkmgr.Chunk) {
	if h.numChunks == 1 {
		// never detach the last chunk; it becomes the reset main chunk
		return
	}
	c.Prev.Next = c.Next
	c.Next.Prev = c.Prev
	if h.ring == c {
		h.ring = c.Next
	}
	if h.main == c {
		h.main = h.ring
	}
	h.numChunks--
	h.realSize -= chunkmgr.ChunkSize
}

// newChunkFromCacheOrOS pops a cached chunk, or requests a fresh one
// from the OS, retrying once after a GC pass on failure, per §4.3.
func (h *Heap) newChunkFromCacheOrOS() (*chunkmgr.Chunk, error) {
	if cached := h.cache.Pop(); cached != nil {
		cached.Next, cached.Prev = nil, nil
		h.spliceCachedIn(cached)
		return cached, nil
	}
	if h.cfg.Limit > 0 && h.realSize+chunkmgr.ChunkSize > h.cfg.Limit {
		h.GC()
		if h.realSize+chunkmgr.ChunkSize > h.cfg.Limit {
			return nil, &errs.OutOfMemory{Allocated: h.realSize, Tried: chunkmgr.ChunkSize, Limit: h.cfg.Limit}
		}
	}
	mem, err := oschunk.AllocAligned(chunkmgr.ChunkSize, chunkmgr.ChunkSize, h.cfg.UseHugePages)
	if err != nil {
		h.GC()
		mem, err = oschunk.AllocAligned(chunkmgr.ChunkSize, chunkmgr.ChunkSize, h.cfg.UseHugePages)
		if err != nil {
			return nil, errors.Wrap(err, "heap: unable to acquire a new chunk from the OS")
		}
	}
	return h.installChunk(mem), nil
}

func (h *Heap) spliceCachedIn(c *chunkmgr.Chunk) {
	tail := h.ring.Prev
	tail.Next = c
	c.Prev = tail
	c.Next = h.ring
	h.ring.Prev = c
	h.numChunks++
	if h.numChunks > h.peakChunksThisRequest {
		h.peakChunksThisRequest = h.numChunks
	}
	h.realSize += chunkmgr.ChunkSize
	if h.realSize > h.realPeak {
		h.realPeak = h.realSize
	}
}

// allocPages satisfies an n-page request by walking the ring starting
// at the main chunk (best fit within each chunk, per §4.3), falling
// back to the cache and then the OS.
func (h *Heap) allocPages(n int) (*chunkmgr.Chunk, int, error) {
	if h.ring != nil {
		c := h.main
		hops := 0
		for {
			if int(c.FreePages) >= n {
				if p, ok := c.AllocPages(n); ok {
					if n < 8 && hops > 2 {
						h.spliceToHead(c)
					}
					return c, p, nil
				}
			}
			c = c.Next
			hops++
			if c == h.main {
				break
			}
		}
	}
	c, err := h.newChunkFromCacheOrOS()
	if err != nil {
		return nil, 0, err
	}
	p, ok := c.AllocPages(n)
	if !ok {
		return nil, 0, errors.Errorf("heap: freshly acquired chunk cannot satisfy %d-page request", n)
	}
	return c, p, nil
}

// freePages releases pages back to a chunk and, if the chunk becomes
// fully free and mayReleaseChunk is set, detaches it into the cache or
// back to the OS, per §4.3/§4.4.
func (h *Heap) freePages(c *chunkmgr.Chunk, page, n int, mayReleaseChunk bool) {
	c.FreePagesAt(page, n)
	if mayReleaseChunk && c.IsFullyFree() && h.numChunks > 1 {
		h.detachChunk(c)
		if toRelease := h.cache.Push(c, h.numChunks); toRelease != nil {
			_ = oschunk.Free(chunkBytes(toRelease))
		}
	}
}

// chunkBytes reconstructs the []byte region backing a chunk header so
// it can be handed back to oschunk.Free.
func chunkBytes(c *chunkmgr.Chunk) []byte {
	base := (*byte)(unsafe.Pointer(c))
	return unsafe.Slice(base, chunkmgr.ChunkSize)
}

// Package heap implements §4.6: the unified alloc/free/realloc façade
// a request-scoped interpreter allocator exposes, dispatching by size
// to the small (internal/sizeclass), large, or huge path, tracking the
// statistics and limits §4.6/§5 require, and supporting a custom
// allocator override for memory-checker tooling.
package heap

import (
	"unsafe"

	"coreheap/internal/chunkmgr"
	"coreheap/internal/chunkcache"
	"coreheap/internal/errs"
	"coreheap/internal/sizeclass"
)

// Heap owns one request's worth of memory: a ring of chunks, the
// per-size-class freelists carved from them, the huge-block list, and
// the statistics/limit machinery of §4.6/§5. A Heap is not safe for
// concurrent use — per §5, one heap serves one execution context.
type Heap struct {
	cfg Config

	ring      *chunkmgr.Chunk // one chunk in the ring; page searches start from main
	main      *chunkmgr.Chunk
	numChunks int
	nextNum   uint32
	cache     chunkcache.Cache

	peakChunksThisRequest int

	freeSlot [sizeclass.NumClasses]unsafe.Pointer

	hugeHead *hugeBlock

	size, peak         uint64
	realSize, realPeak uint64

	overflow bool

	gcRuns           uint64
	gcBytesReclaimed uint64

	custom CustomAllocator
}

type hugeBlock struct {
	mem  []byte
	next *hugeBlock
}

// New creates an empty heap. cfg.ManagedAllocDisabled routes every
// call to a SystemAllocator instead of standing up the chunk ring.
func New(cfg Config) *Heap {
	h := &Heap{cfg: cfg}
	if cfg.ManagedAllocDisabled {
		h.custom = SystemAllocator{}
	}
	return h
}

// SetCustomAllocator installs an override; every façade call delegates
// to it instead of the managed engine until cleared with nil.
func (h *Heap) SetCustomAllocator(c CustomAllocator) { h.custom = c }

// Alloc implements §4.6's alloc dispatch.
func (h *Heap) Alloc(size int) (unsafe.Pointer, error) {
	if h.custom != nil {
		return h.custom.Alloc(size), nil
	}
	if size <= 0 {
		return nil, nil
	}
	switch {
	case size <= sizeclass.MaxSmallSize:
		return h.allocSmall(size)
	case size <= chunkmgr.ChunkSize-chunkmgr.PageSize:
		pages := ceilPages(size)
		return h.AllocLarge(pages)
	default:
		return h.allocHuge(size)
	}
}

// Free implements §4.6's free dispatch.
func (h *Heap) Free(ptr unsafe.Pointer) error {
	if h.custom != nil {
		h.custom.Free(ptr)
		return nil
	}
	if ptr == nil {
		return nil
	}
	if ptrToUint(ptr)&uintptr(chunkmgr.ChunkSize-1) == 0 {
		return h.freeHuge(ptr)
	}
	c := chunkmgr.Of(ptrToUint(ptr))
	page := c.PageIndex(ptrToUint(ptr))
	info := c.PageInfo[page]
	switch {
	case chunkmgr.IsSRUN(info) || chunkmgr.IsNRUN(info):
		return h.freeSmall(ptr)
	case chunkmgr.IsLRUN(info):
		return h.FreeLarge(ptr, chunkmgr.LrunPages(info))
	default:
		return &errs.Misuse{Detail: "free of a pointer not owned by this heap"}
	}
}

// SizeOf implements §4.6's symmetrical size_of dispatch.
func (h *Heap) SizeOf(ptr unsafe.Pointer) (int, error) {
	if ptr == nil {
		return 0, nil
	}
	if ptrToUint(ptr)&uintptr(chunkmgr.ChunkSize-1) == 0 {
		for b := h.hugeHead; b != nil; b = b.next {
			if unsafe.Pointer(&b.mem[0]) == ptr {
				return len(b.mem), nil
			}
		}
		return 0, &errs.Misuse{Detail: "size_of: unknown huge pointer"}
	}
	c := chunkmgr.Of(ptrToUint(ptr))
	page := c.PageIndex(ptrToUint(ptr))
	info := c.PageInfo[page]
	switch {
	case chunkmgr.IsSRUN(info):
		return sizeclass.SizeOfClass(int(chunkmgr.SrunClass(info))), nil
	case chunkmgr.IsNRUN(info):
		base := page - chunkmgr.NrunOffset(info)
		return sizeclass.SizeOfClass(int(chunkmgr.SrunClass(c.PageInfo[base]))), nil
	case chunkmgr.IsLRUN(info):
		return chunkmgr.LrunPages(info) * chunkmgr.PageSize, nil
	default:
		return 0, &errs.Misuse{Detail: "size_of: pointer not owned by this heap"}
	}
}

func ceilPages(size int) int {
	return (size + chunkmgr.PageSize - 1) / chunkmgr.PageSize
}

// SafeAlloc is the overflow-checked nmemb*size+offset allocation §6
// requires of every counted-array allocation site.
func (h *Heap) SafeAlloc(nmemb, size, offset uint64) (unsafe.Pointer, error) {
	total, ok := safeMul(nmemb, size)
	if !ok {
		return nil, &errs.SizeOverflow{Nmemb: nmemb, Size: size, Offset: offset}
	}
	total2 := total + offset
	if total2 < total {
		return nil, &errs.SizeOverflow{Nmemb: nmemb, Size: size, Offset: offset}
	}
	return h.Alloc(int(total2))
}

func safeMul(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/a != b {
		return 0, false
	}
	return r, true
}

// Calloc allocates and zeroes nmemb*size bytes.
func (h *Heap) Calloc(nmemb, size uint64) (unsafe.Pointer, error) {
	p, err := h.SafeAlloc(nmemb, size, 0)
	if err != nil || p == nil {
		return p, err
	}
	n, _ := h.SizeOf(p)
	zero(p, n)
	return p, nil
}

func zero(p unsafe.Pointer, n int) {
	b := unsafe.Slice((*byte)(p), n)
	for i := range b {
		b[i] = 0
	}
}

// Strdup and Strndup copy a Go string into heap-owned, NUL-terminated
// storage, mirroring the façade surface of §6.
func (h *Heap) Strdup(s string) (unsafe.Pointer, error) {
	return h.Strndup(s, len(s))
}

func (h *Heap) Strndup(s string, n int) (unsafe.Pointer, error) {
	if n > len(s) {
		n = len(s)
	}
	p, err := h.Alloc(n + 1)
	if err != nil || p == nil {
		return p, err
	}
	dst := unsafe.Slice((*byte)(p), n+1)
	copy(dst, s[:n])
	dst[n] = 0
	return p, nil
}

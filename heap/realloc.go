package heap

import (
	"unsafe"

	"coreheap/internal/chunkmgr"
	"coreheap/internal/oschunk"
	"coreheap/internal/sizeclass"
)

// Realloc implements §4.6's realloc transition table. copySize lets
// the caller bound how many bytes actually need preserving when it
// knows part of the old allocation is about to be overwritten anyway.
func (h *Heap) Realloc(ptr unsafe.Pointer, newSize, copySize int) (unsafe.Pointer, error) {
	if h.custom != nil {
		return h.custom.Realloc(ptr, newSize), nil
	}
	if ptr == nil {
		return h.Alloc(newSize)
	}
	if newSize <= 0 {
		return nil, h.Free(ptr)
	}

	if ptrToUint(ptr)&uintptr(chunkmgr.ChunkSize-1) == 0 {
		return h.reallocHuge(ptr, newSize, copySize)
	}

	c := chunkmgr.Of(ptrToUint(ptr))
	page := c.PageIndex(ptrToUint(ptr))
	info := c.PageInfo[page]

	switch {
	case chunkmgr.IsSRUN(info) || chunkmgr.IsNRUN(info):
		return h.reallocSmall(ptr, info, page, c, newSize, copySize)
	case chunkmgr.IsLRUN(info):
		return h.reallocLarge(ptr, c, page, info, newSize, copySize)
	}
	return h.reallocByCopy(ptr, newSize, copySize)
}

func (h *Heap) reallocSmall(ptr unsafe.Pointer, info uint32, page int, c *chunkmgr.Chunk, newSize, copySize int) (unsafe.Pointer, error) {
	srunPage := page
	if chunkmgr.IsNRUN(info) {
		srunPage = page - chunkmgr.NrunOffset(info)
	}
	class := int(chunkmgr.SrunClass(c.PageInfo[srunPage]))
	if newClass, ok := sizeclass.ClassOf(newSize); ok && newClass == class {
		return ptr, nil
	}
	// No in-place growth within a run: every slot in a small run is
	// fixed-size, so changing size classes always means a fresh cell.
	return h.reallocByCopy(ptr, newSize, copySize)
}

func (h *Heap) reallocLarge(ptr unsafe.Pointer, c *chunkmgr.Chunk, page int, info uint32, newSize, copySize int) (unsafe.Pointer, error) {
	oldPages := chunkmgr.LrunPages(info)
	newPages := ceilPages(newSize)
	if newPages == oldPages {
		return ptr, nil
	}
	if newPages < oldPages {
		drop := oldPages - newPages
		c.ShrinkLastRun(page, oldPages, drop)
		h.accountFree(uint64(drop) * chunkmgr.PageSize)
		return ptr, nil
	}
	extra := newPages - oldPages
	if c.IsFreeRange(page+oldPages, extra) {
		c.GrowLastRun(page, oldPages, extra)
		h.accountAlloc(uint64(extra) * chunkmgr.PageSize)
		return ptr, nil
	}
	return h.reallocByCopy(ptr, newSize, copySize)
}

func (h *Heap) reallocHuge(ptr unsafe.Pointer, newSize, copySize int) (unsafe.Pointer, error) {
	b := h.hugeBlockFor(ptr)
	if b == nil {
		return h.reallocByCopy(ptr, newSize, copySize)
	}
	rounded := ceilChunks(newSize)
	if rounded == len(b.mem) {
		return ptr, nil
	}
	if rounded < len(b.mem) {
		if shrunk, err := oschunk.Truncate(b.mem, rounded); err == nil {
			h.realSize -= uint64(len(b.mem) - rounded)
			b.mem = shrunk
			return unsafe.Pointer(&b.mem[0]), nil
		}
		return h.reallocByCopy(ptr, newSize, copySize)
	}
	if h.cfg.Limit > 0 && h.realSize+uint64(rounded-len(b.mem)) > h.cfg.Limit {
		h.GC()
	}
	if grown, err := oschunk.Extend(b.mem, rounded); err == nil {
		h.realSize += uint64(rounded - len(b.mem))
		if h.realSize > h.realPeak {
			h.realPeak = h.realSize
		}
		b.mem = grown
		return unsafe.Pointer(&b.mem[0]), nil
	}
	return h.reallocByCopy(ptr, newSize, copySize)
}

// reallocByCopy is the universal fallback transition: allocate new,
// copy min(old, new, copySize) bytes, free old.
func (h *Heap) reallocByCopy(ptr unsafe.Pointer, newSize, copySize int) (unsafe.Pointer, error) {
	oldSize, err := h.SizeOf(ptr)
	if err != nil {
		return nil, err
	}
	newPtr, err := h.Alloc(newSize)
	if err != nil {
		return nil, err
	}
	n := oldSize
	if newSize < n {
		n = newSize
	}
	if copySize < n {
		n = copySize
	}
	if n > 0 {
		copy(unsafe.Slice((*byte)(newPtr), n), unsafe.Slice((*byte)(ptr), n))
	}
	_ = h.Free(ptr)
	return newPtr, nil
}

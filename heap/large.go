package heap

import (
	"unsafe"

	"coreheap/internal/chunkmgr"
)

// AllocLarge implements §3.5/§6: a multi-page allocation satisfied by
// contiguous free pages within a chunk.
func (h *Heap) AllocLarge(pages int) (unsafe.Pointer, error) {
	c, p, err := h.allocPages(pages)
	if err != nil {
		return nil, err
	}
	n := uint64(pages) * chunkmgr.PageSize
	h.accountAlloc(n)
	return c.PagePtr(p), nil
}

// FreeLarge releases a large allocation's pages.
func (h *Heap) FreeLarge(ptr unsafe.Pointer, pages int) error {
	c := chunkmgr.Of(ptrToUint(ptr))
	page := c.PageIndex(ptrToUint(ptr))
	h.freePages(c, page, pages, true)
	h.accountFree(uint64(pages) * chunkmgr.PageSize)
	return nil
}

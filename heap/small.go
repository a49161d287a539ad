package heap

import (
	"unsafe"

	"coreheap/internal/chunkmgr"
	"coreheap/internal/sizeclass"
)

// allocSmall implements §4.5's alloc_small: pop the class freelist, or
// carve a fresh run when it is empty.
func (h *Heap) allocSmall(size int) (unsafe.Pointer, error) {
	class, ok := sizeclass.ClassOf(size)
	if !ok {
		panic("heap: allocSmall called with a non-small size")
	}
	return h.AllocClass(class)
}

// AllocClass is the size-specialized fast path §6 calls out
// (alloc_class_k for each of the 30 classes); here one function
// parameterized by class id stands in for the 30 generated C symbols,
// since Go has no macro-expansion pass to generate per-class
// functions the way the original preprocessor did.
func (h *Heap) AllocClass(class int) (unsafe.Pointer, error) {
	if head := h.freeSlot[class]; head != nil {
		h.freeSlot[class] = readNextFree(head)
		h.accountAlloc(uint64(sizeclass.SizeOfClass(class)))
		return head, nil
	}
	return h.carveRun(class)
}

func (h *Heap) carveRun(class int) (unsafe.Pointer, error) {
	pages := sizeclass.PagesPerRun[class]
	c, p, err := h.allocPages(pages)
	if err != nil {
		return nil, err
	}
	c.PageInfo[p] = chunkmgr.EncodeSRUN(uint8(class), 0)
	for i := 1; i < pages; i++ {
		c.PageInfo[p+i] = chunkmgr.EncodeNRUN(uint16(i))
	}

	elemSize := sizeclass.SizeOfClass(class)
	elems := sizeclass.ElementsPerRun[class]
	base := c.PagePtr(p)

	// Thread elements [1, elems) into the class freelist; cell 0 is
	// returned to the caller directly.
	var headFree unsafe.Pointer
	for i := elems - 1; i >= 1; i-- {
		cell := ptrAdd(base, uintptr(i*elemSize))
		writeNextFree(cell, headFree)
		headFree = cell
	}
	h.freeSlot[class] = headFree

	h.accountAlloc(uint64(elemSize))
	return base, nil
}

// FreeClass is the size-specialized free fast path §6 mentions
// alongside AllocClass.
func (h *Heap) FreeClass(class int, ptr unsafe.Pointer) {
	writeNextFree(ptr, h.freeSlot[class])
	h.freeSlot[class] = ptr
	h.accountFree(uint64(sizeclass.SizeOfClass(class)))
}

func (h *Heap) freeSmall(ptr unsafe.Pointer) error {
	c := chunkmgr.Of(ptrToUint(ptr))
	page := c.PageIndex(ptrToUint(ptr))
	info := c.PageInfo[page]
	if chunkmgr.IsNRUN(info) {
		page -= chunkmgr.NrunOffset(info)
		info = c.PageInfo[page]
	}
	class := int(chunkmgr.SrunClass(info))
	h.FreeClass(class, ptr)
	return nil
}

func (h *Heap) accountAlloc(n uint64) {
	h.size += n
	if h.size > h.peak {
		h.peak = h.size
	}
}

func (h *Heap) accountFree(n uint64) {
	if n > h.size {
		h.size = 0
	} else {
		h.size -= n
	}
}

package heap

import (
	"unsafe"

	"coreheap/internal/chunkmgr"
	"coreheap/internal/sizeclass"
)

// GC implements §4.6's slab compaction: find size-class runs whose
// every cell is on a freelist, splice those cells out, and release
// the now-empty pages back to the chunk (and, if a chunk goes fully
// free, to the cache/OS). It is unrelated to the interpreter's cycle
// collector, which is out of scope.
func (h *Heap) GC() uint64 {
	var reclaimed uint64
	for class := 0; class < sizeclass.NumClasses; class++ {
		reclaimed += h.gcClass(class)
	}
	h.gcRuns++
	h.gcBytesReclaimed += reclaimed
	return reclaimed
}

type runKey struct {
	c    *chunkmgr.Chunk
	page int
}

func (h *Heap) gcClass(class int) uint64 {
	elemSize := sizeclass.SizeOfClass(class)
	elemsPerRun := sizeclass.ElementsPerRun[class]
	pages := sizeclass.PagesPerRun[class]

	counts := map[runKey]int{}
	for cell := h.freeSlot[class]; cell != nil; cell = readNextFree(cell) {
		c := chunkmgr.Of(ptrToUint(cell))
		page := c.PageIndex(ptrToUint(cell))
		info := c.PageInfo[page]
		if chunkmgr.IsNRUN(info) {
			page -= chunkmgr.NrunOffset(info)
		}
		counts[runKey{c, page}]++
	}

	fullyFree := map[runKey]bool{}
	for k, n := range counts {
		if n == elemsPerRun {
			fullyFree[k] = true
		}
	}
	if len(fullyFree) == 0 {
		return 0
	}

	// Splice out cells belonging to fully-free runs.
	var newHead unsafe.Pointer
	for cell := h.freeSlot[class]; cell != nil; {
		next := readNextFree(cell)
		c := chunkmgr.Of(ptrToUint(cell))
		page := c.PageIndex(ptrToUint(cell))
		info := c.PageInfo[page]
		basePage := page
		if chunkmgr.IsNRUN(info) {
			basePage = page - chunkmgr.NrunOffset(info)
		}
		if !fullyFree[runKey{c, basePage}] {
			writeNextFree(cell, newHead)
			newHead = cell
		}
		cell = next
	}
	h.freeSlot[class] = newHead

	var reclaimed uint64
	for k := range fullyFree {
		h.freePages(k.c, k.page, pages, true)
		reclaimed += uint64(pages) * chunkmgr.PageSize
	}
	_ = elemSize
	return reclaimed
}

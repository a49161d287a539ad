package heap

import (
	"unsafe"

	"github.com/pkg/errors"

	"coreheap/internal/chunkmgr"
	"coreheap/internal/errs"
	"coreheap/internal/oschunk"
)

// allocHuge implements §3.6: allocations too large for one chunk are
// served directly from the OS, 2 MiB-aligned so that free() can tell
// huge pointers apart from small/large ones with a single mask test.
func (h *Heap) allocHuge(size int) (unsafe.Pointer, error) {
	rounded := ceilChunks(size)
	if h.cfg.Limit > 0 && h.realSize+uint64(rounded) > h.cfg.Limit {
		h.GC()
		if h.realSize+uint64(rounded) > h.cfg.Limit {
			return nil, &errs.OutOfMemory{Allocated: h.realSize, Tried: uint64(rounded), Limit: h.cfg.Limit}
		}
	}
	mem, err := oschunk.AllocAligned(rounded, chunkmgr.ChunkSize, h.cfg.UseHugePages)
	if err != nil {
		h.GC()
		mem, err = oschunk.AllocAligned(rounded, chunkmgr.ChunkSize, h.cfg.UseHugePages)
		if err != nil {
			return nil, errors.Wrap(err, "heap: huge allocation failed")
		}
	}
	h.hugeHead = &hugeBlock{mem: mem, next: h.hugeHead}
	h.realSize += uint64(rounded)
	if h.realSize > h.realPeak {
		h.realPeak = h.realSize
	}
	h.accountAlloc(uint64(size))
	return unsafe.Pointer(&mem[0]), nil
}

func ceilChunks(size int) int {
	return (size + chunkmgr.ChunkSize - 1) &^ (chunkmgr.ChunkSize - 1)
}

func (h *Heap) freeHuge(ptr unsafe.Pointer) error {
	var prev *hugeBlock
	for b := h.hugeHead; b != nil; b = b.next {
		if unsafe.Pointer(&b.mem[0]) == ptr {
			if prev == nil {
				h.hugeHead = b.next
			} else {
				prev.next = b.next
			}
			h.realSize -= uint64(len(b.mem))
			h.accountFree(uint64(len(b.mem)))
			return errors.Wrap(oschunk.Free(b.mem), "heap: freeing huge block")
		}
		prev = b
	}
	return &errs.Misuse{Detail: "free of an untracked huge pointer"}
}

// hugeBlockFor locates the descriptor for ptr, used by Realloc.
func (h *Heap) hugeBlockFor(ptr unsafe.Pointer) *hugeBlock {
	for b := h.hugeHead; b != nil; b = b.next {
		if unsafe.Pointer(&b.mem[0]) == ptr {
			return b
		}
	}
	return nil
}

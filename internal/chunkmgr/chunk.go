// Package chunkmgr implements §3.3/§4.3: the 2 MiB aligned chunk
// header, its 512-entry page_info map, and the per-chunk best-fit
// page search. It is the leaf of the allocator's page-granularity
// layer — it knows nothing about the chunk ring, the chunk cache, or
// size classes, only about one chunk's own bookkeeping.
//
// The "header lives in page 0, pointer masking finds it in O(1)"
// technique is the same one cznic/memory (other_examples) and the
// teacher's src/mazboot/golang/main/memory.go use to overlay a typed
// header on raw mmap'd bytes via unsafe.Pointer.
package chunkmgr

import (
	"unsafe"

	"coreheap/bitset"
)

const (
	PageShift     = 12
	PageSize      = 1 << PageShift // 4096
	ChunkShift    = 21
	ChunkSize     = 1 << ChunkShift // 2 MiB
	PagesPerChunk = ChunkSize / PageSize // 512
	chunkMask     = ChunkSize - 1
	freeMapWords  = PagesPerChunk / 64 // 8
)

// page_info status bits.
const (
	bitSRUN uint32 = 1 << 31
	bitLRUN uint32 = 1 << 30
	statusMask = bitSRUN | bitLRUN
)

// EncodeFRUN is the zero value: page is free.
const EncodeFRUN uint32 = 0

// EncodeLRUN marks the first page of an n-page large run.
func EncodeLRUN(n int) uint32 { return bitLRUN | uint32(n)&0x3FF }

// EncodeSRUN marks the first page of a size-class run. deadSlots is
// the GC dead-cell counter (§4.6 gc step 1).
func EncodeSRUN(class uint8, deadSlots uint16) uint32 {
	return bitSRUN | uint32(class)&0x1F | (uint32(deadSlots)&0x1FF)<<16
}

// EncodeNRUN marks the offset-th continuation page of a preceding
// SRUN.
func EncodeNRUN(offset uint16) uint32 {
	return bitSRUN | bitLRUN | (uint32(offset)&0x1FF)<<16
}

func IsFRUN(info uint32) bool { return info&statusMask == 0 }
func IsLRUN(info uint32) bool { return info&statusMask == bitLRUN }
func IsSRUN(info uint32) bool { return info&statusMask == bitSRUN }
func IsNRUN(info uint32) bool { return info&statusMask == statusMask }

func LrunPages(info uint32) int     { return int(info & 0x3FF) }
func SrunClass(info uint32) uint8   { return uint8(info & 0x1F) }
func SrunDeadSlots(info uint32) int { return int((info >> 16) & 0x1FF) }
func NrunOffset(info uint32) int    { return int((info >> 16) & 0x1FF) }

// SetSrunDeadSlots rewrites the dead-slot counter of an SRUN entry,
// preserving its class id.
func SetSrunDeadSlots(info uint32, deadSlots uint16) uint32 {
	return bitSRUN | (info & 0x1F) | (uint32(deadSlots)&0x1FF)<<16
}

// Chunk is the header occupying page 0 of a 2 MiB region. Prev/Next
// link it into its owning heap's chunk ring; Owner is an opaque
// back-pointer to the owning heap, recorded by New and not read by any
// package (kept unsafe.Pointer here to avoid an import cycle between
// chunkmgr and heap, the same "owner as void*" idiom the teacher's
// mazboot tree uses for its linker-symbol indirection).
type Chunk struct {
	Owner unsafe.Pointer
	Prev  *Chunk
	Next  *Chunk

	FreePages uint32
	FreeTail  uint32
	Num       uint32

	FreeMap  [freeMapWords]uint64
	PageInfo [PagesPerChunk]uint32
}

// New initializes a Chunk header at the start of mem (which must be a
// ChunkSize-aligned, ChunkSize-length region) and returns it.
func New(mem []byte, owner unsafe.Pointer, num uint32) *Chunk {
	if len(mem) < int(unsafe.Sizeof(Chunk{})) {
		panic("chunkmgr: backing region smaller than Chunk header")
	}
	c := (*Chunk)(unsafe.Pointer(&mem[0]))
	*c = Chunk{}
	c.Owner = owner
	c.Num = num
	c.FreePages = PagesPerChunk - 1
	c.FreeTail = 1
	c.PageInfo[0] = EncodeLRUN(1)
	bitset.SetBit(c.FreeMap[:], 0)
	return c
}

// Of returns the chunk header owning ptr, in O(1), by masking off the
// low ChunkShift bits.
func Of(ptr uintptr) *Chunk {
	return (*Chunk)(unsafe.Pointer(ptr &^ chunkMask))
}

// Base returns the chunk's own base address.
func (c *Chunk) Base() uintptr { return uintptr(unsafe.Pointer(c)) }

// PagePtr returns a pointer to the start of page index p.
func (c *Chunk) PagePtr(p int) unsafe.Pointer {
	return unsafe.Pointer(c.Base() + uintptr(p)*PageSize)
}

// PageIndex returns the page index containing ptr within this chunk.
func (c *Chunk) PageIndex(ptr uintptr) int {
	return int((ptr - c.Base()) >> PageShift)
}

// AllocPages finds n contiguous free pages within this chunk using
// best fit over the gaps in [1, PagesPerChunk), per §4.3. It returns
// the starting page index and true on success.
func (c *Chunk) AllocPages(n int) (int, bool) {
	if int(c.FreePages) < n {
		return 0, false
	}
	bestStart, bestLen := -1, PagesPerChunk+1
	start := -1
	for p := 1; p <= PagesPerChunk; p++ {
		free := p < PagesPerChunk && !bitset.TestBit(c.FreeMap[:], p)
		if free {
			if start < 0 {
				start = p
			}
			continue
		}
		if start >= 0 {
			runLen := p - start
			if runLen >= n && runLen < bestLen {
				bestStart, bestLen = start, runLen
			}
			start = -1
		}
	}
	if bestStart < 0 {
		return 0, false
	}
	c.commitRun(bestStart, n)
	return bestStart, true
}

func (c *Chunk) commitRun(p, n int) {
	bitset.SetRange(c.FreeMap[:], p, n)
	c.PageInfo[p] = EncodeLRUN(n)
	c.FreePages -= uint32(n)
	if uint32(p) == c.FreeTail {
		c.FreeTail += uint32(n)
	}
}

// FreePagesAt releases n pages starting at p. It never touches the
// page_info of pages [p+1, p+n) — per §4.3 those entries are
// don't-cares while the run is live and become don't-cares again once
// freed.
func (c *Chunk) FreePagesAt(p, n int) {
	bitset.ClearRange(c.FreeMap[:], p, n)
	c.PageInfo[p] = EncodeFRUN
	c.FreePages += uint32(n)
	if uint32(p+n) == c.FreeTail {
		c.FreeTail = uint32(p)
	}
}

// IsFullyFree reports whether every page but page 0 is free.
func (c *Chunk) IsFullyFree() bool { return c.FreePages == PagesPerChunk-1 }

// IsFreeRange reports whether [p, p+n) are all currently free.
func (c *Chunk) IsFreeRange(p, n int) bool {
	return bitset.IsFreeRange(c.FreeMap[:], p, n)
}

// GrowLastRun extends an existing LRUN at page p by extra pages,
// assuming the caller already verified IsFreeRange(p+oldPages, extra).
func (c *Chunk) GrowLastRun(p, oldPages, extra int) {
	bitset.SetRange(c.FreeMap[:], p+oldPages, extra)
	c.PageInfo[p] = EncodeLRUN(oldPages + extra)
	c.FreePages -= uint32(extra)
	if uint32(p+oldPages) == c.FreeTail {
		c.FreeTail += uint32(extra)
	}
}

// ShrinkLastRun trims the tail `drop` pages off an LRUN at page p.
func (c *Chunk) ShrinkLastRun(p, oldPages, drop int) {
	newPages := oldPages - drop
	bitset.ClearRange(c.FreeMap[:], p+newPages, drop)
	c.PageInfo[p] = EncodeLRUN(newPages)
	c.FreePages += uint32(drop)
}

package chunkmgr

import (
	"unsafe"
	"testing"
)

func alignedRegion(t *testing.T) []byte {
	t.Helper()
	raw := make([]byte, ChunkSize*2)
	base := uintptr(unsafe.Pointer(&raw[0]))
	misalign := int(-base) & (ChunkSize - 1)
	return raw[misalign : misalign+ChunkSize]
}

func TestNewChunkInitialState(t *testing.T) {
	mem := alignedRegion(t)
	c := New(mem, nil, 1)
	if c.FreePages != PagesPerChunk-1 {
		t.Fatalf("FreePages = %d, want %d", c.FreePages, PagesPerChunk-1)
	}
	if c.FreeTail != 1 {
		t.Fatalf("FreeTail = %d, want 1", c.FreeTail)
	}
	if !IsLRUN(c.PageInfo[0]) || LrunPages(c.PageInfo[0]) != 1 {
		t.Fatal("page 0 should be LRUN(1)")
	}
}

func TestAllocFreeRoundTrip(t *testing.T) {
	mem := alignedRegion(t)
	c := New(mem, nil, 1)
	p, ok := c.AllocPages(4)
	if !ok || p != 1 {
		t.Fatalf("AllocPages(4) = %d, %v; want 1, true", p, ok)
	}
	if c.FreePages != PagesPerChunk-5 {
		t.Fatalf("FreePages after alloc = %d", c.FreePages)
	}
	c.FreePagesAt(p, 4)
	if c.FreePages != PagesPerChunk-1 {
		t.Fatalf("FreePages after free = %d, want %d", c.FreePages, PagesPerChunk-1)
	}
	if !c.IsFullyFree() {
		t.Fatal("expected chunk fully free again")
	}
}

func TestBestFitPrefersSmallestAdequateGap(t *testing.T) {
	mem := alignedRegion(t)
	c := New(mem, nil, 1)

	// Carve: [1,3) alloc, [3,6) free via explicit holes by allocating
	// then freeing the middle run, leaving a small gap and a big tail.
	a, _ := c.AllocPages(2) // pages 1-2
	b, _ := c.AllocPages(3) // pages 3-5
	c.FreePagesAt(b, 3)     // reopen a 3-page gap at page 3

	p, ok := c.AllocPages(3)
	if !ok || p != b {
		t.Fatalf("expected best fit to reuse freed gap at %d, got %d ok=%v", b, p, ok)
	}
	_ = a
}

func TestChunkOfMasksToHeader(t *testing.T) {
	mem := alignedRegion(t)
	c := New(mem, nil, 7)
	p, _ := c.AllocPages(1)
	interior := c.Base() + uintptr(p)*PageSize + 37
	if got := Of(interior); got != c {
		t.Fatalf("Of(interior) = %p, want %p", got, c)
	}
}

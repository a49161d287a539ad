package heap

import (
	"testing"
	"unsafe"
)

func TestLargeAllocRoundTrip(t *testing.T) {
	h := New(Config{})
	p, err := h.Alloc(8000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	n, err := h.SizeOf(p)
	if err != nil {
		t.Fatalf("SizeOf: %v", err)
	}
	if n < 8000 {
		t.Fatalf("SizeOf = %d, want >= 8000", n)
	}
	b := unsafe.Slice((*byte)(p), 8000)
	for i := range b {
		b[i] = byte(i % 251)
	}
	for i := range b {
		if b[i] != byte(i%251) {
			t.Fatalf("byte %d corrupted", i)
		}
	}
	if err := h.Free(p); err != nil {
		t.Fatalf("Free: %v", err)
	}
}

func TestLargeReallocShrinkInPlace(t *testing.T) {
	h := New(Config{})
	p, err := h.Alloc(16000)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	q, err := h.Realloc(p, 5000, 5000)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}
	if p != q {
		t.Fatalf("shrink-in-place should preserve the pointer: %p != %p", p, q)
	}
}

func TestLargeReallocGrowAdjacentFree(t *testing.T) {
	h := New(Config{})
	a, err := h.Alloc(8000)
	if err != nil {
		t.Fatalf("Alloc a: %v", err)
	}
	b, err := h.Alloc(8000)
	if err != nil {
		t.Fatalf("Alloc b: %v", err)
	}
	if err := h.Free(b); err != nil {
		t.Fatalf("Free b: %v", err)
	}
	grown, err := h.Realloc(a, 16000, 8000)
	if err != nil {
		t.Fatalf("Realloc: %v", err)
	}
	if grown != a {
		t.Skip("allocator placed b non-adjacently; grow-in-place not exercised")
	}
}

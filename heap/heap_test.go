package heap

import (
	"testing"
	"unsafe"
)

func TestAllocZeroAndNegativeSizesAreNoop(t *testing.T) {
	h := New(Config{})
	if p, err := h.Alloc(0); p != nil || err != nil {
		t.Fatalf("Alloc(0) = %v, %v; want nil, nil", p, err)
	}
	if p, err := h.Alloc(-1); p != nil || err != nil {
		t.Fatalf("Alloc(-1) = %v, %v; want nil, nil", p, err)
	}
	if err := h.Free(nil); err != nil {
		t.Fatalf("Free(nil) = %v; want nil", err)
	}
}

func TestSafeAllocOverflow(t *testing.T) {
	h := New(Config{})
	if _, err := h.SafeAlloc(1<<40, 1<<40, 0); err == nil {
		t.Fatal("expected overflow error for nmemb*size overflow")
	}
	if _, err := h.SafeAlloc(^uint64(0), 1, 8); err == nil {
		t.Fatal("expected overflow error for total+offset overflow")
	}
	p, err := h.SafeAlloc(10, 8, 4)
	if err != nil {
		t.Fatalf("SafeAlloc: %v", err)
	}
	n, err := h.SizeOf(p)
	if err != nil {
		t.Fatalf("SizeOf: %v", err)
	}
	if n < 84 {
		t.Fatalf("size %d too small for 10*8+4 request", n)
	}
}

func TestCallocZeroesMemory(t *testing.T) {
	h := New(Config{})
	p, err := h.Calloc(16, 8)
	if err != nil {
		t.Fatalf("Calloc: %v", err)
	}
	b := unsafe.Slice((*byte)(p), 128)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

func TestStrdup(t *testing.T) {
	h := New(Config{})
	p, err := h.Strdup("hello")
	if err != nil {
		t.Fatalf("Strdup: %v", err)
	}
	b := unsafe.Slice((*byte)(p), 6)
	if string(b[:5]) != "hello" || b[5] != 0 {
		t.Fatalf("Strdup copy wrong: %q", b)
	}
}

func TestCustomAllocatorBypassesManagedEngine(t *testing.T) {
	h := New(Config{ManagedAllocDisabled: true})
	p, err := h.Alloc(64)
	if err != nil || p == nil {
		t.Fatalf("Alloc via custom: %v, %v", p, err)
	}
	if err := h.Free(p); err != nil {
		t.Fatalf("Free via custom: %v", err)
	}
	snap := h.Snapshot()
	if snap.Chunks != 0 {
		t.Fatalf("custom allocator should never stand up the chunk ring, got %d chunks", snap.Chunks)
	}
}

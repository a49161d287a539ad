package heap

import "unsafe"

// CustomAllocator is the override interface §4.6/§9 describes: a
// small set of function pointers (alloc/free/realloc) that can stand
// in for the managed heap entirely — the escape hatch memory-checker
// tooling (ASan-style instrumentation, leak detectors) needs.
type CustomAllocator interface {
	Alloc(size int) unsafe.Pointer
	Free(ptr unsafe.Pointer)
	Realloc(ptr unsafe.Pointer, newSize int) unsafe.Pointer
}

// SystemAllocator is the trivial CustomAllocator backed by Go's own
// allocator, useful for tests and for COREHEAP_USE_MANAGED_ALLOC=0.
type SystemAllocator struct{}

func (SystemAllocator) Alloc(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	b := make([]byte, size)
	return unsafe.Pointer(&b[0])
}

func (SystemAllocator) Free(ptr unsafe.Pointer) {
	// The Go GC reclaims system-allocator blocks; nothing to do here,
	// matching how a memory-checker build relies on its own allocator's
	// bookkeeping rather than the heap's.
}

func (SystemAllocator) Realloc(ptr unsafe.Pointer, newSize int) unsafe.Pointer {
	if newSize <= 0 {
		return nil
	}
	b := make([]byte, newSize)
	return unsafe.Pointer(&b[0])
}

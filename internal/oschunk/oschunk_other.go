//go:build !linux

// Package oschunk on non-Linux platforms falls back to plain Go-heap
// backed slices; there is no mmap/munmap pair to call, so Free, Extend
// and Truncate degrade to no-ops and allocate-copy respectively. This
// keeps the chunk manager portable while the managed heap's real
// value proposition (huge pages, in-place mremap growth) is Linux-only,
// matching §4.1's "absent on platforms where the mapping API cannot do
// it" escape hatch.
package oschunk

import "github.com/pkg/errors"

func AllocAligned(size, alignment int, huge bool) ([]byte, error) {
	raw := make([]byte, size+alignment)
	base := uintptr(ptrOf(raw))
	misalign := int(-base) & (alignment - 1)
	return raw[misalign : misalign+size], nil
}

func Free(b []byte) error { return nil }

func Extend(b []byte, newSize int) ([]byte, error) {
	return nil, errors.New("oschunk: in-place extend unsupported on this platform")
}

func Truncate(b []byte, newSize int) ([]byte, error) {
	return nil, errors.New("oschunk: in-place truncate unsupported on this platform")
}

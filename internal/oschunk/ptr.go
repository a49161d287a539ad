package oschunk

import "unsafe"

// ptrOf returns the address of a byte slice's backing array, mirroring
// the teacher's pointerToUintptr helper in src/mazboot/golang/main/memory.go.
func ptrOf(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

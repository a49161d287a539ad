package heap

import "unsafe"

// ptrAdd and ptrToUint mirror the teacher's addToPointer/
// pointerToUintptr helpers (src/mazboot/golang/main/memory.go),
// centralizing the unsafe.Pointer<->uintptr conversions the page and
// run arithmetic needs.
func ptrAdd(p unsafe.Pointer, off uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(p) + off)
}

func ptrToUint(p unsafe.Pointer) uintptr { return uintptr(p) }

func readNextFree(p unsafe.Pointer) unsafe.Pointer {
	return *(*unsafe.Pointer)(p)
}

func writeNextFree(p unsafe.Pointer, next unsafe.Pointer) {
	*(*unsafe.Pointer)(p) = next
}

package resource

import "unsafe"

// wrapSlot and unwrapSlot box a slot behind the unsafe.Pointer a
// value.Cell carries for refcounted payloads. The registry is the
// only owner of these pointers and never lets one escape the package,
// so the Go GC keeps the boxed *slot alive for exactly as long as the
// table entry referencing it survives.
func wrapSlot(s slot) unsafe.Pointer {
	boxed := new(slot)
	*boxed = s
	return unsafe.Pointer(boxed)
}

func unwrapSlot(c interface{ Pointer() unsafe.Pointer }) slot {
	return *(*slot)(c.Pointer())
}

package array

import (
	"fmt"
	"io"
)

// Dump writes a debug textual rendering of bucket and slot state, the
// SPEC_FULL.md addition for inspecting an array's internals. It is
// always available; no debug flag gates it.
func (a *Array) Dump(w io.Writer) {
	fmt.Fprintf(w, "array packed=%v used=%d count=%d capacity=%d internal_pointer=%d iterators=%d\n",
		a.packed, a.used, a.count, a.capacity, a.internalPointer, a.nextIteratorCount)
	for i := 0; i < a.used; i++ {
		b := &a.buckets[i]
		if b.isUndef() {
			fmt.Fprintf(w, "  [%d] UNDEF\n", i)
			continue
		}
		if b.key != nil {
			fmt.Fprintf(w, "  [%d] %q -> %s\n", i, b.key.String(), b.value.Type())
		} else {
			fmt.Fprintf(w, "  [%d] %d -> %s\n", i, b.hash, b.value.Type())
		}
	}
	if a.slots != nil {
		fmt.Fprintf(w, "  slots: %v\n", a.slots)
	}
}

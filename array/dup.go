package array

import "coreheap/value"

// Dup implements §4.7.9: a fresh array with independent bucket/slot
// storage. References with refcount 1 are not unwrapped here — that
// policy belongs to the object model, which knows a cell's true
// refcount; this layer preserves values verbatim and leaves unwrap
// decisions to the caller, documented as a deliberate narrowing of
// the original's dup contract.
func (a *Array) Dup() *Array {
	n := &Array{
		capacity:          a.capacity,
		packed:            a.packed,
		staticKeys:        a.staticKeys,
		persistent:        a.persistent,
		nextFreeIndex:     a.nextFreeIndex,
		internalPointer:   invalidIndex,
	}
	if !a.initialized {
		return n
	}
	n.initialized = true
	n.buckets = make([]bucket, 0, len(a.buckets))
	if !a.packed {
		n.slots = newSlots(a.capacity)
	}

	firstLive := invalidIndex
	for i := 0; i < a.used; i++ {
		src := a.buckets[i]
		if src.isUndef() {
			if a.packed {
				n.buckets = append(n.buckets, bucket{value: value.Undefined(), hash: src.hash})
			}
			continue
		}
		if src.key != nil && !a.staticKeys {
			src.key.Retain()
		}
		v := src.value
		setNext(&v, noNext)
		idx := int32(len(n.buckets))
		n.buckets = append(n.buckets, bucket{value: v, hash: src.hash, key: src.key})
		if firstLive == invalidIndex {
			firstLive = int(idx)
		}
		if !n.packed {
			slot := n.slotFor(src.hash)
			setNext(&n.buckets[idx].value, n.slots[slot])
			n.slots[slot] = idx
		}
		n.count++
	}
	n.used = len(n.buckets)
	n.internalPointer = firstLive
	n.hasEmptyIndirect = a.hasEmptyIndirect
	return n
}

package array

import "coreheap/internal/errs"

// resize implements §4.7.4: rehash in place when more than count/32
// buckets are dead, otherwise double capacity and rehash.
func (a *Array) resize() error {
	if a.used > a.count+a.count/32 {
		a.rehash()
		return nil
	}
	if a.capacity >= maxSize {
		return &errs.CapacityOverflow{Limit: maxSize}
	}
	a.growCapacity()
	a.rehash()
	return nil
}

func (a *Array) growCapacity() {
	a.capacity *= 2
	if a.capacity < minCapacity {
		a.capacity = minCapacity
	}
	if !a.packed {
		a.slots = newSlots(a.capacity)
	}
}

// promoteToHashed implements §4.7.5: packed-to-hashed conversion.
// Live buckets carry over in order; the rehash rebuilds the slot table
// and compacts UNDEF holes out of the bucket slice.
func (a *Array) promoteToHashed() {
	if !a.packed {
		return
	}
	a.packed = false
	a.slots = newSlots(a.capacity)
	for i := range a.buckets {
		setNext(&a.buckets[i].value, noNext)
	}
	a.rehash()
}

// rehash implements §4.7.6: rebuild the slot table from scratch,
// compacting out dead buckets when any exist.
func (a *Array) rehash() {
	if a.packed {
		return
	}
	a.slots = newSlots(a.capacity)

	if a.used == a.count {
		for i := range a.buckets {
			b := &a.buckets[i]
			slot := a.slotFor(b.hash)
			setNext(&b.value, a.slots[slot])
			a.slots[slot] = int32(i)
		}
		return
	}

	write := 0
	for read := 0; read < a.used; read++ {
		b := a.buckets[read]
		if b.isUndef() {
			continue
		}
		a.buckets[write] = b
		slot := a.slotFor(b.hash)
		setNext(&a.buckets[write].value, a.slots[slot])
		a.slots[slot] = int32(write)
		if a.internalPointer == read {
			a.internalPointer = write
		}
		if write != read {
			a.notifyMove(read, write)
		}
		write++
	}
	a.buckets = a.buckets[:write]
	a.used = write
}

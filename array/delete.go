package array

import "coreheap/value"

// Del implements §4.7.7's by-key deletion.
func (a *Array) Del(k Key) bool {
	if !a.initialized {
		return false
	}
	if k.IsInt {
		return a.delInt(k.Int)
	}
	return a.delStr(k.Str)
}

func (a *Array) delInt(k int64) bool {
	if a.packed {
		if k < 0 || k >= int64(a.used) {
			return false
		}
		return a.deleteBucketAt(int(k))
	}
	slot := a.slotFor(uint64(k))
	return a.unlinkAndDelete(slot, func(b *bucket) bool {
		return b.key == nil && b.hash == uint64(k)
	})
}

func (a *Array) delStr(s string) bool {
	if a.packed {
		return false
	}
	b := a.findStr(s)
	if b == nil {
		return false
	}
	slot := a.slotFor(b.hash)
	return a.unlinkAndDelete(slot, func(x *bucket) bool {
		return x.key != nil && x.key.String() == s
	})
}

// unlinkAndDelete walks the chain at slot, removing the first bucket
// matching match from the chain (not from the bucket array — §4.7.7
// never reclaims a bucket's position outside of rehash/compaction)
// and marking it UNDEF.
func (a *Array) unlinkAndDelete(slot int, match func(*bucket) bool) bool {
	idx := a.slots[slot]
	var prev int32 = invalidIndex
	for idx != invalidIndex {
		b := &a.buckets[idx]
		if match(b) && !b.isUndef() {
			next := getNext(b.value)
			if prev == invalidIndex {
				a.slots[slot] = next
			} else {
				setNext(&a.buckets[prev].value, next)
			}
			return a.deleteBucketAt(int(idx))
		}
		prev = idx
		idx = getNext(b.value)
	}
	return false
}

// deleteBucketAt finalizes deletion of the bucket at pos: indirect
// targets are cleared in place (§4.7.8) rather than removing the
// bucket; everything else is released and marked UNDEF, count is
// decremented, used is trimmed, and the internal pointer and iterator
// registry are updated.
func (a *Array) deleteBucketAt(pos int) bool {
	b := &a.buckets[pos]
	if b.isUndef() {
		return false
	}
	if b.value.Type() == value.Indirect {
		target := b.value.IndirectTarget()
		if !target.IsUndef() {
			*target = value.Undefined()
			a.hasEmptyIndirect = true
		}
		a.rewindInternalPointer(pos)
		return true
	}

	if b.key != nil && !b.key.IsInterned() {
		b.key.Release()
	}
	b.key = nil
	b.value = value.Undefined()
	a.count--

	for a.used > 0 && a.buckets[a.used-1].isUndef() {
		a.used--
	}
	a.buckets = a.buckets[:a.used]

	a.rewindInternalPointer(pos)
	return true
}

func (a *Array) rewindInternalPointer(from int) {
	if a.internalPointer != from {
		return
	}
	for i := from + 1; i < a.used; i++ {
		if !a.buckets[i].isUndef() {
			a.internalPointer = i
			a.notifyMove(from, i)
			return
		}
	}
	a.internalPointer = invalidIndex
	a.notifyMove(from, invalidIndex)
}

// DelByPosition deletes the bucket at a raw position, for callers
// iterating with positions (e.g. GetByPosition).
func (a *Array) DelByPosition(pos int) bool {
	if pos < 0 || pos >= a.used || a.buckets[pos].isUndef() {
		return false
	}
	if a.packed {
		return a.deleteBucketAt(pos)
	}
	b := &a.buckets[pos]
	slot := a.slotFor(b.hash)
	idx := a.slots[slot]
	var prev int32 = invalidIndex
	for idx != invalidIndex {
		if int(idx) == pos {
			next := getNext(a.buckets[idx].value)
			if prev == invalidIndex {
				a.slots[slot] = next
			} else {
				setNext(&a.buckets[prev].value, next)
			}
			break
		}
		prev = idx
		idx = getNext(a.buckets[idx].value)
	}
	return a.deleteBucketAt(pos)
}

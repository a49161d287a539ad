package array

import "coreheap/value"

// Entry is one live (key, value) pair as handed to ForEach.
type Entry struct {
	Key   Key
	Value value.Cell
}

// ForEach implements §4.7.10's forward iteration, skipping UNDEF
// entries and, when unwrapIndirect is set, following INDIRECT cells
// to the value they reference (the symbol-table view). Stops early if
// fn returns false.
func (a *Array) ForEach(unwrapIndirect bool, fn func(Entry) bool) {
	for i := 0; i < a.used; i++ {
		b := &a.buckets[i]
		if b.isUndef() {
			continue
		}
		v := b.value
		if unwrapIndirect && v.Type() == value.Indirect {
			v = *v.IndirectTarget()
			if v.IsUndef() {
				continue
			}
		}
		if !fn(Entry{Key: a.keyOf(b), Value: v}) {
			return
		}
	}
}

// ForEachReverse mirrors ForEach in reverse insertion order.
func (a *Array) ForEachReverse(unwrapIndirect bool, fn func(Entry) bool) {
	for i := a.used - 1; i >= 0; i-- {
		b := &a.buckets[i]
		if b.isUndef() {
			continue
		}
		v := b.value
		if unwrapIndirect && v.Type() == value.Indirect {
			v = *v.IndirectTarget()
			if v.IsUndef() {
				continue
			}
		}
		if !fn(Entry{Key: a.keyOf(b), Value: v}) {
			return
		}
	}
}

// Keys and Values collect a snapshot in insertion order.
func (a *Array) Keys() []Key {
	out := make([]Key, 0, a.count)
	a.ForEach(false, func(e Entry) bool { out = append(out, e.Key); return true })
	return out
}

func (a *Array) Values() []value.Cell {
	out := make([]value.Cell, 0, a.count)
	a.ForEach(false, func(e Entry) bool { out = append(out, e.Value); return true })
	return out
}

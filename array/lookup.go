package array

import (
	"coreheap/rcstring"
	"coreheap/value"
)

// Get implements §4.7.2's by-key lookup, dispatching on representation
// and key kind.
func (a *Array) Get(k Key) (value.Cell, bool) {
	b := a.find(k)
	if b == nil {
		return value.Cell{}, false
	}
	return b.value, true
}

func (a *Array) find(k Key) *bucket {
	if !a.initialized {
		return nil
	}
	if k.IsInt {
		return a.findInt(k.Int)
	}
	return a.findStr(k.Str)
}

func (a *Array) findInt(k int64) *bucket {
	if a.packed {
		if k < 0 || k >= int64(a.used) {
			return nil
		}
		b := &a.buckets[k]
		if b.isUndef() {
			return nil
		}
		return b
	}
	slot := a.slotFor(uint64(k))
	idx := a.slots[slot]
	for idx != invalidIndex {
		b := &a.buckets[idx]
		if b.key == nil && b.hash == uint64(k) && !b.isUndef() {
			return b
		}
		idx = int32(b.value.U2())
	}
	return nil
}

func (a *Array) findStr(s string) *bucket {
	if a.packed {
		return nil
	}
	h := rcstring.New(s).Hash()
	slot := a.slotFor(h)
	idx := a.slots[slot]
	for idx != invalidIndex {
		b := &a.buckets[idx]
		if b.key != nil && b.hash == h && b.key.String() == s && !b.isUndef() {
			return b
		}
		idx = int32(b.value.U2())
	}
	return nil
}

// GetByPosition returns the value and key of the bucket at a raw bucket
// index; ok is false when pos is out of range or the bucket is UNDEF.
func (a *Array) GetByPosition(pos int) (value.Cell, Key, bool) {
	if pos < 0 || pos >= a.used {
		return value.Cell{}, Key{}, false
	}
	b := &a.buckets[pos]
	if b.isUndef() {
		return value.Cell{}, Key{}, false
	}
	return b.value, a.keyOf(b), true
}

func (a *Array) keyOf(b *bucket) Key {
	if b.key != nil {
		return Key{Str: b.key.String()}
	}
	return Key{IsInt: true, Int: int64(b.hash)}
}

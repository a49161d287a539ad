package array

import (
	"coreheap/rcstring"
	"coreheap/value"
)

const noNext = int32(-1)

func getNext(v value.Cell) int32  { return int32(v.U2()) }
func setNext(v *value.Cell, n int32) { v.SetU2(uint32(n)) }

// Put implements §4.7.3's put dispatch: packed fast paths first,
// falling through to the hashed engine whenever the packed invariant
// would break.
func (a *Array) Put(k Key, v value.Cell, mode Mode) (old value.Cell, existed bool, err error) {
	a.ensureInitialized()

	if mode == ModeAddNext {
		k = IntKey(a.nextFreeIndex)
		mode = ModeAdd
	}

	if a.packed && k.IsInt && k.Int >= 0 {
		if handled, old, existed, err := a.putPacked(k.Int, v, mode); handled {
			return old, existed, err
		}
	} else if a.packed {
		// A non-integer or negative key can never live in the packed
		// representation: promote before falling through so putHashed
		// always sees an initialized slot table.
		a.promoteToHashed()
	}
	return a.putHashed(k, v, mode)
}

// putPacked returns handled=false when the packed invariant cannot
// absorb this key and the caller must fall through to the hashed
// path (after promotion).
func (a *Array) putPacked(k int64, v value.Cell, mode Mode) (handled bool, old value.Cell, existed bool, err error) {
	switch {
	case k < int64(a.used):
		b := &a.buckets[k]
		if !b.isUndef() {
			if mode == ModeAdd {
				return true, b.value, true, nil
			}
			old = b.value
			b.value = v
			return true, old, true, nil
		}
		// A hole below the tail: packed cannot represent this without
		// leaving a gap it can't fill contiguously. Promote.
		a.promoteToHashed()
		return false, value.Cell{}, false, nil

	case k == int64(a.used) && k < int64(a.capacity):
		a.appendPacked(k, v)
		return true, value.Cell{}, false, nil

	case k < int64(a.capacity):
		for i := int64(a.used); i < k; i++ {
			a.buckets = append(a.buckets, bucket{value: value.Undefined(), hash: uint64(i)})
			a.used++
		}
		a.appendPacked(k, v)
		return true, value.Cell{}, false, nil

	case k < int64(2*a.capacity) && a.count >= a.capacity/2:
		a.growCapacity()
		for i := int64(a.used); i < k; i++ {
			a.buckets = append(a.buckets, bucket{value: value.Undefined(), hash: uint64(i)})
			a.used++
		}
		a.appendPacked(k, v)
		return true, value.Cell{}, false, nil

	default:
		a.promoteToHashed()
		return false, value.Cell{}, false, nil
	}
}

func (a *Array) appendPacked(k int64, v value.Cell) {
	a.buckets = append(a.buckets, bucket{value: v, hash: uint64(k)})
	a.used++
	a.count++
	if a.internalPointer == invalidIndex {
		a.internalPointer = a.used - 1
	}
	if k+1 > a.nextFreeIndex {
		a.nextFreeIndex = k + 1
	}
}

func (a *Array) putHashed(k Key, v value.Cell, mode Mode) (old value.Cell, existed bool, err error) {
	if mode != ModeAddNew {
		if b := a.find(k); b != nil {
			switch mode {
			case ModeAdd:
				return b.value, true, nil
			case ModeUpdateIndirect:
				if b.value.Type() == value.Indirect {
					target := b.value.IndirectTarget()
					old := *target
					*target = v
					return old, true, nil
				}
				fallthrough
			default:
				old = b.value
				b.value = v
				return old, true, nil
			}
		}
	}

	if a.used == a.capacity {
		if err := a.resize(); err != nil {
			return value.Cell{}, false, err
		}
	}

	var hash uint64
	var key *rcstring.String
	if k.IsInt {
		hash = uint64(k.Int)
	} else {
		rs := rcstring.New(k.Str)
		hash = rs.Hash()
		key = rs
		if !key.IsInterned() {
			a.staticKeys = false
		}
	}

	setNext(&v, noNext)
	a.buckets = append(a.buckets, bucket{value: v, hash: hash, key: key})
	idx := a.used
	slot := a.slotFor(hash)
	head := a.buckets[idx].value
	setNext(&head, a.slots[slot])
	a.buckets[idx].value = head
	a.slots[slot] = int32(idx)

	a.used++
	a.count++
	if a.internalPointer == invalidIndex {
		a.internalPointer = idx
	}
	if k.IsInt && k.Int+1 > a.nextFreeIndex {
		a.nextFreeIndex = k.Int + 1
	}
	return value.Cell{}, false, nil
}

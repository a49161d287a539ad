package array

import "sort"

// Compare is a user comparator over two entries, matching the
// caller-supplied comparator §4.7.11 delegates to.
type Compare func(a, b Entry) int

// Sort implements §4.7.11: compact out UNDEFs, delegate to a stable
// sort over live entries, then either renumber into a fresh packed
// array or rehash the existing hashed/packed table.
func (a *Array) Sort(cmp Compare, renumber bool) {
	a.compact()

	live := make([]bucket, a.used)
	copy(live, a.buckets)

	sort.SliceStable(live, func(i, j int) bool {
		bi, bj := live[i], live[j]
		return cmp(Entry{Key: a.keyOf(&bi), Value: bi.value}, Entry{Key: a.keyOf(&bj), Value: bj.value}) < 0
	})

	a.buckets = live
	a.used = len(live)

	if renumber {
		for i := range a.buckets {
			if a.buckets[i].key != nil && !a.staticKeys {
				a.buckets[i].key.Release()
			}
			a.buckets[i].key = nil
			a.buckets[i].hash = uint64(i)
		}
		a.packed = true
		a.staticKeys = true
		a.slots = nil
		a.nextFreeIndex = int64(len(a.buckets))
	} else if a.packed {
		// Buckets have been physically reordered but a packed table's
		// position *is* its key: sorting a packed array without
		// renumbering can no longer be represented as packed, so
		// promote it to hashed against the new bucket order.
		a.promoteToHashed()
	} else {
		a.rehash()
	}
	if a.used > 0 {
		a.internalPointer = 0
	} else {
		a.internalPointer = invalidIndex
	}
}

// compact removes UNDEF holes, matching the §4.7.6 compaction step
// sort relies on before it ever touches the comparator.
func (a *Array) compact() {
	write := 0
	for read := 0; read < a.used; read++ {
		if a.buckets[read].isUndef() {
			continue
		}
		if write != read {
			a.buckets[write] = a.buckets[read]
		}
		write++
	}
	a.buckets = a.buckets[:write]
	a.used = write
}

// Package array implements the interpreter's polymorphic ordered
// associative array (§3.8/§4.7): a hybrid structure that behaves as a
// dense vector while keys are a contiguous integer run (packed) and
// transparently promotes to an open-addressed hash table the moment
// that invariant breaks (hashed). Iteration always proceeds in
// insertion order, because both representations keep live entries in
// a single bucket slice and only ever append.
//
// This package drops one C-specific layout trick the original engine
// relies on: packing the hash-slot table and the bucket array into a
// single allocation with the slots addressed at negative offsets from
// the bucket base. Go has no pointer arithmetic across a struct's
// allocation the way C does, and two plain slices (buckets, slots)
// are the idiomatic substitute; every other invariant — packed vs.
// hashed, UNDEF-tombstone deletion, resize/rehash thresholds — carries
// over unchanged.
package array

import (
	"coreheap/rcstring"
	"coreheap/value"
)

const invalidIndex = -1

// minCapacity is the smallest hashed table size; capacities are
// always powers of two.
const minCapacity = 8

// maxSize bounds capacity growth, mirroring §4.7.4's overflow guard.
const maxSize = 1 << 30

// bucket is one entry: a value cell plus its key. A nil Key means the
// bucket's key is the integer carried in Hash (packed arrays never
// populate Key; hashed arrays populate it only for string keys).
type bucket struct {
	value value.Cell
	hash  uint64
	key   *rcstring.String
}

func (b *bucket) isUndef() bool { return b.value.IsUndef() }

// Key identifies an entry by either an integer or a string. String
// keys that look like canonical decimal integers are canonicalized to
// Int keys before touching the engine, per §4.7.3.
type Key struct {
	IsInt bool
	Int   int64
	Str   string
}

func IntKey(i int64) Key { return Key{IsInt: true, Int: i} }

// StrKey canonicalizes s to an integer key when it is one, matching
// the dispatch-layer policy §4.7.3 describes for every string key
// reaching the engine.
func StrKey(s string) Key {
	if i, ok := canonicalInt(s); ok {
		return Key{IsInt: true, Int: i}
	}
	return Key{Str: s}
}

// Mode selects put's conflict policy, mirroring §4.7.3's put modes.
type Mode int

const (
	ModeAdd Mode = iota
	ModeUpdate
	ModeUpdateIndirect
	ModeAddNew
	ModeAddNext
)

// Array is one ordered associative array.
type Array struct {
	buckets []bucket
	slots   []int32 // nil while packed

	used, count int
	capacity    int

	nextFreeIndex int64

	internalPointer   int
	nextIteratorCount uint8

	packed            bool
	initialized       bool
	staticKeys        bool
	hasEmptyIndirect  bool
	persistent        bool
	applyDepth        uint8
}

// maxApplyDepth caps Compare's recursion guard (§5's apply-protection),
// mirroring the original's HASH_PROTECT_RECURSION/HASH_UNPROTECT_RECURSION
// bracket around zend_hash_compare: a self-referential array comparing
// itself through a nested elementCmp call trips this instead of
// recursing forever.
const maxApplyDepth = 3

// enterApply increments a's recursion guard, returning false (and
// leaving the counter unchanged) once maxApplyDepth is reached.
func (a *Array) enterApply() bool {
	if a.applyDepth >= maxApplyDepth {
		return false
	}
	a.applyDepth++
	return true
}

func (a *Array) exitApply() {
	a.applyDepth--
}

// New creates an empty, packed array with the given capacity hint
// (rounded up to a power of two, minimum 8), per §4.7.1. The backing
// data block is not allocated until the first insert.
func New(capacityHint int) *Array {
	return &Array{
		capacity:          nextPow2(capacityHint),
		packed:            true,
		staticKeys:        true,
		internalPointer:   invalidIndex,
	}
}

func nextPow2(n int) int {
	if n < minCapacity {
		return minCapacity
	}
	c := minCapacity
	for c < n {
		c <<= 1
	}
	return c
}

// Len reports the number of live entries (mirrors §4.7.8's "count
// observed by user code", which is count minus empty indirects).
func (a *Array) Len() int {
	if !a.hasEmptyIndirect {
		return a.count
	}
	n := a.count
	for i := 0; i < a.used; i++ {
		b := &a.buckets[i]
		if b.value.Type() == value.Indirect && b.value.IndirectTarget().IsUndef() {
			n--
		}
	}
	return n
}

// IsPacked reports whether the array is in the packed representation.
func (a *Array) IsPacked() bool { return a.packed }

// Capacity returns the current backing capacity.
func (a *Array) Capacity() int { return a.capacity }

func (a *Array) ensureInitialized() {
	if a.initialized {
		return
	}
	a.buckets = make([]bucket, 0, a.capacity)
	if !a.packed {
		a.slots = newSlots(a.capacity)
	}
	a.initialized = true
}

func newSlots(capacity int) []int32 {
	s := make([]int32, capacity)
	for i := range s {
		s[i] = invalidIndex
	}
	return s
}

func (a *Array) slotFor(hash uint64) int {
	return int(hash) & (a.capacity - 1)
}

// IteratorCount, IncIteratorCount, DecIteratorCount, and
// InternalPointer expose the saturating-counter and cursor state
// iterregistry needs; they live here because iterregistry must not
// import array's unexported fields and array must not import
// iterregistry (it would cycle back through the move-notifier hook
// array.SetMoveNotifier installs).
func (a *Array) IteratorCount() uint8 { return a.nextIteratorCount }

func (a *Array) IncIteratorCount() {
	if a.nextIteratorCount < 255 {
		a.nextIteratorCount++
	}
}

func (a *Array) DecIteratorCount() {
	if a.nextIteratorCount > 0 && a.nextIteratorCount < 255 {
		a.nextIteratorCount--
	}
}

func (a *Array) InternalPointer() int { return a.internalPointer }

// moveNotifier, set by iterregistry.NewRegistry, lets delete and
// rehash notify the registry without array importing it. Put does not
// notify: an iterator parked at the invalid position stays there when
// a new entry is inserted.
var moveNotifier func(ht *Array, from, to int)

// SetMoveNotifier installs the hook iterregistry uses to learn about
// position shifts caused by compaction or deletion.
func SetMoveNotifier(f func(ht *Array, from, to int)) { moveNotifier = f }

func (a *Array) notifyMove(from, to int) {
	if a.nextIteratorCount == 0 || moveNotifier == nil {
		return
	}
	moveNotifier(a, from, to)
}

package iterregistry

import (
	"testing"

	"coreheap/array"
	"coreheap/value"
)

func newFilledArray(n int) *array.Array {
	a := array.New(0)
	for i := 0; i < n; i++ {
		a.Put(array.IntKey(int64(i)), value.NewInt(int64(i)), array.ModeAdd)
	}
	return a
}

func TestRegisterUnregisterTracksIteratorCount(t *testing.T) {
	r := NewRegistry()
	a := newFilledArray(3)

	h := r.Register(a, 0)
	if a.IteratorCount() != 1 {
		t.Fatalf("IteratorCount() = %d, want 1", a.IteratorCount())
	}
	r.Unregister(h)
	if a.IteratorCount() != 0 {
		t.Fatalf("IteratorCount() after Unregister = %d, want 0", a.IteratorCount())
	}
}

func TestResolveStaysValidAfterDeletingEarlierEntry(t *testing.T) {
	r := NewRegistry()
	a := newFilledArray(3)

	h := r.Register(a, 1)
	a.Del(array.IntKey(0))

	pos := r.Resolve(h, a)
	if pos < 0 {
		t.Fatalf("Resolve returned invalid position %d after a deletion ahead of the cursor", pos)
	}
}

func TestResolveRebindsOnArrayReplacement(t *testing.T) {
	r := NewRegistry()
	a := newFilledArray(2)
	b := newFilledArray(5)

	h := r.Register(a, 0)
	pos := r.Resolve(h, b)
	if pos != b.InternalPointer() {
		t.Fatalf("Resolve after COW fork = %d, want %d (new array's internal pointer)", pos, b.InternalPointer())
	}
	if b.IteratorCount() != 1 {
		t.Fatalf("rebinding should increment the new array's iterator count, got %d", b.IteratorCount())
	}
	if a.IteratorCount() != 0 {
		t.Fatalf("rebinding should decrement the old array's iterator count, got %d", a.IteratorCount())
	}
}

func TestLowestPositionFindsSmallestAtOrAboveStart(t *testing.T) {
	r := NewRegistry()
	a := newFilledArray(5)

	r.Register(a, 3)
	r.Register(a, 1)
	r.Register(a, 4)

	if got := r.LowestPosition(a, 2); got != 3 {
		t.Fatalf("LowestPosition(a, 2) = %d, want 3", got)
	}
}

func TestRegistryGrowsBeyondInitialStep(t *testing.T) {
	r := NewRegistry()
	a := newFilledArray(20)

	var handles []Handle
	for i := 0; i < 20; i++ {
		handles = append(handles, r.Register(a, i))
	}
	if a.IteratorCount() != 20 {
		t.Fatalf("IteratorCount() = %d, want 20", a.IteratorCount())
	}
	for _, h := range handles {
		r.Unregister(h)
	}
	if a.IteratorCount() != 0 {
		t.Fatalf("IteratorCount() after unregistering all = %d, want 0", a.IteratorCount())
	}
}

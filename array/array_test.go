package array

import (
	"testing"

	"coreheap/value"
)

func TestPackedAppendStaysPacked(t *testing.T) {
	a := New(0)
	for i := 0; i < 5; i++ {
		if _, _, err := a.Put(IntKey(int64(i)), value.NewInt(int64(i*10)), ModeAdd); err != nil {
			t.Fatalf("Put %d: %v", i, err)
		}
	}
	if !a.IsPacked() {
		t.Fatal("sequential integer appends should stay packed")
	}
	if a.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", a.Len())
	}
	v, ok := a.Get(IntKey(3))
	if !ok || v.Int() != 30 {
		t.Fatalf("Get(3) = %v, %v; want 30, true", v, ok)
	}
}

func TestNonSequentialIntPromotesToHashed(t *testing.T) {
	a := New(0)
	a.Put(IntKey(0), value.NewInt(1), ModeAdd)
	a.Put(IntKey(100), value.NewInt(2), ModeAdd)
	if a.IsPacked() {
		t.Fatal("a far-out integer key should have promoted the array to hashed")
	}
	v, ok := a.Get(IntKey(100))
	if !ok || v.Int() != 2 {
		t.Fatalf("Get(100) = %v, %v", v, ok)
	}
}

func TestStringKeyLookupAndNumericCanonicalization(t *testing.T) {
	a := New(0)
	a.Put(StrKey("name"), value.NewInt(1), ModeAdd)
	a.Put(StrKey("17"), value.NewInt(2), ModeAdd)

	if _, ok := a.Get(StrKey("17")); !ok {
		t.Fatal("numeric string key should round-trip")
	}
	v, ok := a.Get(IntKey(17))
	if !ok || v.Int() != 2 {
		t.Fatalf("canonical numeric string should be stored under the integer key: %v, %v", v, ok)
	}
}

func TestDeleteLeavesHoleAndRewindsInternalPointer(t *testing.T) {
	a := New(0)
	a.Put(IntKey(0), value.NewInt(1), ModeAdd)
	a.Put(IntKey(1), value.NewInt(2), ModeAdd)
	a.Put(IntKey(2), value.NewInt(3), ModeAdd)

	if !a.Del(IntKey(0)) {
		t.Fatal("Del(0) should succeed")
	}
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	if _, ok := a.Get(IntKey(0)); ok {
		t.Fatal("deleted key should no longer be found")
	}
	if ip := a.InternalPointer(); ip < 0 {
		t.Fatalf("internal pointer should rewind to the next live bucket, got %d", ip)
	}
}

func TestModeAddRejectsExistingKey(t *testing.T) {
	a := New(0)
	a.Put(StrKey("k"), value.NewInt(1), ModeAdd)
	_, existed, err := a.Put(StrKey("k"), value.NewInt(2), ModeAdd)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !existed {
		t.Fatal("ModeAdd over an existing key should report existed=true")
	}
	v, _ := a.Get(StrKey("k"))
	if v.Int() != 1 {
		t.Fatalf("ModeAdd must not overwrite: got %d", v.Int())
	}
}

func TestResizeGrowsCapacityAndPreservesEntries(t *testing.T) {
	a := New(0)
	for i := 0; i < 100; i++ {
		a.Put(StrKey(string(rune('a'+i%26))+string(rune(i))), value.NewInt(int64(i)), ModeAdd)
	}
	if a.Capacity() <= 8 {
		t.Fatalf("capacity should have grown, got %d", a.Capacity())
	}
	count := 0
	a.ForEach(false, func(Entry) bool { count++; return true })
	if count != a.Len() {
		t.Fatalf("ForEach visited %d entries, want %d", count, a.Len())
	}
}

func TestIterationOrderIsInsertionOrder(t *testing.T) {
	a := New(0)
	order := []string{"z", "a", "m", "b"}
	for _, k := range order {
		a.Put(StrKey(k), value.NewInt(0), ModeAdd)
	}
	var got []string
	a.ForEach(false, func(e Entry) bool { got = append(got, e.Key.Str); return true })
	for i, k := range order {
		if got[i] != k {
			t.Fatalf("iteration order[%d] = %q, want %q", i, got[i], k)
		}
	}
}

func TestDupIsIndependent(t *testing.T) {
	a := New(0)
	a.Put(IntKey(0), value.NewInt(1), ModeAdd)
	a.Put(StrKey("x"), value.NewInt(2), ModeAdd)

	b := a.Dup()
	a.Del(IntKey(0))

	if _, ok := b.Get(IntKey(0)); !ok {
		t.Fatal("dup should be unaffected by later mutation of the source")
	}
	if b.Len() != 2 {
		t.Fatalf("dup Len() = %d, want 2", b.Len())
	}
}

func TestSortOrdersByComparatorAndRenumbers(t *testing.T) {
	a := New(0)
	a.Put(StrKey("c"), value.NewInt(3), ModeAdd)
	a.Put(StrKey("a"), value.NewInt(1), ModeAdd)
	a.Put(StrKey("b"), value.NewInt(2), ModeAdd)

	a.Sort(func(x, y Entry) int {
		if x.Value.Int() < y.Value.Int() {
			return -1
		}
		if x.Value.Int() > y.Value.Int() {
			return 1
		}
		return 0
	}, true)

	if !a.IsPacked() {
		t.Fatal("renumbering sort should leave the array packed")
	}
	var got []int64
	a.ForEach(false, func(e Entry) bool { got = append(got, e.Value.Int()); return true })
	want := []int64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestMergeOverwriteAndInsertOnly(t *testing.T) {
	dst := New(0)
	dst.Put(StrKey("a"), value.NewInt(1), ModeAdd)
	src := New(0)
	src.Put(StrKey("a"), value.NewInt(99), ModeAdd)
	src.Put(StrKey("b"), value.NewInt(2), ModeAdd)

	dst.Merge(src, false)
	v, _ := dst.Get(StrKey("a"))
	if v.Int() != 1 {
		t.Fatalf("non-overwrite merge should keep dst's existing value, got %d", v.Int())
	}
	if _, ok := dst.Get(StrKey("b")); !ok {
		t.Fatal("non-overwrite merge should still add absent keys")
	}

	dst.Merge(src, true)
	v, _ = dst.Get(StrKey("a"))
	if v.Int() != 99 {
		t.Fatalf("overwrite merge should replace dst's value, got %d", v.Int())
	}
}

func TestCompareOrderedEqualAndLengthDifference(t *testing.T) {
	elemCmp := func(a, b value.Cell) int {
		switch {
		case a.Int() < b.Int():
			return -1
		case a.Int() > b.Int():
			return 1
		default:
			return 0
		}
	}
	a := New(0)
	a.Put(IntKey(0), value.NewInt(1), ModeAdd)
	b := New(0)
	b.Put(IntKey(0), value.NewInt(1), ModeAdd)
	if c, err := a.Compare(b, elemCmp, true); err != nil || c != 0 {
		t.Fatalf("identical arrays should compare equal, got %d, err %v", c, err)
	}
	b.Put(IntKey(1), value.NewInt(2), ModeAdd)
	if c, err := a.Compare(b, elemCmp, true); err != nil || c == 0 {
		t.Fatal("arrays of different length should not compare equal")
	}
}

func TestIndirectDeletionClearsTargetNotBucket(t *testing.T) {
	target := value.NewInt(42)
	a := New(0)
	a.Put(StrKey("frameslot"), value.NewIndirect(&target), ModeAdd)

	if !a.Del(StrKey("frameslot")) {
		t.Fatal("Del on an indirect entry should report success")
	}
	if !target.IsUndef() {
		t.Fatal("deleting an indirect bucket should clear its target, not remove the bucket")
	}
}

func TestCompareSelfReferenceTripsRecursionGuard(t *testing.T) {
	a := New(0)
	a.Put(IntKey(0), value.NewInt(1), ModeAdd)
	b := New(0)
	b.Put(IntKey(0), value.NewInt(1), ModeAdd)

	// A comparator that keeps re-entering a.Compare(b, ...) simulates
	// elementCmp recursing into a nested array equal to one already
	// being compared, the case enterApply/exitApply guards against.
	var guardTripped bool
	var elemCmp func(x, y value.Cell) int
	elemCmp = func(x, y value.Cell) int {
		if _, err := a.Compare(b, elemCmp, true); err != nil {
			guardTripped = true
		}
		return 0
	}

	a.Compare(b, elemCmp, true)
	if !guardTripped {
		t.Fatal("expected the recursion guard to trip on repeated self-comparison")
	}
}

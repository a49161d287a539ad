package bitset

import "testing"

func TestSetClearTest(t *testing.T) {
	b := make([]uint64, Words(128))
	SetBit(b, 5)
	SetBit(b, 70)
	if !TestBit(b, 5) || !TestBit(b, 70) {
		t.Fatal("expected bits 5 and 70 set")
	}
	ClearBit(b, 5)
	if TestBit(b, 5) {
		t.Fatal("bit 5 should be clear")
	}
	if !TestBit(b, 70) {
		t.Fatal("bit 70 should remain set")
	}
}

func TestRangeOps(t *testing.T) {
	b := make([]uint64, Words(200))
	SetRange(b, 10, 50)
	for i := 10; i < 60; i++ {
		if !TestBit(b, i) {
			t.Fatalf("bit %d should be set", i)
		}
	}
	if TestBit(b, 9) || TestBit(b, 60) {
		t.Fatal("range overshoot")
	}
	if !IsFreeRange(b, 60, 20) {
		t.Fatal("expected free range")
	}
	ClearRange(b, 20, 10)
	for i := 20; i < 30; i++ {
		if TestBit(b, i) {
			t.Fatalf("bit %d should be clear after ClearRange", i)
		}
	}
}

func TestFindFirstZeroAndOne(t *testing.T) {
	b := make([]uint64, Words(128))
	SetRange(b, 0, 64)
	if idx := FindFirstZero(b, 2); idx != 64 {
		t.Fatalf("FindFirstZero = %d, want 64", idx)
	}
	if idx := FindFirstOne(b, 2); idx != 0 {
		t.Fatalf("FindFirstOne = %d, want 0", idx)
	}
	full := make([]uint64, 1)
	full[0] = ^uint64(0)
	if idx := FindFirstZero(full, 1); idx != -1 {
		t.Fatalf("FindFirstZero on full word = %d, want -1", idx)
	}
}

func TestFindFirstZeroAndSet(t *testing.T) {
	b := make([]uint64, Words(64))
	idx := FindFirstZeroAndSet(b, 1)
	if idx != 0 {
		t.Fatalf("got %d, want 0", idx)
	}
	if !TestBit(b, 0) {
		t.Fatal("expected bit 0 to now be set")
	}
}

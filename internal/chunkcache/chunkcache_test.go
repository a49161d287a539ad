package chunkcache

import (
	"testing"

	"coreheap/internal/chunkmgr"
)

func TestRetainWhenBelowAverage(t *testing.T) {
	var c Cache
	c.avg = 5
	ch := &chunkmgr.Chunk{Num: 1}
	if released := c.Push(ch, 2); released != nil {
		t.Fatal("expected retain below average")
	}
	if c.Len() != 1 {
		t.Fatalf("cache len = %d, want 1", c.Len())
	}
}

func TestReleasePrefersHigherNum(t *testing.T) {
	var c Cache
	c.avg = 0 // force release policy
	low := &chunkmgr.Chunk{Num: 1}
	high := &chunkmgr.Chunk{Num: 5}
	c.chunks = append(c.chunks, low)

	released := c.Push(high, 100)
	if released != high {
		t.Fatalf("expected to release the newly detached higher-Num chunk, got Num=%d", released.Num)
	}
	if c.chunks[len(c.chunks)-1] != low {
		t.Fatal("low-Num cached chunk should remain cached")
	}
}

func TestReleaseSwapsForLowerNum(t *testing.T) {
	var c Cache
	c.avg = 0
	head := &chunkmgr.Chunk{Num: 10}
	c.chunks = append(c.chunks, head)
	detached := &chunkmgr.Chunk{Num: 2}

	released := c.Push(detached, 100)
	if released != head {
		t.Fatalf("expected to release old high-Num head, got Num=%d", released.Num)
	}
	if c.chunks[len(c.chunks)-1] != detached {
		t.Fatal("lower-Num detached chunk should now be cached")
	}
}

func TestTrimRespectsAverage(t *testing.T) {
	var c Cache
	for i := 0; i < 5; i++ {
		c.chunks = append(c.chunks, &chunkmgr.Chunk{Num: uint32(i)})
	}
	c.avg = 2
	trimmed := c.Trim()
	if len(trimmed) == 0 {
		t.Fatal("expected some chunks trimmed")
	}
	if float64(c.Len())+0.9 > c.avg {
		t.Fatalf("cache len %d still exceeds avg %v after trim", c.Len(), c.avg)
	}
}

// Command heapdemo exercises the heap and array engines together end
// to end: it allocates a request-scoped heap, builds an array of
// values, registers an external iterator against it, forces a
// copy-on-write-style fork, and reports what the iterator registry
// did in response, then prints the heap's final statistics.
package main

import (
	"flag"
	"fmt"
	"os"

	"coreheap/array"
	"coreheap/heap"
	"coreheap/iterregistry"
	"coreheap/value"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: heapdemo [-entries N] [-limit BYTES]\n")
		fmt.Fprintf(os.Stderr, "Drives the allocator and the associative array through one simulated request.\n")
	}
	entries := flag.Int("entries", 64, "number of array entries to insert")
	limit := flag.Uint64("limit", 0, "heap byte limit (0 = unlimited)")
	flag.Parse()

	h := heap.New(heap.Config{Limit: *limit})
	reg := iterregistry.NewRegistry()

	a := array.New(0)
	for i := 0; i < *entries; i++ {
		a.Put(array.IntKey(int64(i)), value.NewInt(int64(i*i)), array.ModeAdd)
	}
	fmt.Printf("built array: packed=%v count=%d capacity=%d\n", a.IsPacked(), a.Len(), a.Capacity())

	it := reg.Register(a, a.InternalPointer())
	fmt.Printf("registered iterator at position %d\n", a.InternalPointer())

	forked := a.Dup()
	forked.Put(array.IntKey(int64(*entries)), value.NewInt(-1), array.ModeAdd)

	pos := reg.Resolve(it, forked)
	fmt.Printf("after fork, iterator resolved to position %d on the new array\n", pos)

	if err := heapWalk(h, *entries); err != nil {
		fmt.Fprintf(os.Stderr, "heap walk failed: %v\n", err)
		os.Exit(1)
	}

	snap := h.Snapshot()
	fmt.Printf("heap stats: size=%d peak=%d real_size=%d chunks=%d cached_chunks=%d gc_runs=%d\n",
		snap.Size, snap.Peak, snap.RealSize, snap.Chunks, snap.CachedChunks, snap.GCRuns)
}

// heapWalk allocates and frees a spread of small, large, and huge
// sizes so the printed statistics exercise all three paths.
func heapWalk(h *heap.Heap, n int) error {
	for i := 0; i < n; i++ {
		size := 1 << uint(i%22)
		p, err := h.Alloc(size)
		if err != nil {
			return err
		}
		if i%3 == 0 {
			if err := h.Free(p); err != nil {
				return err
			}
		}
	}
	h.GC()
	return nil
}

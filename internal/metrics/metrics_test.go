package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHeapCollectorGathers(t *testing.T) {
	reg := prometheus.NewRegistry()
	snap := Snapshot{Size: 100, Peak: 200, Chunks: 2, CachedChunks: 1, GCRuns: 3, GCBytesReclaimed: 4096}
	c := NewHeapCollector("coreheap", func() Snapshot { return snap })
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(mfs) != 8 {
		t.Fatalf("got %d metric families, want 8", len(mfs))
	}
}

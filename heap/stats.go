package heap

// Stats is a point-in-time copy of §4.6's counters. Snapshot is a
// SPEC_FULL.md addition (not named in spec.md's External Interfaces
// list) implied by Component F's "statistics" responsibility;
// internal/metrics keeps its own mirror of these fields and does not
// import this package.
type Stats struct {
	Size, Peak           uint64
	RealSize, RealPeak   uint64
	Chunks, CachedChunks int
	Limit                uint64
	GCRuns               uint64
	GCBytesReclaimed     uint64
}

// Snapshot returns the heap's current statistics.
func (h *Heap) Snapshot() Stats {
	return Stats{
		Size:             h.size,
		Peak:             h.peak,
		RealSize:         h.realSize,
		RealPeak:         h.realPeak,
		Chunks:           h.numChunks,
		CachedChunks:     h.cache.Len(),
		Limit:            h.cfg.Limit,
		GCRuns:           h.gcRuns,
		GCBytesReclaimed: h.gcBytesReclaimed,
	}
}

// SetLimit installs a byte limit; 0 means unlimited.
func (h *Heap) SetLimit(n uint64) { h.cfg.Limit = n }

// Overflowing reports whether the "overflow in progress" guard (§5)
// is set, preventing reentrant OOM storms during error cleanup.
func (h *Heap) Overflowing() bool { return h.overflow }

func (h *Heap) SetOverflowing(v bool) { h.overflow = v }

// Package metrics exposes heap and array statistics as Prometheus
// collectors, in the idiom talyz-systemd_exporter uses throughout
// (gauges/counters built from client_golang, registered against a
// caller-supplied registry rather than the global default one so a
// library consumer that never touches Prometheus pays nothing).
package metrics

import "github.com/prometheus/client_golang/prometheus"

// HeapCollector reports the §4.6 statistics of one heap's current
// Snapshot on every scrape.
type HeapCollector struct {
	snapshot func() Snapshot

	sizeDesc         *prometheus.Desc
	peakDesc         *prometheus.Desc
	realSizeDesc     *prometheus.Desc
	realPeakDesc     *prometheus.Desc
	chunksDesc       *prometheus.Desc
	cachedChunksDesc *prometheus.Desc
	gcRunsDesc       *prometheus.Desc
	gcReclaimedDesc  *prometheus.Desc
}

// Snapshot mirrors heap.Stats; duplicated here (rather than importing
// package heap) to keep metrics a leaf package heap can depend on
// without a cycle.
type Snapshot struct {
	Size, Peak         uint64
	RealSize, RealPeak uint64
	Chunks, CachedChunks int
	GCRuns             uint64
	GCBytesReclaimed   uint64
}

// NewHeapCollector builds a collector that calls snapshot() on demand.
func NewHeapCollector(namespace string, snapshot func() Snapshot) *HeapCollector {
	ns := func(name string) *prometheus.Desc {
		return prometheus.NewDesc(namespace+"_"+name, name, nil, nil)
	}
	return &HeapCollector{
		snapshot:         snapshot,
		sizeDesc:         ns("heap_size_bytes"),
		peakDesc:         ns("heap_peak_bytes"),
		realSizeDesc:     ns("heap_real_size_bytes"),
		realPeakDesc:     ns("heap_real_peak_bytes"),
		chunksDesc:       ns("heap_chunks"),
		cachedChunksDesc: ns("heap_cached_chunks"),
		gcRunsDesc:       ns("heap_gc_runs_total"),
		gcReclaimedDesc:  ns("heap_gc_reclaimed_bytes_total"),
	}
}

func (c *HeapCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sizeDesc
	ch <- c.peakDesc
	ch <- c.realSizeDesc
	ch <- c.realPeakDesc
	ch <- c.chunksDesc
	ch <- c.cachedChunksDesc
	ch <- c.gcRunsDesc
	ch <- c.gcReclaimedDesc
}

func (c *HeapCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.snapshot()
	ch <- prometheus.MustNewConstMetric(c.sizeDesc, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(c.peakDesc, prometheus.GaugeValue, float64(s.Peak))
	ch <- prometheus.MustNewConstMetric(c.realSizeDesc, prometheus.GaugeValue, float64(s.RealSize))
	ch <- prometheus.MustNewConstMetric(c.realPeakDesc, prometheus.GaugeValue, float64(s.RealPeak))
	ch <- prometheus.MustNewConstMetric(c.chunksDesc, prometheus.GaugeValue, float64(s.Chunks))
	ch <- prometheus.MustNewConstMetric(c.cachedChunksDesc, prometheus.GaugeValue, float64(s.CachedChunks))
	ch <- prometheus.MustNewConstMetric(c.gcRunsDesc, prometheus.CounterValue, float64(s.GCRuns))
	ch <- prometheus.MustNewConstMetric(c.gcReclaimedDesc, prometheus.CounterValue, float64(s.GCBytesReclaimed))
}

package metrics

import "time"

// UsedSpaceSource exposes a capacity counter's current/maximum byte
// counts. *chunkstore.UsedSpace already satisfies this by virtue of its
// own Current/Capacity methods, so pkg/metrics never needs to import
// pkg/chunkstore to accept one.
type UsedSpaceSource interface {
	Current() uint64
	Capacity() uint64
}

// ChunkStoreMetrics is the collector a chunkstore.Store reports its
// operations to.
type ChunkStoreMetrics interface {
	ObservePut(size uint64, duration time.Duration, err error)
	ObserveGet(duration time.Duration, err error)
	ObserveDelete(err error)
}

// newPrometheusChunkStoreMetrics is installed by pkg/metrics/prometheus's
// init. The indirection avoids an import cycle: metrics/prometheus
// imports metrics for the interfaces above, so metrics cannot import
// metrics/prometheus back to call its constructor directly.
var newPrometheusChunkStoreMetrics func(objectKind string) ChunkStoreMetrics

// RegisterChunkStoreMetricsConstructor installs the Prometheus
// implementation. Called once from metrics/prometheus's init.
func RegisterChunkStoreMetricsConstructor(constructor func(objectKind string) ChunkStoreMetrics) {
	newPrometheusChunkStoreMetrics = constructor
}

// NewChunkStoreMetrics returns a collector scoped to objectKind ("idata",
// "mdata", "adata"), or nil when metrics are disabled.
func NewChunkStoreMetrics(objectKind string) ChunkStoreMetrics {
	if !IsEnabled() || newPrometheusChunkStoreMetrics == nil {
		return nil
	}
	return newPrometheusChunkStoreMetrics(objectKind)
}

// ObservePut records a Store.Put call.
func ObservePut(m ChunkStoreMetrics, size uint64, duration time.Duration, err error) {
	if m != nil {
		m.ObservePut(size, duration, err)
	}
}

// ObserveGet records a Store.Get call.
func ObserveGet(m ChunkStoreMetrics, duration time.Duration, err error) {
	if m != nil {
		m.ObserveGet(duration, err)
	}
}

// ObserveDelete records a Store.Delete call.
func ObserveDelete(m ChunkStoreMetrics, err error) {
	if m != nil {
		m.ObserveDelete(err)
	}
}

// newPrometheusUsedSpaceGauge is installed by metrics/prometheus's init,
// same indirection reason as above.
var newPrometheusUsedSpaceGauge func(objectKind string, src UsedSpaceSource)

// RegisterUsedSpaceGaugeConstructor installs the Prometheus gauge
// registration. Called once from metrics/prometheus's init.
func RegisterUsedSpaceGaugeConstructor(fn func(objectKind string, src UsedSpaceSource)) {
	newPrometheusUsedSpaceGauge = fn
}

// RegisterUsedSpaceGauge wires a gauge that samples src's Current/Capacity
// at scrape time, scoped to objectKind. A no-op when metrics are
// disabled, so callers can invoke it unconditionally right after
// constructing a store.
func RegisterUsedSpaceGauge(objectKind string, src UsedSpaceSource) {
	if !IsEnabled() || newPrometheusUsedSpaceGauge == nil {
		return
	}
	newPrometheusUsedSpaceGauge(objectKind, src)
}

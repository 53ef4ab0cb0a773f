package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lionel1704/sn-node/pkg/metrics"
)

func init() {
	metrics.RegisterChunkStoreMetricsConstructor(newChunkStoreMetrics)
	metrics.RegisterUsedSpaceGaugeConstructor(registerUsedSpaceGauge)
}

// chunkStoreMetrics is the Prometheus implementation of
// metrics.ChunkStoreMetrics, labeled by object kind so idata/mdata/adata
// share one metric family.
type chunkStoreMetrics struct {
	putDuration *prometheus.HistogramVec
	putBytes    *prometheus.CounterVec
	putErrors   *prometheus.CounterVec
	getDuration *prometheus.HistogramVec
	getErrors   *prometheus.CounterVec
	delErrors   *prometheus.CounterVec
	objectKind  string
}

func newChunkStoreMetrics(objectKind string) metrics.ChunkStoreMetrics {
	reg := metrics.GetRegistry()

	return &chunkStoreMetrics{
		objectKind: objectKind,
		putDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "vault_chunkstore_put_duration_seconds",
			Help: "Store.Put latency by object kind.",
		}, []string{"object_kind"}),
		putBytes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vault_chunkstore_put_bytes_total",
			Help: "Total bytes accepted by Store.Put by object kind.",
		}, []string{"object_kind"}),
		putErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vault_chunkstore_put_errors_total",
			Help: "Total Store.Put failures by object kind.",
		}, []string{"object_kind"}),
		getDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "vault_chunkstore_get_duration_seconds",
			Help: "Store.Get latency by object kind.",
		}, []string{"object_kind"}),
		getErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vault_chunkstore_get_errors_total",
			Help: "Total Store.Get failures by object kind.",
		}, []string{"object_kind"}),
		delErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vault_chunkstore_delete_errors_total",
			Help: "Total Store.Delete failures by object kind.",
		}, []string{"object_kind"}),
	}
}

func (m *chunkStoreMetrics) ObservePut(size uint64, duration time.Duration, err error) {
	m.putDuration.WithLabelValues(m.objectKind).Observe(duration.Seconds())
	if err != nil {
		m.putErrors.WithLabelValues(m.objectKind).Inc()
		return
	}
	m.putBytes.WithLabelValues(m.objectKind).Add(float64(size))
}

func (m *chunkStoreMetrics) ObserveGet(duration time.Duration, err error) {
	m.getDuration.WithLabelValues(m.objectKind).Observe(duration.Seconds())
	if err != nil {
		m.getErrors.WithLabelValues(m.objectKind).Inc()
	}
}

func (m *chunkStoreMetrics) ObserveDelete(err error) {
	if err != nil {
		m.delErrors.WithLabelValues(m.objectKind).Inc()
	}
}

func registerUsedSpaceGauge(objectKind string, src metrics.UsedSpaceSource) {
	reg := metrics.GetRegistry()
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "vault_chunkstore_used_bytes",
		Help:        "Bytes currently committed in the store.",
		ConstLabels: prometheus.Labels{"object_kind": objectKind},
	}, func() float64 { return float64(src.Current()) })
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "vault_chunkstore_capacity_bytes",
		Help:        "Configured maximum bytes for the store.",
		ConstLabels: prometheus.Labels{"object_kind": objectKind},
	}, func() float64 { return float64(src.Capacity()) })
}

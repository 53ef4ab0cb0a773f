package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lionel1704/sn-node/pkg/metrics"
)

func init() {
	metrics.RegisterIDataMetricsConstructor(newIDataMetrics)
}

// idataMetrics is the Prometheus implementation of metrics.IDataMetrics.
type idataMetrics struct {
	opsInFlight prometheus.Gauge
	holderOK    prometheus.Counter
	holderErr   prometheus.Counter
}

func newIDataMetrics() metrics.IDataMetrics {
	reg := metrics.GetRegistry()

	return &idataMetrics{
		opsInFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "vault_idata_ops_in_flight",
			Help: "Number of IData operations currently awaiting holder responses.",
		}),
		holderOK: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vault_idata_holder_responses_total",
			Help: "Total holder responses received, by outcome.",
			ConstLabels: prometheus.Labels{
				"outcome": "ok",
			},
		}),
		holderErr: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "vault_idata_holder_responses_total",
			Help: "Total holder responses received, by outcome.",
			ConstLabels: prometheus.Labels{
				"outcome": "error",
			},
		}),
	}
}

func (m *idataMetrics) SetOpsInFlight(n int) {
	m.opsInFlight.Set(float64(n))
}

func (m *idataMetrics) RecordHolderResult(ok bool) {
	if ok {
		m.holderOK.Inc()
		return
	}
	m.holderErr.Inc()
}

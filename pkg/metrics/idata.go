package metrics

// IDataMetrics is the collector an IDataHandler reports its coordination
// state to: how many ops are in flight, and how holder responses are
// resolving.
type IDataMetrics interface {
	SetOpsInFlight(n int)
	RecordHolderResult(ok bool)
}

// newPrometheusIDataMetrics is installed by metrics/prometheus's init,
// same import-cycle reason as RegisterChunkStoreMetricsConstructor.
var newPrometheusIDataMetrics func() IDataMetrics

// RegisterIDataMetricsConstructor installs the Prometheus implementation.
// Called once from metrics/prometheus's init.
func RegisterIDataMetricsConstructor(constructor func() IDataMetrics) {
	newPrometheusIDataMetrics = constructor
}

// NewIDataMetrics returns a collector for one IDataHandler, or nil when
// metrics are disabled.
func NewIDataMetrics() IDataMetrics {
	if !IsEnabled() || newPrometheusIDataMetrics == nil {
		return nil
	}
	return newPrometheusIDataMetrics()
}

// SetOpsInFlight records the current size of the handler's op table.
func SetOpsInFlight(m IDataMetrics, n int) {
	if m != nil {
		m.SetOpsInFlight(n)
	}
}

// RecordHolderResult records one holder response, ok if it carried no
// error.
func RecordHolderResult(m IDataMetrics, ok bool) {
	if m != nil {
		m.RecordHolderResult(ok)
	}
}

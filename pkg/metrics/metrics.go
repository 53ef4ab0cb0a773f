// Package metrics provides optional Prometheus instrumentation for the
// vault's storage and coordination layers. Every collector is consumed
// through a small interface defined here so pkg/chunkstore, pkg/idata and
// friends never import prometheus directly; when metrics are disabled
// every constructor below returns nil and the package-level Observe/
// Record helpers turn into a no-op nil check rather than a missing call.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var registry *prometheus.Registry

// InitRegistry enables metrics collection, creating a fresh registry.
// Call it once during startup, before constructing any collector; until
// it runs, IsEnabled reports false and every NewXMetrics constructor
// below returns nil.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool { return registry != nil }

// GetRegistry returns the active registry, or nil if metrics are
// disabled.
func GetRegistry() *prometheus.Registry { return registry }

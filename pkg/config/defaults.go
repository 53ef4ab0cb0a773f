package config

import (
	"github.com/lionel1704/sn-node/internal/bytesize"
	"github.com/lionel1704/sn-node/pkg/idata"
)

// DefaultConfig returns a Config populated entirely with defaults, used
// when no configuration file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		RootDir:     "/var/lib/vaultd",
		MaxCapacity: bytesize.ByteSize(10 << 30), // 10 GiB
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields of cfg with their defaults.
// It is applied after a config file is unmarshaled so a partial file
// only overrides the sections it sets.
func ApplyDefaults(cfg *Config) {
	if cfg.Backend == "" {
		cfg.Backend = "fs"
	}
	if cfg.ReplicaCount == 0 {
		cfg.ReplicaCount = idata.DefaultReplicaCount
	}
	if cfg.IDataOpTTL <= 0 {
		cfg.IDataOpTTL = idata.DefaultOpTTL
	}
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

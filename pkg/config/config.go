// Package config loads and validates vault node configuration from
// built-in defaults, a YAML file, and environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/lionel1704/sn-node/internal/bytesize"
)

// Config is the static configuration of one vault node.
//
// Configuration sources, highest precedence first:
//  1. Environment variables (VAULTD_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	// RootDir is the filesystem root the chunk store backends persist
	// under. Unused when Backend is "s3".
	RootDir string `mapstructure:"root_dir" validate:"required_unless=Backend s3" yaml:"root_dir"`

	// Backend selects the chunkstore.Backend implementation: fs (default),
	// badger, or s3.
	Backend string `mapstructure:"backend" validate:"omitempty,oneof=fs badger s3" yaml:"backend"`

	// S3 configures the s3 backend. Ignored unless Backend is "s3".
	S3 S3Config `mapstructure:"s3" yaml:"s3"`

	// MaxCapacity bounds total on-disk chunk storage (§2, §9a).
	MaxCapacity bytesize.ByteSize `mapstructure:"max_capacity" validate:"required" yaml:"max_capacity"`

	// ReplicaCount is the number of holders an Elder selects per Put
	// (§4.4, §9a item 3). Zero falls back to idata.DefaultReplicaCount.
	ReplicaCount int `mapstructure:"replica_count" validate:"omitempty,gt=0" yaml:"replica_count"`

	// IDataOpTTL bounds how long an uncompleted IDataOp may sit in the
	// op table before the reaper drops it (§9a item 1). Zero falls back
	// to idata.DefaultOpTTL.
	IDataOpTTL time.Duration `mapstructure:"idata_op_ttl" yaml:"idata_op_ttl"`

	// Self is this node's own routing identity, hex-encoded. Required to
	// run as an Elder: it is the identity presented to holders when
	// relaying a client request on (§4.2).
	Self string `mapstructure:"self" validate:"omitempty,len=64,hexadecimal" yaml:"self"`

	// Peers is the fixed holder membership this node routes against, each
	// entry hex-encoded. There is no overlay in this deployment shape
	// (§1), so the holder set is operator-configured rather than
	// discovered.
	Peers []string `mapstructure:"peers" validate:"omitempty,dive,len=64,hexadecimal" yaml:"peers"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Metrics configures the Prometheus metrics HTTP server.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format selects the log output encoding.
	// Valid values: text, json.
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stdout, stderr, or a file
	// path.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// S3Config configures the s3 chunkstore backend.
type S3Config struct {
	Bucket         string `mapstructure:"bucket" yaml:"bucket"`
	Region         string `mapstructure:"region" yaml:"region"`
	Endpoint       string `mapstructure:"endpoint" yaml:"endpoint"`
	KeyPrefix      string `mapstructure:"key_prefix" yaml:"key_prefix"`
	ForcePathStyle bool   `mapstructure:"force_path_style" yaml:"force_path_style"`
}

// MetricsConfig configures the Prometheus metrics HTTP server. When
// Enabled is false, no metrics are collected and no server is started.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP port the metrics endpoint listens on.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`
}

// Load loads configuration from file, environment, and defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		cfg := DefaultConfig()
		return cfg, Validate(cfg)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration, returning an actionable error if
// configPath is empty and no file exists at the default location.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		if !DefaultConfigExists() {
			return nil, fmt.Errorf("no configuration file found at default location: %s\n\n"+
				"initialize one first:\n"+
				"  vaultd init\n\n"+
				"or specify a custom config file:\n"+
				"  vaultd <command> --config /path/to/config.yaml",
				GetDefaultConfigPath())
		}
		configPath = GetDefaultConfigPath()
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path in YAML form, creating parent directories
// as needed.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// InitConfig writes a sample configuration file to the default location,
// returning the path written. It refuses to overwrite an existing file
// unless force is set.
func InitConfig(force bool) (string, error) {
	return InitConfigToPath(GetDefaultConfigPath(), force)
}

// InitConfigToPath writes a sample configuration file to path, returning
// path on success. It refuses to overwrite an existing file unless force
// is set.
func InitConfigToPath(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}
	if err := SaveConfig(DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("VAULTD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if ok := isConfigFileNotFoundError(err, &notFound); ok || os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func isConfigFileNotFoundError(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}

// configDecodeHooks combines the custom decoders config file values go
// through before landing in their struct fields.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		byteSizeDecodeHook(),
		durationDecodeHook(),
	)
}

func byteSizeDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(bytesize.ByteSize(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return bytesize.ParseByteSize(v)
		case int:
			return bytesize.ByteSize(v), nil
		case int64:
			return bytesize.ByteSize(v), nil
		case uint64:
			return bytesize.ByteSize(v), nil
		case float64:
			return bytesize.ByteSize(v), nil
		default:
			return data, nil
		}
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vaultd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "vaultd")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether a config file exists at the
// default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path.
func GetConfigDir() string {
	return getConfigDir()
}

// structValidator is shared across Validate calls: go-playground's
// validator caches struct reflection internally, so one instance should
// outlive any single call.
var structValidator = validator.New()

// Validate checks cfg's struct tags via go-playground/validator, plus the
// cross-field backend/bucket requirement the validator's struct-level
// tags can't express across a nested struct boundary.
func Validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		return err
	}
	if cfg.Backend == "s3" && cfg.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when backend is \"s3\"")
	}
	return nil
}

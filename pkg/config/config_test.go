package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/internal/bytesize"
)

func TestDefaultConfigPassesValidation(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 8, cfg.ReplicaCount)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestValidateRejectsMissingRootDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RootDir = ""
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "VERBOSE"
	assert.Error(t, Validate(cfg))
}

func TestLoadFromFileAppliesFileThenDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root_dir: /data/vault
max_capacity: 5GiB
logging:
  level: DEBUG
  format: json
  output: stderr
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/vault", cfg.RootDir)
	assert.Equal(t, bytesize.ByteSize(5<<30), cfg.MaxCapacity)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, 9090, cfg.Metrics.Port, "unset section should still pick up its default")
}

func TestLoadParsesDurationField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root_dir: /data/vault
max_capacity: 1GiB
idata_op_ttl: 45s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.IDataOpTTL)
}

func TestDefaultConfigUsesFsBackend(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "fs", cfg.Backend)
}

func TestValidateRejectsS3BackendWithoutBucket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "s3"
	assert.Error(t, Validate(cfg))
}

func TestValidateAllowsS3BackendWithoutRootDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "s3"
	cfg.RootDir = ""
	cfg.S3.Bucket = "vault-chunks"
	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "memcached"
	assert.Error(t, Validate(cfg))
}

func TestSaveConfigRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.RootDir = "/data/vault"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.RootDir, loaded.RootDir)
	assert.Equal(t, cfg.MaxCapacity, loaded.MaxCapacity)
}

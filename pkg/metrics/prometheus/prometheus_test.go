package prometheus

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/metrics"
)

type fakeUsedSpace struct{ current, capacity uint64 }

func (f fakeUsedSpace) Current() uint64  { return f.current }
func (f fakeUsedSpace) Capacity() uint64 { return f.capacity }

func TestConstructorsReturnNilWhenDisabled(t *testing.T) {
	assert.Nil(t, metrics.NewChunkStoreMetrics("idata"))
	assert.Nil(t, metrics.NewIDataMetrics())
}

func TestChunkStoreMetricsRecordsPutGetDelete(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.InitRegistry() })

	m := metrics.NewChunkStoreMetrics("idata")
	require.NotNil(t, m)

	metrics.ObservePut(m, 128, 0, nil)
	metrics.ObserveGet(m, 0, assertErr)
	metrics.ObserveDelete(m, nil)

	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	assert.True(t, hasMetric(families, "vault_chunkstore_put_bytes_total"))
	assert.True(t, hasMetric(families, "vault_chunkstore_get_errors_total"))
}

func TestUsedSpaceGaugeSamplesSource(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.InitRegistry() })

	metrics.RegisterUsedSpaceGauge("idata", fakeUsedSpace{current: 42, capacity: 100})

	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	require.True(t, hasMetric(families, "vault_chunkstore_used_bytes"))
}

func TestIDataMetricsRecordsHolderOutcomes(t *testing.T) {
	metrics.InitRegistry()
	t.Cleanup(func() { metrics.InitRegistry() })

	m := metrics.NewIDataMetrics()
	require.NotNil(t, m)

	metrics.SetOpsInFlight(m, 3)
	metrics.RecordHolderResult(m, true)
	metrics.RecordHolderResult(m, false)

	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	assert.True(t, hasMetric(families, "vault_idata_ops_in_flight"))
	assert.True(t, hasMetric(families, "vault_idata_holder_responses_total"))
}

var assertErr = assertError{}

type assertError struct{}

func (assertError) Error() string { return "boom" }

func hasMetric(families []*dto.MetricFamily, name string) bool {
	for _, f := range families {
		if f.GetName() == name {
			return true
		}
	}
	return false
}

package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/config"
)

func TestHumanBytes(t *testing.T) {
	cases := map[uint64]string{
		0:                 "0B",
		1023:              "1023B",
		1024:              "1.0KiB",
		1536:              "1.5KiB",
		10 << 30:          "10.0GiB",
	}
	for in, want := range cases {
		require.Equal(t, want, humanBytes(in))
	}
}

func TestSelfNodeIDEmptyWhenUnconfigured(t *testing.T) {
	cfg := &config.Config{}
	id, err := selfNodeID(cfg)
	require.NoError(t, err)
	require.Zero(t, id.Name)
}

func TestSelfNodeIDRejectsMalformedHex(t *testing.T) {
	cfg := &config.Config{Self: "not-hex"}
	_, err := selfNodeID(cfg)
	require.Error(t, err)
}

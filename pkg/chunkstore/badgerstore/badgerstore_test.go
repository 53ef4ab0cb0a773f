package badgerstore_test

import (
	"testing"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/badgerstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/storetest"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	storetest.RunConformanceSuite(t, func(t *testing.T) chunkstore.Backend {
		s, err := badgerstore.New(badgerstore.Config{InMemory: true})
		require.NoError(t, err)
		return s
	})
}

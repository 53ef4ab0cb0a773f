// Package storetest provides a conformance test suite run against every
// ChunkStore backend (fsstore/badgerstore/s3store) to guarantee they share
// identical observable behavior.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
)

// testChunk is the minimal chunkstore.Chunk implementation the suite
// exercises backends with: a fixed address and payload.
type testChunk struct {
	addr string
	data []byte
}

func (c testChunk) Address() string       { return c.addr }
func (c testChunk) SerializedSize() uint64 { return uint64(len(c.data)) }

type testCodec struct{}

func (testCodec) Encode(obj testChunk) ([]byte, error) { return obj.data, nil }
func (testCodec) Decode(data []byte) (testChunk, error) {
	return testChunk{data: data}, nil
}

// BackendFactory creates a fresh, empty chunkstore.Backend for one test.
type BackendFactory func(t *testing.T) chunkstore.Backend

// RunConformanceSuite exercises put/get/delete/list/size semantics and the
// capacity-accounting invariants from spec.md §8 against every backend
// produced by factory.
func RunConformanceSuite(t *testing.T, factory BackendFactory) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) { testPutGetRoundTrip(t, factory) })
	t.Run("DeleteThenGetIsNoSuchData", func(t *testing.T) { testDeleteThenGet(t, factory) })
	t.Run("HasReflectsPresence", func(t *testing.T) { testHasReflectsPresence(t, factory) })
	t.Run("PutEnforcesCapacity", func(t *testing.T) { testPutEnforcesCapacity(t, factory) })
	t.Run("DeleteReleasesCapacity", func(t *testing.T) { testDeleteReleasesCapacity(t, factory) })
	t.Run("RecoverRebuildsUsedSpace", func(t *testing.T) { testRecoverRebuildsUsedSpace(t, factory) })
	t.Run("ListIsComplete", func(t *testing.T) { testListIsComplete(t, factory) })
}

func newStore(t *testing.T, factory BackendFactory, capacity uint64) *chunkstore.Store[testChunk] {
	t.Helper()
	backend := factory(t)
	t.Cleanup(func() { _ = backend.Close() })

	s, err := chunkstore.New[testChunk](t.Context(), backend, testCodec{}, chunkstore.Config{
		MaxCapacity: capacity,
		Mode:        chunkstore.Fresh,
	})
	require.NoError(t, err)
	return s
}

func testPutGetRoundTrip(t *testing.T, factory BackendFactory) {
	s := newStore(t, factory, 1<<20)
	obj := testChunk{addr: "alpha", data: []byte("hello")}

	require.NoError(t, s.Put(t.Context(), obj))

	got, err := s.Get(t.Context(), obj.addr)
	require.NoError(t, err)
	assert.Equal(t, obj.data, got.data)
	assert.Equal(t, obj.SerializedSize(), s.UsedSpace().Current())
}

func testDeleteThenGet(t *testing.T, factory BackendFactory) {
	s := newStore(t, factory, 1<<20)
	obj := testChunk{addr: "beta", data: []byte("x")}
	require.NoError(t, s.Put(t.Context(), obj))

	require.NoError(t, s.Delete(t.Context(), obj.addr))

	_, err := s.Get(t.Context(), obj.addr)
	require.Error(t, err)

	has, err := s.Has(t.Context(), obj.addr)
	require.NoError(t, err)
	assert.False(t, has)
}

func testHasReflectsPresence(t *testing.T, factory BackendFactory) {
	s := newStore(t, factory, 1<<20)
	obj := testChunk{addr: "gamma", data: []byte("y")}

	has, err := s.Has(t.Context(), obj.addr)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.Put(t.Context(), obj))

	has, err = s.Has(t.Context(), obj.addr)
	require.NoError(t, err)
	assert.True(t, has)
}

func testPutEnforcesCapacity(t *testing.T, factory BackendFactory) {
	s := newStore(t, factory, 4)
	big := testChunk{addr: "delta", data: []byte("12345")}

	err := s.Put(t.Context(), big)
	require.Error(t, err)
	assert.Equal(t, uint64(0), s.UsedSpace().Current())
}

func testDeleteReleasesCapacity(t *testing.T, factory BackendFactory) {
	s := newStore(t, factory, 10)
	obj := testChunk{addr: "epsilon", data: []byte("12345")}
	require.NoError(t, s.Put(t.Context(), obj))
	assert.Equal(t, uint64(5), s.UsedSpace().Current())

	require.NoError(t, s.Delete(t.Context(), obj.addr))
	assert.Equal(t, uint64(0), s.UsedSpace().Current())

	// freed space is usable again
	require.NoError(t, s.Put(t.Context(), testChunk{addr: "zeta", data: []byte("67890")}))
}

func testRecoverRebuildsUsedSpace(t *testing.T, factory BackendFactory) {
	backend := factory(t)
	t.Cleanup(func() { _ = backend.Close() })

	fresh, err := chunkstore.New[testChunk](t.Context(), backend, testCodec{}, chunkstore.Config{
		MaxCapacity: 1 << 20,
		Mode:        chunkstore.Fresh,
	})
	require.NoError(t, err)
	require.NoError(t, fresh.Put(t.Context(), testChunk{addr: "eta", data: []byte("abcdef")}))

	recovered, err := chunkstore.New[testChunk](t.Context(), backend, testCodec{}, chunkstore.Config{
		MaxCapacity: 1 << 20,
		Mode:        chunkstore.Recover,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), recovered.UsedSpace().Current())
}

func testListIsComplete(t *testing.T, factory BackendFactory) {
	s := newStore(t, factory, 1<<20)
	want := map[string][]byte{
		"k1": []byte("a"),
		"k2": []byte("bb"),
		"k3": []byte("ccc"),
	}
	for addr, data := range want {
		require.NoError(t, s.Put(t.Context(), testChunk{addr: addr, data: data}))
	}

	keys, err := s.List(t.Context())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k1", "k2", "k3"}, keys)
}

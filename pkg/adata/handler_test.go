package adata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/adata/crdtop"
	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/fsstore"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	backend, err := fsstore.New(fsstore.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	h, err := NewHandler(t.Context(), backend, chunkstore.Config{MaxCapacity: 1 << 20, Mode: chunkstore.Fresh})
	require.NoError(t, err)
	return h
}

func newSeq(owner vaultid.PublicKey, scope vaultid.Scope) Sequence {
	perms := permission.NewPermissions()
	perms.AnyUser = permission.Set{permission.Read: true, permission.Append: true}
	return Sequence{
		Address:            vaultid.SDataAddress{Scope: scope, Name: vaultid.XorName{7}, Tag: 1},
		OwnersHistory:      []vaultid.PublicKey{owner},
		PermissionsHistory: []permission.Permissions{perms},
	}
}

func TestNewThenGet(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Unpublished)

	require.NoError(t, h.New(t.Context(), seq))

	got, err := h.Get(t.Context(), seq.Address, owner)
	require.NoError(t, err)
	require.Equal(t, owner, got.OwnersHistory[0])
}

func TestNewRejectsDuplicateAddress(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Unpublished)

	require.NoError(t, h.New(t.Context(), seq))
	require.Error(t, h.New(t.Context(), seq))
}

func TestEditAppendsEntry(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Unpublished)
	require.NoError(t, h.New(t.Context(), seq))

	dot := crdtop.Dot{Actor: owner, Counter: 1}
	require.NoError(t, h.Edit(t.Context(), seq.Address, crdtop.EntryOp{Dot: dot, Value: []byte("a")}, owner))

	idx, val, err := h.GetLastEntry(t.Context(), seq.Address, owner)
	require.NoError(t, err)
	require.Equal(t, uint64(0), idx)
	require.Equal(t, []byte("a"), val)
}

func TestEditIsIdempotentOnDuplicateDot(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Unpublished)
	require.NoError(t, h.New(t.Context(), seq))

	dot := crdtop.Dot{Actor: owner, Counter: 1}
	op := crdtop.EntryOp{Dot: dot, Value: []byte("a")}
	require.NoError(t, h.Edit(t.Context(), seq.Address, op, owner))
	require.NoError(t, h.Edit(t.Context(), seq.Address, op, owner))

	got, err := h.Get(t.Context(), seq.Address, owner)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1, "duplicate dot redelivery must not double-append")
}

func TestGetRangeOutOfBoundsIsNoSuchEntry(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Unpublished)
	require.NoError(t, h.New(t.Context(), seq))

	_, err := h.GetRange(t.Context(), seq.Address,
		Index{Kind: Absolute, Value: 0}, Index{Kind: Absolute, Value: 5}, owner)
	require.Error(t, err)
}

func TestGetRangeReturnsAppendedEntries(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Unpublished)
	require.NoError(t, h.New(t.Context(), seq))

	for i := uint64(0); i < 3; i++ {
		op := crdtop.EntryOp{Dot: crdtop.Dot{Actor: owner, Counter: i + 1}, Value: []byte{byte(i)}}
		require.NoError(t, h.Edit(t.Context(), seq.Address, op, owner))
	}

	entries, err := h.GetRange(t.Context(), seq.Address,
		Index{Kind: Absolute, Value: 0}, Index{Kind: Absolute, Value: 3}, owner)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestDeleteForbiddenOnPublishedSequence(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	seq := newSeq(owner, vaultid.Published)
	require.NoError(t, h.New(t.Context(), seq))

	err := h.Delete(t.Context(), seq.Address, owner)
	require.Error(t, err)
}

func TestDeleteRequiresLastOwnerOnPrivateSequence(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	stranger := vaultid.PublicKey{2}
	seq := newSeq(owner, vaultid.Unpublished)
	require.NoError(t, h.New(t.Context(), seq))

	require.Error(t, h.Delete(t.Context(), seq.Address, stranger))
	require.NoError(t, h.Delete(t.Context(), seq.Address, owner))
}

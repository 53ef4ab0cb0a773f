package idata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/chunkstore/fsstore"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

func newTestHolder(t *testing.T) *Holder {
	t.Helper()
	backend, err := fsstore.New(fsstore.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	h, err := NewHolder(t.Context(), backend, chunkstore.Config{MaxCapacity: 1 << 20, Mode: chunkstore.Fresh})
	require.NoError(t, err)
	return h
}

func TestStoreRejectsNonNodeRequester(t *testing.T) {
	h := newTestHolder(t)
	bytes := []byte("payload")
	blob := Blob{
		Address: vaultid.IDataAddress{Scope: vaultid.Published, Name: DigestName(bytes, vaultid.Published)},
		Bytes:   bytes,
	}
	client := vaultid.ClientID{Key: vaultid.PublicKey{1}}

	res := h.Store(t.Context(), blob, client, vaultid.XorName{}, vaultid.NewMessageID())
	require.Error(t, res.Err)
	require.True(t, errors.Is(res.Err, vaulterrors.AccessDenied()))
}

func TestStoreRejectsTamperedDigest(t *testing.T) {
	h := newTestHolder(t)
	bytes := []byte("payload")
	blob := Blob{
		Address: vaultid.IDataAddress{Scope: vaultid.Published, Name: vaultid.XorName{0xff}},
		Bytes:   bytes,
	}
	node := vaultid.NodeID{Name: vaultid.XorName{9}}

	res := h.Store(t.Context(), blob, node, vaultid.XorName{}, vaultid.NewMessageID())
	require.Error(t, res.Err)
	require.True(t, errors.Is(res.Err, vaulterrors.NetworkOther("")))
}

func TestStoreAcceptsCorrectDigestFromNode(t *testing.T) {
	h := newTestHolder(t)
	bytes := []byte("payload")
	blob := Blob{
		Address: vaultid.IDataAddress{Scope: vaultid.Published, Name: DigestName(bytes, vaultid.Published)},
		Bytes:   bytes,
	}
	node := vaultid.NodeID{Name: vaultid.XorName{9}}

	res := h.Store(t.Context(), blob, node, vaultid.XorName{}, vaultid.NewMessageID())
	require.NoError(t, res.Err)
}

func TestDeleteUnpubRejectsNonOwnerRequester(t *testing.T) {
	h := newTestHolder(t)
	bytes := []byte("payload")
	owner := vaultid.PublicKey{1}
	addr := vaultid.IDataAddress{Scope: vaultid.Unpublished, Name: vaultid.XorName{2}}
	blob := Blob{Address: addr, Bytes: bytes, Owner: owner}
	node := vaultid.NodeID{Name: vaultid.XorName{9}}

	res := h.Store(t.Context(), blob, node, vaultid.XorName{}, vaultid.NewMessageID())
	require.NoError(t, res.Err)

	impostor := vaultid.ClientID{Key: vaultid.PublicKey{3}}
	del := h.DeleteUnpub(t.Context(), addr, impostor, vaultid.XorName{}, vaultid.NewMessageID())
	require.Error(t, del.Err)
	require.True(t, errors.Is(del.Err, vaulterrors.InvalidOwners()))
}

func TestDeleteUnpubRejectsPublishedScope(t *testing.T) {
	h := newTestHolder(t)
	addr := vaultid.IDataAddress{Scope: vaultid.Published, Name: vaultid.XorName{2}}
	owner := vaultid.ClientID{Key: vaultid.PublicKey{1}}

	del := h.DeleteUnpub(t.Context(), addr, owner, vaultid.XorName{}, vaultid.NewMessageID())
	require.Error(t, del.Err)
	require.True(t, errors.Is(del.Err, vaulterrors.InvalidOperation()))
}

func TestDeleteUnpubAllowsMatchingOwner(t *testing.T) {
	h := newTestHolder(t)
	bytes := []byte("payload")
	owner := vaultid.PublicKey{1}
	addr := vaultid.IDataAddress{Scope: vaultid.Unpublished, Name: vaultid.XorName{2}}
	blob := Blob{Address: addr, Bytes: bytes, Owner: owner}
	node := vaultid.NodeID{Name: vaultid.XorName{9}}

	res := h.Store(t.Context(), blob, node, vaultid.XorName{}, vaultid.NewMessageID())
	require.NoError(t, res.Err)

	del := h.DeleteUnpub(t.Context(), addr, vaultid.ClientID{Key: owner}, vaultid.XorName{}, vaultid.NewMessageID())
	require.NoError(t, del.Err)
}

package mdata

import (
	"testing"

	"github.com/stretchr/testify/require"

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

func TestCreateThenGet(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}

	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner}, Permissions: permission.NewPermissions()}
	require.NoError(t, h.Create(t.Context(), m, owner))

	got, err := h.Get(t.Context(), addr, owner)
	require.NoError(t, err)
	require.Equal(t, owner, got.Owners[0])
}

func TestCreateRejectsDuplicateAddress(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}
	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner}, Permissions: permission.NewPermissions()}

	require.NoError(t, h.Create(t.Context(), m, owner))
	require.Error(t, h.Create(t.Context(), m, owner))
}

func TestReadDeniedWithoutPermission(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	stranger := vaultid.PublicKey{2}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}
	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner}, Permissions: permission.NewPermissions()}
	require.NoError(t, h.Create(t.Context(), m, owner))

	_, err := h.Get(t.Context(), addr, stranger)
	require.Error(t, err)
}

func TestMutateEntriesIsAllOrNothing(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}
	perms := permission.NewPermissions()
	perms.AnyUser = permission.Set{permission.Insert: true, permission.Update: true, permission.Read: true}
	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner}, Permissions: perms}
	require.NoError(t, h.Create(t.Context(), m, owner))

	actions := []EntryAction{
		{Kind: Insert, Key: "a", Value: []byte("1")},
		{Kind: Update, Key: "missing", Value: []byte("2"), ExpectedVersion: 1},
	}
	err := h.MutateEntries(t.Context(), addr, actions, owner)
	require.Error(t, err)

	entries, err := h.ListEntries(t.Context(), addr, owner)
	require.NoError(t, err)
	require.Empty(t, entries, "partial batch must not persist")
}

func TestUpdateRequiresExactSuccessorVersion(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}
	perms := permission.NewPermissions()
	perms.AnyUser = permission.Set{permission.Insert: true, permission.Update: true, permission.Read: true}
	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner}, Permissions: perms}
	require.NoError(t, h.Create(t.Context(), m, owner))

	require.NoError(t, h.MutateEntries(t.Context(), addr, []EntryAction{{Kind: Insert, Key: "a", Value: []byte("1")}}, owner))

	err := h.MutateEntries(t.Context(), addr, []EntryAction{{Kind: Update, Key: "a", Value: []byte("2"), ExpectedVersion: 5}}, owner)
	require.Error(t, err)

	require.NoError(t, h.MutateEntries(t.Context(), addr, []EntryAction{{Kind: Update, Key: "a", Value: []byte("2"), ExpectedVersion: 1}}, owner))

	v, err := h.GetValue(t.Context(), addr, "a", owner)
	require.NoError(t, err)
	require.Equal(t, []byte("2"), v.Value)
}

func TestDeleteRequiresSoleOwner(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	coOwner := vaultid.PublicKey{2}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}
	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner, coOwner}, Permissions: permission.NewPermissions()}
	require.NoError(t, h.Create(t.Context(), m, owner))

	require.Error(t, h.Delete(t.Context(), addr, owner))
}

func TestSetUserPermissionsRequiresVersionSuccession(t *testing.T) {
	h := newTestHandler(t)
	owner := vaultid.PublicKey{1}
	other := vaultid.PublicKey{2}
	addr := vaultid.MDataAddress{Name: vaultid.XorName{9}, Tag: 1}
	perms := permission.NewPermissions()
	perms.AnyUser = permission.Set{permission.ManagePermissions: true}
	m := Map{Address: addr, Owners: []vaultid.PublicKey{owner}, Permissions: perms}
	require.NoError(t, h.Create(t.Context(), m, owner))

	err := h.SetUserPermissions(t.Context(), addr, other, permission.Set{permission.Read: true}, 99, owner)
	require.Error(t, err)

	require.NoError(t, h.SetUserPermissions(t.Context(), addr, other, permission.Set{permission.Read: true}, 1, owner))
}

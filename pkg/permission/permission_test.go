package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lionel1704/sn-node/pkg/vaultid"
)

func key(b byte) vaultid.PublicKey {
	var k vaultid.PublicKey
	k[0] = b
	return k
}

func TestCheckExplicitGrant(t *testing.T) {
	perms := NewPermissions()
	alice := key(1)
	perms.SetUser(alice, Set{Read: true, Insert: true})

	assert.True(t, Check(perms, alice, Read))
	assert.True(t, Check(perms, alice, Insert))
	assert.False(t, Check(perms, alice, Delete))
}

func TestCheckAnyUserFallbackIsAdditive(t *testing.T) {
	perms := NewPermissions()
	bob := key(2)
	perms.AnyUser = Set{Read: true}

	assert.True(t, Check(perms, bob, Read), "AnyUser grants Read to anyone with no explicit entry")
	assert.False(t, Check(perms, bob, Insert))
}

func TestCheckAnyUserGrantsDespiteExplicitFalse(t *testing.T) {
	perms := NewPermissions()
	carol := key(3)
	perms.SetUser(carol, Set{Read: false, Insert: true})
	perms.AnyUser = Set{Read: true}

	// carol's explicit entry does not grant Read, but the union with
	// AnyUser still grants it — AnyUser never subtracts, only adds.
	assert.True(t, Check(perms, carol, Read))
	assert.True(t, Check(perms, carol, Insert))
}

func TestCloneIsIndependent(t *testing.T) {
	perms := NewPermissions()
	dave := key(4)
	perms.SetUser(dave, Set{Read: true})

	clone := perms.Clone()
	clone.ByUser[dave][Insert] = true

	assert.False(t, perms.ByUser[dave][Insert], "mutating the clone must not affect the original")
}

func TestOwnership(t *testing.T) {
	owners := []vaultid.PublicKey{key(1), key(2)}
	assert.True(t, IsOwner(owners, key(1)))
	assert.False(t, IsOwner(owners, key(9)))
	assert.False(t, IsSoleOwner(owners, key(1)))
	assert.True(t, IsSoleOwner([]vaultid.PublicKey{key(1)}, key(1)))
}

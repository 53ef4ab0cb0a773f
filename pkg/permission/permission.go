// Package permission implements the shared predicate layer used by the
// MData and AData/SData handlers: an explicit per-user action set unioned
// with an AnyUser fallback.
package permission

import "github.com/lionel1704/sn-node/pkg/vaultid"

// Action is a permission-gated operation on a mutable map or sequence.
type Action int

const (
	// Read grants the read family of operations (Get, ListEntries, ...).
	Read Action = iota
	// Insert grants adding new entries to a map.
	Insert
	// Update grants updating existing entries in a map.
	Update
	// Delete grants removing entries from a map.
	Delete
	// Append grants appending new operations to a sequence.
	Append
	// ManagePermissions grants changing the owner/permissions of an object.
	ManagePermissions
)

func (a Action) String() string {
	switch a {
	case Read:
		return "Read"
	case Insert:
		return "Insert"
	case Update:
		return "Update"
	case Delete:
		return "Delete"
	case Append:
		return "Append"
	case ManagePermissions:
		return "ManagePermissions"
	default:
		return "Unknown"
	}
}

// Set is the grant/deny state for one user: the set of actions explicitly
// granted, and whether that grant is allowed to be widened by an AnyUser
// fallback (it always is — AnyUser is purely additive, never restrictive,
// per SPEC_FULL.md §8a).
type Set map[Action]bool

// Grants reports whether s explicitly grants a.
func (s Set) Grants(a Action) bool {
	if s == nil {
		return false
	}
	return s[a]
}

// Permissions is the permission table attached to an MData or AData
// object: an explicit entry per user key, plus an AnyUser fallback entry
// applied to every requester regardless of identity.
type Permissions struct {
	ByUser  map[vaultid.PublicKey]Set
	AnyUser Set
}

// NewPermissions returns an empty permission table.
func NewPermissions() Permissions {
	return Permissions{ByUser: make(map[vaultid.PublicKey]Set)}
}

// Clone returns a deep copy, used whenever a handler must not let a caller
// mutate the stored permission table through an aliased map.
func (p Permissions) Clone() Permissions {
	out := Permissions{ByUser: make(map[vaultid.PublicKey]Set, len(p.ByUser))}
	for k, v := range p.ByUser {
		set := make(Set, len(v))
		for a, ok := range v {
			set[a] = ok
		}
		out.ByUser[k] = set
	}
	if p.AnyUser != nil {
		out.AnyUser = make(Set, len(p.AnyUser))
		for a, ok := range p.AnyUser {
			out.AnyUser[a] = ok
		}
	}
	return out
}

// SetUser replaces the explicit permission set for key.
func (p Permissions) SetUser(key vaultid.PublicKey, set Set) {
	p.ByUser[key] = set
}

// DelUser removes the explicit permission set for key. The user may still
// be granted actions through the AnyUser fallback.
func (p Permissions) DelUser(key vaultid.PublicKey) {
	delete(p.ByUser, key)
}

// Check grants requester if either the requester's explicit entry or the
// AnyUser fallback grants the action. Per §4.5's "union" wording, this is
// the union of both sets — an explicit grant and a fallback grant compose,
// but an explicit table with no entry for this user still falls back to
// AnyUser rather than denying outright.
func Check(perms Permissions, requester vaultid.PublicKey, action Action) bool {
	if perms.AnyUser.Grants(action) {
		return true
	}
	return perms.ByUser[requester].Grants(action)
}

// IsOwner reports whether key is present in owners.
func IsOwner(owners []vaultid.PublicKey, key vaultid.PublicKey) bool {
	for _, o := range owners {
		if o == key {
			return true
		}
	}
	return false
}

// IsSoleOwner reports whether owners contains exactly key.
func IsSoleOwner(owners []vaultid.PublicKey, key vaultid.PublicKey) bool {
	return len(owners) == 1 && owners[0] == key
}

// Package vaultid defines the identifier and address types shared across
// the data-handling core: XOR-space names, per-kind data addresses, and
// the correlation ids used to track in-flight operations.
package vaultid

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// XorNameLen is the width, in bytes, of an XOR-space name.
const XorNameLen = 32

// XorName identifies a location in XOR address space: a chunk's content
// address, a mutable object's name, or a peer's routing identity.
type XorName [XorNameLen]byte

// String renders the name as hex for logging.
func (n XorName) String() string {
	return hex.EncodeToString(n[:])
}

// Closer reports whether n is closer to target than other is, under
// XOR distance, comparing byte by byte from the most significant.
func (n XorName) Closer(target, other XorName) bool {
	for i := 0; i < XorNameLen; i++ {
		da := n[i] ^ target[i]
		db := other[i] ^ target[i]
		if da != db {
			return da < db
		}
	}
	return false
}

// Scope distinguishes published (network-readable, content-deduplicated)
// data from unpublished (owner-restricted) data. It participates in an
// address's identity: the same name published and unpublished are distinct
// objects.
type Scope int

const (
	// Published data is readable by anyone and immutable once stored;
	// identical content always resolves to the same address.
	Published Scope = iota
	// Unpublished data is restricted to its owner(s) and may be deleted.
	Unpublished
)

func (s Scope) String() string {
	if s == Unpublished {
		return "Unpublished"
	}
	return "Published"
}

// IDataAddress identifies an immutable chunk. For Published scope, Name is
// the content hash; for Unpublished scope, Name is chosen by the client
// and has no content relationship.
type IDataAddress struct {
	Scope Scope
	Name  XorName
}

func (a IDataAddress) String() string {
	return fmt.Sprintf("idata:%s:%s", a.Scope, a.Name)
}

// MDataAddress identifies a versioned mutable key/value map.
type MDataAddress struct {
	Name XorName
	Tag  uint64
}

func (a MDataAddress) String() string {
	return fmt.Sprintf("mdata:%s:%d", a.Name, a.Tag)
}

// SDataAddress identifies an append-only CRDT sequence (AData/SData).
type SDataAddress struct {
	Scope Scope
	Name  XorName
	Tag   uint64
}

func (a SDataAddress) String() string {
	return fmt.Sprintf("sdata:%s:%s:%d", a.Scope, a.Name, a.Tag)
}

// MessageID correlates a request to its eventual response, and tags the
// in-flight IDataOp tracked for multi-holder aggregation.
type MessageID uuid.UUID

// NewMessageID generates a fresh, randomly-sourced message id.
func NewMessageID() MessageID {
	return MessageID(uuid.New())
}

func (m MessageID) String() string {
	return uuid.UUID(m).String()
}

// PublicKey is an opaque verifying key for a client or peer identity.
// Signature verification itself lives outside this module's scope; data
// handlers only compare keys for equality and membership in owner/permission
// sets.
type PublicKey [32]byte

func (k PublicKey) String() string {
	return hex.EncodeToString(k[:])
}

// PublicID is a sealed tagged union over the kinds of requester this
// module distinguishes: an end-client or an authorized application acting
// on a client's behalf (both subject to permission checks), or a peer node
// acting on the network's behalf (used for holder-to-holder and
// elder-to-elder traffic, which bypasses the client permission model).
type PublicID interface {
	isPublicID()
}

// ClientID is the identity of an end-client request originator.
type ClientID struct {
	Key PublicKey
}

func (ClientID) isPublicID() {}

func (c ClientID) String() string { return fmt.Sprintf("client:%s", c.Key) }

// AppID is the identity of an application acting with delegated
// permissions on a client's behalf.
type AppID struct {
	Key PublicKey
}

func (AppID) isPublicID() {}

func (a AppID) String() string { return fmt.Sprintf("app:%s", a.Key) }

// NodeID is the identity of a peer vault node acting as requester, e.g. an
// Elder relaying a client's request to an Adult holder.
type NodeID struct {
	Name XorName
}

func (NodeID) isPublicID() {}

func (n NodeID) String() string { return fmt.Sprintf("node:%s", n.Name) }

// RequesterKey extracts the comparable permission-check key for a
// requester, or the zero key and false if the requester is a node (nodes
// are not subject to owner/permission checks).
func RequesterKey(id PublicID) (PublicKey, bool) {
	switch v := id.(type) {
	case ClientID:
		return v.Key, true
	case AppID:
		return v.Key, true
	default:
		return PublicKey{}, false
	}
}

// IsNode reports whether id identifies a peer node rather than a client
// or app, used by the dispatcher's requester-kind routing (§4.7).
func IsNode(id PublicID) bool {
	_, ok := id.(NodeID)
	return ok
}

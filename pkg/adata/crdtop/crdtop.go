// Package crdtop defines the append-only sequence's CRDT operation
// envelope: every mutation carries a Dot identifying the actor and their
// local operation count, so a duplicate redelivery from routing applies
// as a safe no-op instead of a double-append (§4.6, §9).
package crdtop

import (
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Dot identifies one CRDT operation: an actor plus that actor's
// monotonically increasing local operation counter. Two ops with the same
// Dot are the same op, however many times it is delivered.
type Dot struct {
	Actor   vaultid.PublicKey
	Counter uint64
}

// EntryOp appends one value to the sequence's entry log.
type EntryOp struct {
	Dot   Dot
	Value []byte
}

// OwnerOp appends one entry to the sequence's owner history.
type OwnerOp struct {
	Dot   Dot
	Owner vaultid.PublicKey
}

// PermissionOp appends one entry to the sequence's permission history.
type PermissionOp struct {
	Dot         Dot
	Permissions permission.Permissions
}

// Log tracks which Dots have already been applied to a given sequence, the
// idempotency guard required by §4.6 so CRDT ops are "applied without
// coordination": it is a structure-level observed-remove guard, not a full
// OR-Set, since this Elder is the sole authoritative holder of the log.
type Log struct {
	seen map[Dot]bool
}

// NewLog returns an empty application log.
func NewLog() *Log {
	return &Log{seen: make(map[Dot]bool)}
}

// NewLogFrom rehydrates a log from an already-persisted applied-dot set,
// e.g. after decoding a Sequence back out of the chunk store.
func NewLogFrom(seen map[Dot]bool) *Log {
	if seen == nil {
		seen = make(map[Dot]bool)
	}
	return &Log{seen: seen}
}

// Dots returns the underlying applied-dot set, for persisting back
// alongside the object the log guards.
func (l *Log) Dots() map[Dot]bool { return l.seen }

// Apply records dot and reports whether it was new. A previously-seen dot
// returns false without effect, letting the caller skip re-applying it.
func (l *Log) Apply(dot Dot) bool {
	if l.seen[dot] {
		return false
	}
	l.seen[dot] = true
	return true
}

// Seen reports whether dot has already been applied.
func (l *Log) Seen(dot Dot) bool {
	return l.seen[dot]
}

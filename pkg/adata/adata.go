// Package adata implements the append-only sequence object kind (AData in
// the wire vocabulary, SData in the source this was distilled from): a
// CRDT log of entries plus append-only owner and permission histories,
// held authoritatively at the Elder that stores it (§4.6).
package adata

import (
	"github.com/lionel1704/sn-node/pkg/adata/crdtop"
	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Sequence is an append-only CRDT log. Entries, OwnersHistory and
// PermissionsHistory are all dense and contiguous: their lengths are their
// own current index (invariant 3, §3).
type Sequence struct {
	Address            vaultid.SDataAddress
	Entries            [][]byte
	OwnersHistory      []vaultid.PublicKey
	PermissionsHistory []permission.Permissions
	// AppliedDots guards against re-applying a CRDT op delivered twice by
	// routing (§4.6, §9): it is persisted alongside the sequence so the
	// guard survives a restart, not just an in-memory process lifetime.
	AppliedDots map[crdtop.Dot]bool
}

// EntriesIndex is the current length of the entry log.
func (s Sequence) EntriesIndex() uint64 { return uint64(len(s.Entries)) }

// OwnersIndex is the current length of the owner history.
func (s Sequence) OwnersIndex() uint64 { return uint64(len(s.OwnersHistory)) }

// PermissionsIndex is the current length of the permission history.
func (s Sequence) PermissionsIndex() uint64 { return uint64(len(s.PermissionsHistory)) }

// IndexKind distinguishes an absolute index from one counted back from the
// current end of a history (§4.6's "indices may be absolute or
// relative-to-end").
type IndexKind int

const (
	// Absolute addresses a history slot directly: Index{Absolute, 0} is
	// the first entry ever appended.
	Absolute IndexKind = iota
	// FromEnd addresses a history slot by distance from the end:
	// Index{FromEnd, 0} is the most recently appended entry,
	// Index{FromEnd, 1} the one before it, and so on.
	FromEnd
)

// Index selects a position in one of a Sequence's three histories.
type Index struct {
	Kind  IndexKind
	Value uint64
}

// resolve maps idx onto an absolute position in a history of the given
// length, returning false if it falls outside [0, length).
func resolve(idx Index, length uint64) (uint64, bool) {
	switch idx.Kind {
	case Absolute:
		if idx.Value >= length {
			return 0, false
		}
		return idx.Value, true
	case FromEnd:
		if idx.Value >= length {
			return 0, false
		}
		return length - 1 - idx.Value, true
	default:
		return 0, false
	}
}

// currentOwner returns the owner in effect at the sequence's most recent
// owner-history entry, and false if none has ever been set.
func (s Sequence) currentOwner() (vaultid.PublicKey, bool) {
	if len(s.OwnersHistory) == 0 {
		return vaultid.PublicKey{}, false
	}
	return s.OwnersHistory[len(s.OwnersHistory)-1], true
}

// currentPermissions returns the permission table in effect at the
// sequence's most recent permission-history entry.
func (s Sequence) currentPermissions() permission.Permissions {
	if len(s.PermissionsHistory) == 0 {
		return permission.NewPermissions()
	}
	return s.PermissionsHistory[len(s.PermissionsHistory)-1]
}

// applied reports whether dot has already been applied to s, via a
// crdtop.Log rehydrated from the persisted guard set.
func (s Sequence) applied(dot crdtop.Dot) bool {
	return crdtop.NewLogFrom(s.AppliedDots).Seen(dot)
}

// markApplied records dot as applied. It round-trips through a crdtop.Log
// so the in-memory guard and the persisted AppliedDots set never diverge.
func (s *Sequence) markApplied(dot crdtop.Dot) {
	log := crdtop.NewLogFrom(s.AppliedDots)
	log.Apply(dot)
	s.AppliedDots = log.Dots()
}

var _ chunkstore.Chunk = sequenceChunk{}

type sequenceChunk struct{ Sequence }

func (s sequenceChunk) Address() string { return s.Sequence.Address.String() }

// SerializedSize approximates the on-disk footprint; exact accounting
// happens at Codec.Encode/len(data).
func (s sequenceChunk) SerializedSize() uint64 {
	var n uint64
	for _, e := range s.Entries {
		n += uint64(len(e))
	}
	n += uint64(len(s.OwnersHistory)) * 32
	n += uint64(len(s.PermissionsHistory)) * 64
	return n
}

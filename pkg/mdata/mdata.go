// Package mdata implements the mutable-map object kind: a versioned
// key/value store with per-entry version numbers and an owner/permission
// model, held authoritatively at the Elder that stores it (§4.5).
package mdata

import (
	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Entry is one versioned value in a Map.
type Entry struct {
	Value   []byte
	Version uint64
}

// Map is a mutable, versioned key/value object. Version is the map-level
// counter bumped by every permission mutation (§4.5); entries carry their
// own independent per-key version.
type Map struct {
	Address     vaultid.MDataAddress
	Owners      []vaultid.PublicKey
	Permissions permission.Permissions
	Version     uint64
	Entries     map[string]Entry
}

// Shell is a Map's metadata without its entries, returned by GetShell.
type Shell struct {
	Address vaultid.MDataAddress
	Owners  []vaultid.PublicKey
	Version uint64
}

func (m Map) shell() Shell {
	return Shell{Address: m.Address, Owners: append([]vaultid.PublicKey{}, m.Owners...), Version: m.Version}
}

var _ chunkstore.Chunk = mapChunk{}

// mapChunk adapts Map to chunkstore.Chunk.
type mapChunk struct{ Map }

func (m mapChunk) Address() string { return m.Map.Address.String() }

// SerializedSize approximates the on-disk footprint without requiring a
// full encode: owners plus per-entry key/value bytes. Exact accounting
// happens in Codec.Encode/len(data); this is only a pre-estimate used by
// callers that need a size before encoding.
func (m mapChunk) SerializedSize() uint64 {
	var n uint64 = uint64(len(m.Owners)) * 32
	for k, e := range m.Entries {
		n += uint64(len(k)) + uint64(len(e.Value)) + 16
	}
	return n
}

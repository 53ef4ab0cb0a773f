// Package idata implements the immutable-data object kind: the holder-side
// store (Adult role) and the coordinator state tracked at an Elder for a
// multi-holder operation (§4.2-§4.4).
package idata

import (
	"crypto/sha256"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Blob is an immutable chunk. For Published scope, Name is the content
// digest of (Bytes, Scope); for Unpublished scope, Name is chosen by the
// client and Owner records who may delete it.
type Blob struct {
	Address vaultid.IDataAddress
	Bytes   []byte
	// Owner is set only for Unpublished blobs; the zero value otherwise.
	Owner vaultid.PublicKey
}

// DigestName computes the network-defined digest of (bytes, scope), the
// value a Published blob's address.Name must equal (invariant 1, §3).
func DigestName(bytes []byte, scope vaultid.Scope) vaultid.XorName {
	h := sha256.New()
	h.Write(bytes)
	h.Write([]byte{byte(scope)})
	var name vaultid.XorName
	copy(name[:], h.Sum(nil))
	return name
}

var _ chunkstore.Chunk = blobChunk{}

// blobChunk adapts Blob to chunkstore.Chunk's method set (Address()
// string instead of a richer domain address), keeping Blob itself free of
// the chunk-store's naming requirements.
type blobChunk struct{ Blob }

func (b blobChunk) Address() string { return b.Blob.Address.String() }

// SerializedSize returns the on-disk footprint used for used_space
// accounting before encoding: header plus raw bytes (the codec's framing
// overhead, a few dozen bytes, is not worth tracking separately).
func (b blobChunk) SerializedSize() uint64 {
	return uint64(1+vaultid.XorNameLen+32) + uint64(len(b.Bytes))
}

// BlobCodec implements chunkstore.Codec for blobChunk, storing the raw
// bytes plus enough framing to round-trip scope and owner.
type BlobCodec struct{}

// wireBlob is the on-disk encoding: a fixed header followed by raw bytes.
// Kept deliberately simple (fixed-width fields, no length prefixes) rather than reaching
// for a general serialization library, since the payload is already
// opaque bytes and the header is three fixed-width fields.
type wireBlob struct {
	scope vaultid.Scope
	name  vaultid.XorName
	owner vaultid.PublicKey
	bytes []byte
}

func (BlobCodec) Encode(obj blobChunk) ([]byte, error) {
	out := make([]byte, 0, 1+vaultid.XorNameLen+32+len(obj.Bytes))
	out = append(out, byte(obj.Address.Scope))
	out = append(out, obj.Address.Name[:]...)
	out = append(out, obj.Owner[:]...)
	out = append(out, obj.Bytes...)
	return out, nil
}

func (BlobCodec) Decode(data []byte) (blobChunk, error) {
	const headerLen = 1 + vaultid.XorNameLen + 32
	if len(data) < headerLen {
		return blobChunk{}, errShortBlob
	}
	var b Blob
	b.Address.Scope = vaultid.Scope(data[0])
	copy(b.Address.Name[:], data[1:1+vaultid.XorNameLen])
	copy(b.Owner[:], data[1+vaultid.XorNameLen:headerLen])
	b.Bytes = append([]byte{}, data[headerLen:]...)
	return blobChunk{b}, nil
}

type blobError string

func (e blobError) Error() string { return string(e) }

const errShortBlob = blobError("idata: truncated blob record")

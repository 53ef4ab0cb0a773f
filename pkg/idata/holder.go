package idata

import (
	"context"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Holder is the Adult-role store of immutable blob replicas: it serves
// Put/Get/DeleteUnpub on behalf of this node acting as a holder for a
// chunk (§4.2). Every node instantiates one, elder or not.
type Holder struct {
	store *chunkstore.Store[blobChunk]
}

// NewHolder wraps a chunk store backend as an IData holder.
func NewHolder(ctx context.Context, backend chunkstore.Backend, cfg chunkstore.Config) (*Holder, error) {
	s, err := chunkstore.New[blobChunk](ctx, backend, BlobCodec{}, cfg)
	if err != nil {
		return nil, err
	}
	return &Holder{store: s}, nil
}

// UsedSpace returns the holder's capacity accounting, for reporting and
// recovery tooling.
func (h *Holder) UsedSpace() *chunkstore.UsedSpace { return h.store.UsedSpace() }

// StoreResult is the outcome of a holder operation, correlated back to the
// in-flight IDataOp at the coordinating Elder via MessageID.
type StoreResult struct {
	MessageID vaultid.MessageID
	Source    vaultid.XorName
	Err       error
}

// Store verifies the requester is a peer node, verifies the blob's
// content digest for Published scope, and persists it (§4.2). requester
// must be vaultid.NodeID: a client is never allowed to write directly to
// a holder, only via the coordinating Elder.
func (h *Holder) Store(ctx context.Context, blob Blob, requester vaultid.PublicID, src vaultid.XorName, msgID vaultid.MessageID) StoreResult {
	if !vaultid.IsNode(requester) {
		return StoreResult{MessageID: msgID, Source: src, Err: vaulterrors.AccessDenied()}
	}

	if blob.Address.Scope == vaultid.Published {
		want := DigestName(blob.Bytes, blob.Address.Scope)
		if want != blob.Address.Name {
			return StoreResult{MessageID: msgID, Source: src, Err: vaulterrors.NetworkOther("content digest mismatch")}
		}
	}

	err := h.store.Put(ctx, blobChunk{blob})
	return StoreResult{MessageID: msgID, Source: src, Err: err}
}

// GetResult is the outcome of a holder Get, carrying the blob on success.
type GetResult struct {
	MessageID vaultid.MessageID
	Source    vaultid.XorName
	Blob      Blob
	Err       error
}

// Get returns the blob at addr, or NoSuchData.
func (h *Holder) Get(ctx context.Context, addr vaultid.IDataAddress, src vaultid.XorName, msgID vaultid.MessageID) GetResult {
	chunk, err := h.store.Get(ctx, addr.String())
	if err != nil {
		return GetResult{MessageID: msgID, Source: src, Err: err}
	}
	return GetResult{MessageID: msgID, Source: src, Blob: chunk.Blob}
}

// DeleteUnpub deletes an unpublished blob, allowed only if addr.Scope is
// Unpublished and requester matches the stored owner (§4.2).
func (h *Holder) DeleteUnpub(ctx context.Context, addr vaultid.IDataAddress, requester vaultid.PublicID, src vaultid.XorName, msgID vaultid.MessageID) StoreResult {
	if addr.Scope != vaultid.Unpublished {
		return StoreResult{MessageID: msgID, Source: src, Err: vaulterrors.InvalidOperation()}
	}

	chunk, err := h.store.Get(ctx, addr.String())
	if err != nil {
		return StoreResult{MessageID: msgID, Source: src, Err: err}
	}

	key, ok := vaultid.RequesterKey(requester)
	if !ok || key != chunk.Owner {
		return StoreResult{MessageID: msgID, Source: src, Err: vaulterrors.InvalidOwners()}
	}

	err = h.store.Delete(ctx, addr.String())
	return StoreResult{MessageID: msgID, Source: src, Err: err}
}

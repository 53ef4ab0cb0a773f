package adata

import (
	"context"
	"sync"

	"github.com/lionel1704/sn-node/pkg/adata/crdtop"
	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Handler is the Elder-role authoritative store for append-only sequences
// (§4.6). Every write is load → check_permission(action) → apply_crdt_op →
// store, with the load/store pair as the serialization point (§5).
type Handler struct {
	mu    sync.Mutex
	store *chunkstore.Store[sequenceChunk]
}

// NewHandler wraps a chunk store backend as an AData handler.
func NewHandler(ctx context.Context, backend chunkstore.Backend, cfg chunkstore.Config) (*Handler, error) {
	s, err := chunkstore.New[sequenceChunk](ctx, backend, SequenceCodec{}, cfg)
	if err != nil {
		return nil, err
	}
	return &Handler{store: s}, nil
}

// UsedSpace returns the handler's capacity accounting, for reporting and
// recovery tooling.
func (h *Handler) UsedSpace() *chunkstore.UsedSpace { return h.store.UsedSpace() }

// New stores seq, failing with DataExists if one is already stored at the
// same address.
func (h *Handler) New(ctx context.Context, seq Sequence) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	exists, err := h.store.Has(ctx, seq.Address.String())
	if err != nil {
		return err
	}
	if exists {
		return vaulterrors.DataExists()
	}
	return h.store.Put(ctx, sequenceChunk{seq})
}

func (h *Handler) loadChecked(ctx context.Context, addr vaultid.SDataAddress, requester vaultid.PublicKey, action permission.Action) (Sequence, error) {
	chunk, err := h.store.Get(ctx, addr.String())
	if err != nil {
		return Sequence{}, err
	}
	seq := chunk.Sequence
	if owner, ok := seq.currentOwner(); ok && owner == requester {
		return seq, nil
	}
	if !permission.Check(seq.currentPermissions(), requester, action) {
		return Sequence{}, vaulterrors.AccessDenied()
	}
	return seq, nil
}

// Get returns the full sequence.
func (h *Handler) Get(ctx context.Context, addr vaultid.SDataAddress, requester vaultid.PublicKey) (Sequence, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loadChecked(ctx, addr, requester, permission.Read)
}

// GetRange returns entries in [from, to), failing with NoSuchEntry if the
// resolved range is empty or out of bounds.
func (h *Handler) GetRange(ctx context.Context, addr vaultid.SDataAddress, from, to Index, requester vaultid.PublicKey) ([][]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.Read)
	if err != nil {
		return nil, err
	}
	length := seq.EntriesIndex()
	start, ok := resolve(from, length+1)
	if !ok {
		return nil, vaulterrors.NoSuchEntry()
	}
	end, ok := resolve(to, length+1)
	if !ok || end < start {
		return nil, vaulterrors.NoSuchEntry()
	}
	if start == end {
		return nil, vaulterrors.NoSuchEntry()
	}
	return seq.Entries[start:end], nil
}

// GetLastEntry returns the most recently appended entry and its index.
func (h *Handler) GetLastEntry(ctx context.Context, addr vaultid.SDataAddress, requester vaultid.PublicKey) (uint64, []byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.Read)
	if err != nil {
		return 0, nil, err
	}
	if len(seq.Entries) == 0 {
		return 0, nil, vaulterrors.NoSuchEntry()
	}
	idx := seq.EntriesIndex() - 1
	return idx, seq.Entries[idx], nil
}

// GetOwner returns the owner recorded at index in the owner history.
func (h *Handler) GetOwner(ctx context.Context, addr vaultid.SDataAddress, index Index, requester vaultid.PublicKey) (vaultid.PublicKey, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.Read)
	if err != nil {
		return vaultid.PublicKey{}, err
	}
	i, ok := resolve(index, seq.OwnersIndex())
	if !ok {
		return vaultid.PublicKey{}, vaulterrors.InvalidOwners()
	}
	return seq.OwnersHistory[i], nil
}

// GetPermissions returns the permission table recorded at index.
func (h *Handler) GetPermissions(ctx context.Context, addr vaultid.SDataAddress, index Index, requester vaultid.PublicKey) (permission.Permissions, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.Read)
	if err != nil {
		return permission.Permissions{}, err
	}
	i, ok := resolve(index, seq.PermissionsIndex())
	if !ok {
		return permission.Permissions{}, vaulterrors.NoSuchEntry()
	}
	return seq.PermissionsHistory[i].Clone(), nil
}

// GetUserPermissions returns one user's effective permission set at index.
func (h *Handler) GetUserPermissions(ctx context.Context, addr vaultid.SDataAddress, user vaultid.PublicKey, index Index, requester vaultid.PublicKey) (permission.Set, error) {
	perms, err := h.GetPermissions(ctx, addr, index, requester)
	if err != nil {
		return nil, err
	}
	effective := make(permission.Set)
	for a, ok := range perms.AnyUser {
		if ok {
			effective[a] = true
		}
	}
	for a, ok := range perms.ByUser[user] {
		if ok {
			effective[a] = true
		}
	}
	return effective, nil
}

// Edit appends op's value to the entry log, requiring Append permission.
// Re-delivery of an already-applied Dot is a safe no-op (§4.6, §9).
func (h *Handler) Edit(ctx context.Context, addr vaultid.SDataAddress, op crdtop.EntryOp, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.Append)
	if err != nil {
		return err
	}
	if seq.applied(op.Dot) {
		return nil
	}
	seq.Entries = append(seq.Entries, op.Value)
	seq.markApplied(op.Dot)
	return h.store.Put(ctx, sequenceChunk{seq})
}

// SetOwner appends op's owner to the owner history, requiring
// ManagePermissions.
func (h *Handler) SetOwner(ctx context.Context, addr vaultid.SDataAddress, op crdtop.OwnerOp, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.ManagePermissions)
	if err != nil {
		return err
	}
	if seq.applied(op.Dot) {
		return nil
	}
	seq.OwnersHistory = append(seq.OwnersHistory, op.Owner)
	seq.markApplied(op.Dot)
	return h.store.Put(ctx, sequenceChunk{seq})
}

// setPermissions is shared by SetPubPermissions/SetPrivPermissions: both
// append to the same permission history, the scope distinction living only
// in the address (§4a's documented simplification of the source's
// separate SDataPubPermissions/SDataPrivPermissions types).
func (h *Handler) setPermissions(ctx context.Context, addr vaultid.SDataAddress, op crdtop.PermissionOp, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	seq, err := h.loadChecked(ctx, addr, requester, permission.ManagePermissions)
	if err != nil {
		return err
	}
	if seq.applied(op.Dot) {
		return nil
	}
	seq.PermissionsHistory = append(seq.PermissionsHistory, op.Permissions)
	seq.markApplied(op.Dot)
	return h.store.Put(ctx, sequenceChunk{seq})
}

// SetPubPermissions appends to a public sequence's permission history.
func (h *Handler) SetPubPermissions(ctx context.Context, addr vaultid.SDataAddress, op crdtop.PermissionOp, requester vaultid.PublicKey) error {
	return h.setPermissions(ctx, addr, op, requester)
}

// SetPrivPermissions appends to a private sequence's permission history.
func (h *Handler) SetPrivPermissions(ctx context.Context, addr vaultid.SDataAddress, op crdtop.PermissionOp, requester vaultid.PublicKey) error {
	return h.setPermissions(ctx, addr, op, requester)
}

// Delete removes the sequence entirely. Forbidden on public sequences;
// requires requester to be the current last owner on private ones.
func (h *Handler) Delete(ctx context.Context, addr vaultid.SDataAddress, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if addr.Scope == vaultid.Published {
		return vaulterrors.InvalidOperation()
	}

	chunk, err := h.store.Get(ctx, addr.String())
	if err != nil {
		return err
	}
	owner, ok := chunk.currentOwner()
	if !ok || owner != requester {
		return vaulterrors.InvalidOwners()
	}
	return h.store.Delete(ctx, addr.String())
}

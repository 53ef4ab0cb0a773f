package mdata

import (
	"context"
	"sync"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
	"github.com/lionel1704/sn-node/pkg/permission"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
	"github.com/lionel1704/sn-node/pkg/vaultid"
)

// Handler is the Elder-role authoritative store for mutable maps (§4.5):
// unlike IData, there is no replica-coordination fold here — the Elder
// that stores a Map is its sole source of truth, so every operation is a
// synchronous load-check-mutate-store against the chunk store.
type Handler struct {
	mu    sync.Mutex
	store *chunkstore.Store[mapChunk]
}

// NewHandler wraps a chunk store backend as an MData handler.
func NewHandler(ctx context.Context, backend chunkstore.Backend, cfg chunkstore.Config) (*Handler, error) {
	s, err := chunkstore.New[mapChunk](ctx, backend, MapCodec{}, cfg)
	if err != nil {
		return nil, err
	}
	return &Handler{store: s}, nil
}

// UsedSpace returns the handler's capacity accounting, for reporting and
// recovery tooling.
func (h *Handler) UsedSpace() *chunkstore.UsedSpace { return h.store.UsedSpace() }

// Create stores a new, empty-or-populated Map, failing with DataExists if
// one is already stored at the same address, and AccessDenied if
// requester does not match one of m.Owners.
func (h *Handler) Create(ctx context.Context, m Map, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !permission.IsOwner(m.Owners, requester) {
		return vaulterrors.AccessDenied()
	}

	exists, err := h.store.Has(ctx, m.Address.String())
	if err != nil {
		return err
	}
	if exists {
		return vaulterrors.DataExists()
	}
	if m.Entries == nil {
		m.Entries = make(map[string]Entry)
	}
	return h.store.Put(ctx, mapChunk{m})
}

func (h *Handler) load(ctx context.Context, addr vaultid.MDataAddress) (Map, error) {
	chunk, err := h.store.Get(ctx, addr.String())
	if err != nil {
		return Map{}, err
	}
	return chunk.Map, nil
}

// checkAction grants owners every action unconditionally (mirroring the
// source's owner-always-permitted check ahead of the ACL lookup) and
// otherwise defers to the permission table.
func checkAction(m Map, requester vaultid.PublicKey, action permission.Action) error {
	if permission.IsOwner(m.Owners, requester) {
		return nil
	}
	if !permission.Check(m.Permissions, requester, action) {
		return vaulterrors.AccessDenied()
	}
	return nil
}

func (h *Handler) checkRead(m Map, requester vaultid.PublicKey) error {
	return checkAction(m, requester, permission.Read)
}

// Get returns the full map, entries included.
func (h *Handler) Get(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) (Map, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return Map{}, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return Map{}, err
	}
	return m, nil
}

// GetShell returns the map's metadata without its entries.
func (h *Handler) GetShell(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) (Shell, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return Shell{}, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return Shell{}, err
	}
	return m.shell(), nil
}

// GetVersion returns the map's version counter.
func (h *Handler) GetVersion(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return 0, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return 0, err
	}
	return m.Version, nil
}

// GetValue returns one entry's value.
func (h *Handler) GetValue(ctx context.Context, addr vaultid.MDataAddress, key string, requester vaultid.PublicKey) (Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return Entry{}, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return Entry{}, err
	}
	e, ok := m.Entries[key]
	if !ok {
		return Entry{}, vaulterrors.NoSuchEntry()
	}
	return e, nil
}

// ListEntries returns every key/value entry.
func (h *Handler) ListEntries(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) (map[string]Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return nil, err
	}
	out := make(map[string]Entry, len(m.Entries))
	for k, v := range m.Entries {
		out[k] = v
	}
	return out, nil
}

// ListKeys returns every entry key.
func (h *Handler) ListKeys(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) ([]string, error) {
	entries, err := h.ListEntries(ctx, addr, requester)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	return keys, nil
}

// ListValues returns every entry value, keys discarded.
func (h *Handler) ListValues(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) ([][]byte, error) {
	entries, err := h.ListEntries(ctx, addr, requester)
	if err != nil {
		return nil, err
	}
	values := make([][]byte, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Value)
	}
	return values, nil
}

// ListPermissions returns the map's full permission table.
func (h *Handler) ListPermissions(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) (permission.Permissions, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return permission.Permissions{}, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return permission.Permissions{}, err
	}
	return m.Permissions.Clone(), nil
}

// ListUserPermissions returns the effective permission set for one user:
// their explicit entry unioned with AnyUser (§4.5).
func (h *Handler) ListUserPermissions(ctx context.Context, addr vaultid.MDataAddress, user vaultid.PublicKey, requester vaultid.PublicKey) (permission.Set, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := h.checkRead(m, requester); err != nil {
		return nil, err
	}
	effective := make(permission.Set)
	for a, ok := range m.Permissions.AnyUser {
		if ok {
			effective[a] = true
		}
	}
	for a, ok := range m.Permissions.ByUser[user] {
		if ok {
			effective[a] = true
		}
	}
	return effective, nil
}

// SetUserPermissions replaces user's explicit permission set, requiring
// ManagePermissions and strict version succession: expectedVersion must
// equal the stored version plus one.
func (h *Handler) SetUserPermissions(ctx context.Context, addr vaultid.MDataAddress, user vaultid.PublicKey, set permission.Set, expectedVersion uint64, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return err
	}
	if err := checkAction(m, requester, permission.ManagePermissions); err != nil {
		return err
	}
	if expectedVersion != m.Version+1 {
		return vaulterrors.InvalidSuccessor(m.Version)
	}

	m.Permissions.SetUser(user, set)
	m.Version = expectedVersion
	return h.store.Put(ctx, mapChunk{m})
}

// DelUserPermissions removes user's explicit permission entry.
func (h *Handler) DelUserPermissions(ctx context.Context, addr vaultid.MDataAddress, user vaultid.PublicKey, expectedVersion uint64, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return err
	}
	if err := checkAction(m, requester, permission.ManagePermissions); err != nil {
		return err
	}
	if expectedVersion != m.Version+1 {
		return vaulterrors.InvalidSuccessor(m.Version)
	}

	m.Permissions.DelUser(user)
	m.Version = expectedVersion
	return h.store.Put(ctx, mapChunk{m})
}

// EntryActionKind discriminates one entry mutation within a MutateEntries
// batch.
type EntryActionKind int

const (
	Insert EntryActionKind = iota
	Update
	DeleteEntry
)

// EntryAction is one mutation within a MutateEntries batch.
type EntryAction struct {
	Kind            EntryActionKind
	Key             string
	Value           []byte
	ExpectedVersion uint64 // meaningful for Update/DeleteEntry
}

// MutateEntries applies actions atomically: either every action succeeds
// against a working copy of the map, or none are persisted (§4.5). The
// first action that would fail aborts the whole batch with its error.
func (h *Handler) MutateEntries(ctx context.Context, addr vaultid.MDataAddress, actions []EntryAction, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return err
	}

	working := make(map[string]Entry, len(m.Entries))
	for k, v := range m.Entries {
		working[k] = v
	}

	for _, act := range actions {
		if err := applyEntryAction(working, act, m, requester); err != nil {
			return err
		}
	}

	m.Entries = working
	return h.store.Put(ctx, mapChunk{m})
}

func applyEntryAction(entries map[string]Entry, act EntryAction, m Map, requester vaultid.PublicKey) error {
	switch act.Kind {
	case Insert:
		if err := checkAction(m, requester, permission.Insert); err != nil {
			return err
		}
		if _, exists := entries[act.Key]; exists {
			return vaulterrors.DataExists()
		}
		entries[act.Key] = Entry{Value: act.Value, Version: 0}
		return nil

	case Update:
		if err := checkAction(m, requester, permission.Update); err != nil {
			return err
		}
		cur, exists := entries[act.Key]
		if !exists {
			return vaulterrors.NoSuchEntry()
		}
		if act.ExpectedVersion != cur.Version+1 {
			return vaulterrors.InvalidSuccessor(cur.Version)
		}
		entries[act.Key] = Entry{Value: act.Value, Version: act.ExpectedVersion}
		return nil

	case DeleteEntry:
		if err := checkAction(m, requester, permission.Delete); err != nil {
			return err
		}
		cur, exists := entries[act.Key]
		if !exists {
			return vaulterrors.NoSuchEntry()
		}
		if act.ExpectedVersion != cur.Version+1 {
			return vaulterrors.InvalidSuccessor(cur.Version)
		}
		delete(entries, act.Key)
		return nil

	default:
		return vaulterrors.InvalidOperation()
	}
}

// Delete removes the map entirely, allowed only if requester is its sole
// owner.
func (h *Handler) Delete(ctx context.Context, addr vaultid.MDataAddress, requester vaultid.PublicKey) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, err := h.load(ctx, addr)
	if err != nil {
		return err
	}
	if !permission.IsSoleOwner(m.Owners, requester) {
		return vaulterrors.AccessDenied()
	}
	return h.store.Delete(ctx, addr.String())
}

// Package chunkstore implements the typed, bounded, content-addressed
// on-disk store shared by every object kind (IData/MData/AData). It is
// generic over the stored type and backed by a pluggable Backend.
package chunkstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lionel1704/sn-node/pkg/metrics"
	"github.com/lionel1704/sn-node/pkg/vaulterrors"
)

// Chunk is the constraint satisfied by every object kind this store can
// hold: it must carry a stable address and know its own serialized size,
// both needed for the path layout and the used_space accounting.
type Chunk interface {
	Address() string
	SerializedSize() uint64
}

// Backend is the minimal persistence contract a ChunkStore implementation
// (fsstore/badgerstore/s3store) must satisfy. ChunkStore[T] layers typed
// encode/decode, capacity accounting and atomicity guarantees on top.
type Backend interface {
	// Has reports whether key is present.
	Has(ctx context.Context, key string) (bool, error)
	// Get returns the raw bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores data under key, replacing any existing value.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every stored key, for recovery-mode used_space rebuild.
	List(ctx context.Context) ([]string, error)
	// Size returns the on-disk size of the value stored under key.
	Size(ctx context.Context, key string) (uint64, error)
	// Close releases any resources held by the backend.
	Close() error
}

// ErrNotFound is returned by a Backend when a key is absent. ChunkStore
// translates it into vaulterrors.NoSuchData().
var ErrNotFound = fmt.Errorf("chunkstore: key not found")

// Codec marshals and unmarshals the typed payload to and from the bytes a
// Backend persists.
type Codec[T Chunk] interface {
	Encode(obj T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// InitMode selects how a Store's used-space accounting is initialized.
type InitMode int

const (
	// Fresh requires the backend to be empty (or newly created).
	Fresh InitMode = iota
	// Recover scans the backend and rebuilds used_space from file sizes.
	Recover
)

// Store is a typed, capacity-bounded, content-addressed object store
// parameterized over one object kind. It is the sole persistence
// mechanism used by IDataHolder, MDataHandler, and ADataHandler.
type Store[T Chunk] struct {
	backend Backend
	codec   Codec[T]
	used    *UsedSpace
	metrics metrics.ChunkStoreMetrics
}

// Config configures a Store's capacity accounting.
type Config struct {
	MaxCapacity uint64
	Mode        InitMode
	// Metrics, if set, receives Put/Get/Delete observations. Leave nil
	// to run with zero instrumentation overhead.
	Metrics metrics.ChunkStoreMetrics
}

// New constructs a Store over backend using codec, initializing its
// used_space counter per cfg.Mode. In Recover mode, it lists every key in
// the backend and sums their on-disk sizes; a malformed backend fails
// initialization rather than silently under-counting.
func New[T Chunk](ctx context.Context, backend Backend, codec Codec[T], cfg Config) (*Store[T], error) {
	used := NewUsedSpace(cfg.MaxCapacity)

	switch cfg.Mode {
	case Fresh:
		keys, err := backend.List(ctx)
		if err != nil {
			return nil, vaulterrors.FromIOError(err)
		}
		if len(keys) != 0 {
			return nil, vaulterrors.NetworkOther("fresh init requires an empty store root")
		}
	case Recover:
		keys, err := backend.List(ctx)
		if err != nil {
			return nil, vaulterrors.FromIOError(err)
		}
		var total uint64
		for _, k := range keys {
			sz, err := backend.Size(ctx, k)
			if err != nil {
				return nil, vaulterrors.NetworkOther(fmt.Sprintf("recover: malformed entry %q: %v", k, err))
			}
			total += sz
		}
		if !used.Reserve(total) {
			return nil, vaulterrors.NetworkOther("recover: recomputed used_space exceeds configured max_capacity")
		}
	}

	return &Store[T]{backend: backend, codec: codec, used: used, metrics: cfg.Metrics}, nil
}

// Has reports whether an object is stored at addr.
func (s *Store[T]) Has(ctx context.Context, addr string) (bool, error) {
	ok, err := s.backend.Has(ctx, addr)
	if err != nil {
		return false, vaulterrors.FromIOError(err)
	}
	return ok, nil
}

// Get retrieves and decodes the object stored at addr.
func (s *Store[T]) Get(ctx context.Context, addr string) (T, error) {
	start := time.Now()
	obj, err := s.get(ctx, addr)
	metrics.ObserveGet(s.metrics, time.Since(start), err)
	return obj, err
}

func (s *Store[T]) get(ctx context.Context, addr string) (T, error) {
	var zero T
	data, err := s.backend.Get(ctx, addr)
	if err != nil {
		if err == ErrNotFound {
			return zero, vaulterrors.NoSuchData()
		}
		return zero, vaulterrors.FromIOError(err)
	}
	obj, err := s.codec.Decode(data)
	if err != nil {
		return zero, vaulterrors.NetworkOther(err.Error())
	}
	return obj, nil
}

// Put encodes and stores obj at its own address, enforcing
// size(obj)+used_space <= max_capacity. On success, used_space is
// incremented by exactly the encoded size; replacing an existing object at
// the same address first releases its prior size so the accounting stays
// exact (invariant 5, spec.md §3).
func (s *Store[T]) Put(ctx context.Context, obj T) error {
	start := time.Now()
	size, err := s.put(ctx, obj)
	metrics.ObservePut(s.metrics, size, time.Since(start), err)
	return err
}

func (s *Store[T]) put(ctx context.Context, obj T) (uint64, error) {
	data, err := s.codec.Encode(obj)
	if err != nil {
		return 0, vaulterrors.NetworkOther(err.Error())
	}
	addr := obj.Address()
	size := uint64(len(data))

	var priorSize uint64
	hadPrior, err := s.backend.Has(ctx, addr)
	if err != nil {
		return size, vaulterrors.FromIOError(err)
	}
	if hadPrior {
		priorSize, err = s.backend.Size(ctx, addr)
		if err != nil {
			return size, vaulterrors.FromIOError(err)
		}
	}

	if size > priorSize {
		if !s.used.Reserve(size - priorSize) {
			return size, vaulterrors.NotEnoughSpace()
		}
	}

	if err := s.backend.Put(ctx, addr, data); err != nil {
		if size > priorSize {
			s.used.Release(size - priorSize)
		}
		return size, vaulterrors.FromIOError(err)
	}

	if size < priorSize {
		s.used.Release(priorSize - size)
	}
	return size, nil
}

// Delete removes the object at addr, releasing its size from the
// used_space counter.
func (s *Store[T]) Delete(ctx context.Context, addr string) error {
	err := s.delete(ctx, addr)
	metrics.ObserveDelete(s.metrics, err)
	return err
}

func (s *Store[T]) delete(ctx context.Context, addr string) error {
	sz, err := s.backend.Size(ctx, addr)
	if err != nil {
		if err == ErrNotFound {
			return vaulterrors.NoSuchData()
		}
		return vaulterrors.FromIOError(err)
	}
	if err := s.backend.Delete(ctx, addr); err != nil {
		return vaulterrors.FromIOError(err)
	}
	s.used.Release(sz)
	return nil
}

// List returns every address currently stored. Used for recovery and
// diagnostics, never on the hot path (§4.1).
func (s *Store[T]) List(ctx context.Context) ([]string, error) {
	keys, err := s.backend.List(ctx)
	if err != nil {
		return nil, vaulterrors.FromIOError(err)
	}
	return keys, nil
}

// UsedSpace returns the store's shared capacity counter.
func (s *Store[T]) UsedSpace() *UsedSpace { return s.used }

// Close releases the underlying backend's resources.
func (s *Store[T]) Close() error { return s.backend.Close() }

// UsedSpace is a single-writer, atomic-backed counter tracking the sum of
// on-disk bytes a Store has committed, per spec.md §5's "thin wrapper"
// guidance. Reserve is the atomic commit point: it either admits the
// requested bytes under capacity, or refuses and leaves the counter
// unchanged.
type UsedSpace struct {
	current  atomic.Uint64
	capacity uint64
}

// NewUsedSpace returns a counter bounded by capacity.
func NewUsedSpace(capacity uint64) *UsedSpace {
	return &UsedSpace{capacity: capacity}
}

// Reserve attempts to admit n additional bytes, returning false without
// effect if doing so would exceed capacity.
func (u *UsedSpace) Reserve(n uint64) bool {
	for {
		cur := u.current.Load()
		next := cur + n
		if next > u.capacity {
			return false
		}
		if u.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Release returns n previously-reserved bytes to the pool.
func (u *UsedSpace) Release(n uint64) {
	for {
		cur := u.current.Load()
		var next uint64
		if n > cur {
			next = 0
		} else {
			next = cur - n
		}
		if u.current.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Current returns the presently-committed byte count.
func (u *UsedSpace) Current() uint64 { return u.current.Load() }

// Capacity returns the configured maximum.
func (u *UsedSpace) Capacity() uint64 { return u.capacity }

// Package badgerstore is an embedded-LSM ChunkStore backend, an
// alternative to fsstore for holders carrying a large replica count where
// one file per object adds inode overhead.
package badgerstore

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
)

// Store is a BadgerDB-backed chunkstore.Backend.
type Store struct {
	db *badger.DB
}

// Config configures the badger backend.
type Config struct {
	// Dir is the BadgerDB data directory.
	Dir string
	// InMemory runs the database without touching disk, for tests.
	InMemory bool
}

// New opens (or creates) a BadgerDB database at cfg.Dir.
func New(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = nil
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Has implements chunkstore.Backend.
func (s *Store) Has(_ context.Context, key string) (bool, error) {
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// Get implements chunkstore.Backend.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return chunkstore.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte{}, val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Put implements chunkstore.Backend.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Delete implements chunkstore.Backend. Deleting an absent key is not an
// error, matching ChunkStore's contract.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
}

// List implements chunkstore.Backend, iterating every key in the database.
func (s *Store) List(_ context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Size implements chunkstore.Backend.
func (s *Store) Size(_ context.Context, key string) (uint64, error) {
	var size uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return chunkstore.ErrNotFound
		}
		if err != nil {
			return err
		}
		size = uint64(item.ValueSize())
		return nil
	})
	if err != nil {
		return 0, err
	}
	return size, nil
}

// Close implements chunkstore.Backend.
func (s *Store) Close() error { return s.db.Close() }

var _ chunkstore.Backend = (*Store)(nil)

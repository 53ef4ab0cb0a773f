// Package fsstore is the canonical ChunkStore backend: one file per
// address under a root directory, written atomically via a temp file plus
// rename.
package fsstore

import (
	"context"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lionel1704/sn-node/pkg/chunkstore"
)

// Store is a filesystem-backed chunkstore.Backend.
type Store struct {
	mu       sync.RWMutex
	rootDir  string
	dirMode  os.FileMode
	fileMode os.FileMode
	closed   bool
}

// Config configures the filesystem backend.
type Config struct {
	// RootDir is the directory objects are stored under.
	RootDir string
	// CreateDir creates RootDir if it does not already exist.
	CreateDir bool
	// DirMode is the permission mode for created directories. Default 0755.
	DirMode os.FileMode
	// FileMode is the permission mode for created files. Default 0644.
	FileMode os.FileMode
}

// DefaultConfig returns the default configuration for rootDir.
func DefaultConfig(rootDir string) Config {
	return Config{RootDir: rootDir, CreateDir: true, DirMode: 0755, FileMode: 0644}
}

// New creates a filesystem-backed store rooted at cfg.RootDir.
func New(cfg Config) (*Store, error) {
	if cfg.RootDir == "" {
		return nil, errors.New("fsstore: root directory is required")
	}
	if cfg.DirMode == 0 {
		cfg.DirMode = 0755
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0644
	}

	if cfg.CreateDir {
		if err := os.MkdirAll(cfg.RootDir, cfg.DirMode); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(cfg.RootDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("fsstore: root path is not a directory")
	}

	return &Store{rootDir: cfg.RootDir, dirMode: cfg.DirMode, fileMode: cfg.FileMode}, nil
}

// path turns a chunk-store key (an address string) into a deterministic,
// hex-encoded filesystem path under the root — splitting into two levels
// of fan-out directories keeps any single directory from growing
// unbounded as the store fills.
func (s *Store) path(key string) string {
	enc := hex.EncodeToString([]byte(key))
	if len(enc) > 4 {
		return filepath.Join(s.rootDir, enc[0:2], enc[2:4], enc)
	}
	return filepath.Join(s.rootDir, enc)
}

// Has implements chunkstore.Backend.
func (s *Store) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, errors.New("fsstore: closed")
	}
	_, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get implements chunkstore.Backend.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.New("fsstore: closed")
	}
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, chunkstore.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put implements chunkstore.Backend. The write goes to a sibling ".tmp"
// file, is fsync'd, then atomically renamed into place — a half-written
// file can never be observed at the final path.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("fsstore: closed")
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), s.dirMode); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, s.fileMode)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Delete implements chunkstore.Backend.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("fsstore: closed")
	}

	path := s.path(key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.cleanEmptyDirs(filepath.Dir(path))
	return nil
}

func (s *Store) cleanEmptyDirs(dir string) {
	for dir != s.rootDir && strings.HasPrefix(dir, s.rootDir) {
		if err := os.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
}

// List implements chunkstore.Backend. Reverses the path encoding back
// into the original address string, skipping any leftover ".tmp" files
// from an interrupted write.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.New("fsstore: closed")
	}

	var keys []string
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".tmp") {
			return nil
		}
		name := filepath.Base(path)
		raw, decErr := hex.DecodeString(name)
		if decErr != nil {
			return nil
		}
		keys = append(keys, string(raw))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

// Size implements chunkstore.Backend.
func (s *Store) Size(_ context.Context, key string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, errors.New("fsstore: closed")
	}
	info, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, chunkstore.ErrNotFound
		}
		return 0, err
	}
	return uint64(info.Size()), nil
}

// Close marks the store closed; subsequent operations fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ chunkstore.Backend = (*Store)(nil)

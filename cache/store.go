package cache

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store loads and saves cache snapshots. The lifecycle is load-once at the
// start of a run and save-once at the end; the run itself works against the
// in-memory Cache.
type Store interface {
	Load(ctx context.Context) (*Cache, error)
	Save(ctx context.Context, c *Cache) error
}

// FileStore persists snapshots to a single file, CSV by default and
// MessagePack for paths ending in .msgpack. An empty path disables
// persistence: Load yields an empty cache and Save is a no-op.
type FileStore struct {
	path string
	now  func() time.Time
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithNow is useful for tests.
func WithNow(now func() time.Time) FileOption {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore creates a store for the given snapshot path.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the snapshot. A missing path or missing file yields an empty
// cache.
func (s *FileStore) Load(_ context.Context) (*Cache, error) {
	if s.path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache snapshot: %w", err)
	}

	if s.binary() {
		return decodeMsgpack(data)
	}
	return readCSV(bytes.NewReader(data))
}

// Save writes the full cache as a snapshot, overwriting any existing file
// and creating intermediate directories as needed.
func (s *FileStore) Save(_ context.Context, c *Cache) error {
	if s.path == "" {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	var data []byte
	if s.binary() {
		b, err := encodeMsgpack(c, s.now())
		if err != nil {
			return fmt.Errorf("encode cache snapshot: %w", err)
		}
		data = b
	} else {
		var buf bytes.Buffer
		if err := writeCSV(&buf, c, s.now()); err != nil {
			return fmt.Errorf("encode cache snapshot: %w", err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) binary() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".msgpack")
}

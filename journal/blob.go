package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

var ErrBlobNotFound = errors.New("blob not found")

// Blob is the key-value storage a Store persists into. Get returns
// ErrBlobNotFound for a key that was never written.
type Blob interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Close() error
}

// MemoryBlob keeps blobs in a map. Setting PutErr makes every Put fail,
// which is how tests simulate a full disk.
type MemoryBlob struct {
	mu     sync.Mutex
	data   map[string][]byte
	PutErr error
}

func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{data: make(map[string][]byte)}
}

func (m *MemoryBlob) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return slices.Clone(b), nil
}

func (m *MemoryBlob) Put(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.data[key] = slices.Clone(data)
	return nil
}

func (m *MemoryBlob) Close() error { return nil }

// FileBlob stores each key as <dir>/<key>.json.
type FileBlob struct {
	dir string
}

func NewFileBlob(dir string) *FileBlob {
	return &FileBlob{dir: dir}
}

func (f *FileBlob) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileBlob) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// Put writes to a temp file and renames it over the old one so a failed
// write never truncates the previous journal.
func (f *FileBlob) Put(key string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileBlob) Close() error { return nil }

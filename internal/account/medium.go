package account

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

// Medium is a synchronous key-value store for small JSON documents.
type Medium interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileMedium stores one file per key in a directory, bounded by a total
// byte quota. A quota of zero or less disables the bound.
type FileMedium struct {
	mu     sync.Mutex
	dir    string
	quota  int64
	closed bool
}

// NewFileMedium creates the directory if needed.
func NewFileMedium(dir string, quota int64) (*FileMedium, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrStorageUnavailable, dir, err)
	}
	return &FileMedium{dir: dir, quota: quota}, nil
}

func (m *FileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

// Get reads the file for key.
func (m *FileMedium) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrStorageUnavailable
	}

	data, err := os.ReadFile(m.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: reading %s: %v", ErrStorageUnavailable, key, err)
	}
	return data, true, nil
}

// Set replaces the file for key, writing through a temp file.
func (m *FileMedium) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStorageUnavailable
	}

	if m.quota > 0 {
		used, err := m.usageExcluding(key)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > m.quota {
			return fmt.Errorf("%w: %d of %d bytes in use", ErrStorageExhausted, used, m.quota)
		}
	}

	tmp := m.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		os.Remove(tmp)
		return writeError(key, err)
	}
	if err := os.Rename(tmp, m.path(key)); err != nil {
		os.Remove(tmp)
		return writeError(key, err)
	}
	return nil
}

// Delete removes the file for key. Deleting a missing key is not an error.
func (m *FileMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStorageUnavailable
	}
	if err := os.Remove(m.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: deleting %s: %v", ErrStorageUnavailable, key, err)
	}
	return nil
}

// Close makes every later call fail with ErrStorageUnavailable.
func (m *FileMedium) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *FileMedium) usageExcluding(key string) (int64, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("%w: listing %s: %v", ErrStorageUnavailable, m.dir, err)
	}
	var total int64
	skip := filepath.Base(m.path(key))
	for _, e := range entries {
		if e.IsDir() || e.Name() == skip {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func writeError(key string, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: writing %s: %v", ErrStorageExhausted, key, err)
	}
	return fmt.Errorf("%w: writing %s: %v", ErrStorageUnavailable, key, err)
}

// MemoryMedium is an in-process Medium with the same quota semantics as
// FileMedium.
type MemoryMedium struct {
	mu     sync.Mutex
	data   map[string][]byte
	quota  int64
	closed bool
}

// NewMemoryMedium creates an empty MemoryMedium.
func NewMemoryMedium(quota int64) *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte), quota: quota}
}

func (m *MemoryMedium) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, false, ErrStorageUnavailable
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryMedium) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStorageUnavailable
	}
	if m.quota > 0 {
		var used int64
		for k, v := range m.data {
			if k != key {
				used += int64(len(v))
			}
		}
		if used+int64(len(value)) > m.quota {
			return fmt.Errorf("%w: %d of %d bytes in use", ErrStorageExhausted, used, m.quota)
		}
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStorageUnavailable
	}
	delete(m.data, key)
	return nil
}

// Close makes every later call fail with ErrStorageUnavailable.
func (m *MemoryMedium) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileName = "storage.json"

// File keeps all keys in a single JSON document under a private directory.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile creates dir with 0700 permissions and returns a File store in it.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, errors.New("storage.NewFile: empty directory")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("storage.NewFile: create dir: %w", err)
	}
	return &File{path: filepath.Join(dir, fileName)}, nil
}

// Path returns the location of the backing document.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, _, err := f.loadForWrite()
	if err != nil {
		return err
	}
	entries[key] = string(value)
	return f.save(entries)
}

func (f *File) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, corrupt, err := f.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok && !corrupt {
		return nil
	}
	delete(entries, key)
	return f.save(entries)
}

func (f *File) Close() error { return nil }

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrCorrupt, f.path, err)
	}
	return entries, nil
}

// loadForWrite is load, except an unparseable document reads as empty so the
// next save overwrites it. corrupt reports that case.
func (f *File) loadForWrite() (entries map[string]string, corrupt bool, err error) {
	entries, err = f.load()
	if errors.Is(err, ErrCorrupt) {
		return map[string]string{}, true, nil
	}
	return entries, false, err
}

// save writes the document to a temp file and renames it into place.
func (f *File) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: marshal: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("storage: save: %w", err)
	}
	return nil
}

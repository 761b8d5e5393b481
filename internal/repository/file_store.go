package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nikolayk812/storefront/internal/port"
)

// fileStore keeps one JSON document per namespace on local disk.
// Every write replaces the whole document through a rename, so a crash never leaves half a cart behind.
type fileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(dir, namespace string) (port.KVStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is empty")
	}
	if namespace == "" {
		return nil, fmt.Errorf("namespace is empty")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	return &fileStore{path: filepath.Join(dir, namespace+".json")}, nil
}

func (f *fileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return nil, err
	}

	v, ok := doc[key]
	if !ok {
		return nil, port.ErrNotFound
	}
	return []byte(v), nil
}

func (f *fileStore) Put(_ context.Context, entries map[string][]byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.loadForWrite()
	if err != nil {
		return err
	}

	for k, v := range entries {
		doc[k] = string(v)
	}
	return f.save(doc)
}

func (f *fileStore) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.loadForWrite()
	if err != nil {
		return err
	}

	for _, k := range keys {
		delete(doc, k)
	}
	return f.save(doc)
}

func (f *fileStore) Close() error {
	return nil
}

func (f *fileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	}

	doc := map[string]string{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("json.Unmarshal[%s]: %w", f.path, err)
	}
	return doc, nil
}

// loadForWrite starts over from an empty document when the file is unreadable,
// the same way a browser discards a storage area it cannot parse.
func (f *fileStore) loadForWrite() (map[string]string, error) {
	doc, err := f.load()
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return doc, nil
}

func (f *fileStore) save(doc map[string]string) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}

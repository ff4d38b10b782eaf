package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/qmap/pkg/errors"
)

// FileStore keeps one indented JSON file per record.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create store dir")
	}
	return &FileStore{dir: dir}, nil
}

// path rejects IDs that are not UUIDs so they cannot escape dir.
func (s *FileStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New(errors.ErrCodeNotFound, "allocation %q not found", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileStore) Put(_ context.Context, r *Record) error {
	if r == nil {
		return errors.New(errors.ErrCodeInvalidInput, "record is nil")
	}
	path, err := s.path(r.ID)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "record id %q is not a uuid", r.ID)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write record")
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Record, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return readRecord(path, id)
}

func readRecord(path, id string) (*Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "allocation %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read record")
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse record %s", id)
	}
	return &r, nil
}

func (s *FileStore) List(_ context.Context, opts ListOptions) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store dir")
	}
	var out []*Record
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		r, err := readRecord(filepath.Join(s.dir, e.Name()), e.Name())
		if err != nil {
			continue
		}
		if opts.match(r) {
			out = append(out, r)
		}
	}
	return newestFirst(out, opts.limit()), nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	path, err := s.path(id)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "remove record")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the store directory.
func (s *FileStore) Path() string {
	return s.dir
}

var _ Store = (*FileStore)(nil)

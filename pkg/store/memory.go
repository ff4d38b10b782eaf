package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/qmap/pkg/errors"
)

// Memory keeps records in a map.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*Record)}
}

func (m *Memory) Put(_ context.Context, r *Record) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record needs an id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "allocation %q not found", id)
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) List(_ context.Context, opts ListOptions) ([]*Record, error) {
	m.mu.RLock()
	var out []*Record
	for _, r := range m.records {
		if opts.match(r) {
			cp := *r
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()
	return newestFirst(out, opts.limit()), nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *Memory) Close() error { return nil }

// newestFirst sorts by creation time descending, ties by ID, and truncates.
func newestFirst(rs []*Record, limit int) []*Record {
	slices.SortFunc(rs, func(a, b *Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(rs) > limit {
		rs = rs[:limit]
	}
	return rs
}

var _ Store = (*Memory)(nil)

// Package store persists allocation records for the API server.
//
// Backends:
//   - [Memory]: in-process, for development and tests
//   - [FileStore]: one JSON file per record, for single-node deployments
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// Records are immutable once stored; Put with an existing ID replaces the
// record.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/qmap/pkg/bmt"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Record is one finished allocation.
type Record struct {
	ID           string        `json:"id" bson:"_id"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	Allocator    string        `json:"allocator" bson:"allocator"`
	Arch         string        `json:"arch" bson:"arch"`
	Qubits       int           `json:"qubits" bson:"qubits"`
	Instructions int           `json:"instructions" bson:"instructions"`
	DurationMS   int64         `json:"duration_ms" bson:"duration_ms"`
	CacheHit     bool          `json:"cache_hit" bson:"cache_hit"`
	Solution     *bmt.Solution `json:"solution" bson:"solution"`
}

// NewRecord returns a record with a fresh ID and the current time.
func NewRecord(allocator, arch string, sol *bmt.Solution) *Record {
	return &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Allocator: allocator,
		Arch:      arch,
		Solution:  sol,
	}
}

// ListOptions filter List. Empty fields match everything.
type ListOptions struct {
	Allocator string
	Arch      string
	Limit     int
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}

func (o ListOptions) match(r *Record) bool {
	return (o.Allocator == "" || o.Allocator == r.Allocator) && (o.Arch == "" || o.Arch == r.Arch)
}

// Store is the record storage interface.
type Store interface {
	// Put stores r, replacing any record with the same ID.
	Put(ctx context.Context, r *Record) error

	// Get returns the record with id or an error with code NOT_FOUND.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns matching records, newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)

	// Delete removes id. Missing records are not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

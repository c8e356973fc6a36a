package storage

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/stranalyzer/internal/analysis"
)

var (
	// ErrNotFound is returned when no record exists for a value
	ErrNotFound = errors.New("string does not exist")

	// ErrAlreadyExists is returned when inserting a value that is already stored
	ErrAlreadyExists = errors.New("string already exists")

	// ErrStoreClosed is returned by every operation after Close
	ErrStoreClosed = errors.New("store closed")
)

// Record is a stored string with its computed properties.
// Records are immutable once created.
type Record struct {
	ID         string              `json:"id"`
	Value      string              `json:"value"`
	Properties analysis.Properties `json:"properties"`
	CreatedAt  time.Time           `json:"created_at"`
}

// Clone returns a deep copy of the record
func (r Record) Clone() Record {
	r.Properties = r.Properties.Clone()
	return r
}

// Store defines the interface for string record storage.
// All implementations must be thread-safe for concurrent access.
type Store interface {
	// Insert computes properties for value and stores a new record.
	// Returns ErrAlreadyExists if a record with the same hash is present.
	Insert(value string) (Record, error)

	// Get retrieves the record for value.
	// Returns ErrNotFound if the value is not stored.
	Get(value string) (Record, error)

	// Delete removes the record for value.
	// Returns ErrNotFound if the value is not stored.
	Delete(value string) error

	// List returns a snapshot of all records in insertion order
	List() []Record

	// Stats returns storage statistics
	Stats() StoreStats

	// Close releases the store; later calls fail with ErrStoreClosed
	Close() error
}

// StoreStats contains statistics about the store
type StoreStats struct {
	Records int // Number of records
	Bytes   int // Total UTF-8 size of all stored values
}

// Option configures a MemoryStore
type Option func(*MemoryStore)

// WithClock overrides the time source used for created_at
func WithClock(now func() time.Time) Option {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// MemoryStore implements Store with an in-memory map keyed by content hash.
// A single RWMutex guards the map and the insertion-order index so List
// always observes a consistent snapshot.
type MemoryStore struct {
	records map[string]Record // Records keyed by SHA-256 id
	now     func() time.Time  // Clock for created_at
	order   []string          // Ids in insertion order
	mu      sync.RWMutex      // Protects records, order and closed
	closed  bool
}

// NewMemoryStore creates a new, empty in-memory store
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert stores a new record for value.
// Properties are computed before the lock is taken.
func (m *MemoryStore) Insert(value string) (Record, error) {
	props := analysis.Compute(value)
	id := props.SHA256Hash

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}
	if _, exists := m.records[id]; exists {
		return Record{}, ErrAlreadyExists
	}

	rec := Record{
		ID:         id,
		Value:      value,
		Properties: props,
		CreatedAt:  m.now().UTC(),
	}
	m.records[id] = rec
	m.order = append(m.order, id)

	return rec.Clone(), nil
}

// Get retrieves the record for value.
// Returns a copy to prevent external modification.
func (m *MemoryStore) Get(value string) (Record, error) {
	id := analysis.Hash(value)

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Record{}, ErrStoreClosed
	}
	rec, exists := m.records[id]
	if !exists {
		return Record{}, ErrNotFound
	}
	return rec.Clone(), nil
}

// Delete removes the record for value
func (m *MemoryStore) Delete(value string) error {
	id := analysis.Hash(value)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	if _, exists := m.records[id]; !exists {
		return ErrNotFound
	}

	delete(m.records, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

// List returns copies of all records in insertion order
func (m *MemoryStore) List() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil
	}

	out := make([]Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id].Clone())
	}
	return out
}

// Stats returns storage statistics
func (m *MemoryStore) Stats() StoreStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totalBytes := 0
	for _, rec := range m.records {
		totalBytes += len(rec.Value)
	}

	return StoreStats{
		Records: len(m.records),
		Bytes:   totalBytes,
	}
}

// Close drops all records. Closing twice is a no-op.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = make(map[string]Record)
	m.order = nil
	return nil
}

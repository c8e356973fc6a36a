// Package storage provides the record store behind the string analyzer
// service: an in-memory collection of analyzed strings keyed by the SHA-256
// hash of their value.
//
// # Overview
//
// The store owns every record the service knows about. A record is created
// by Insert, read by Get or List, and destroyed by Delete; it is never
// mutated in between. Because the id is the content hash, the same value
// always maps to the same record and can never be stored twice.
//
// # Architecture
//
//	┌─────────────────────────────────────┐
//	│            HTTP handlers            │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│          Store interface            │
//	│  Insert / Get / Delete / List       │
//	└─────────────────────────────────────┘
//	                 │
//	                 ▼
//	┌─────────────────────────────────────┐
//	│            MemoryStore              │
//	│  map[id]Record + insertion order    │
//	└─────────────────────────────────────┘
//
// # Core Interface
//
// Store:
//   - Insert(value) - Compute properties and add a record
//   - Get(value) - Look up a record by the hash of value
//   - Delete(value) - Remove a record by the hash of value
//   - List() - Snapshot of all records, insertion order
//   - Stats() - Record count and total value size
//   - Close() - End of lifecycle
//
// # Concurrency and Thread Safety
//
// MemoryStore guards its map and order index with one sync.RWMutex:
//   - Insert, Delete and Close take the exclusive lock
//   - Get, List and Stats take the shared lock
//   - List copies every record while holding the lock, so callers never
//     see a torn snapshot
//
// Property computation for Insert happens before the lock is acquired.
//
// # Error Handling
//
// ErrAlreadyExists: Insert of a value that is already stored
//
// ErrNotFound: Get or Delete of a value that is not stored
//
// ErrStoreClosed: any operation after Close
//
// # Usage Examples
//
//	store := storage.NewMemoryStore()
//	defer store.Close()
//
//	rec, err := store.Insert("racecar")
//	if errors.Is(err, storage.ErrAlreadyExists) {
//	    log.Println("already stored")
//	}
//
//	rec, err = store.Get("racecar")
//	if errors.Is(err, storage.ErrNotFound) {
//	    log.Println("not stored")
//	}
//
//	for _, rec := range store.List() {
//	    fmt.Println(rec.Value, rec.Properties.Length)
//	}
//
// # Testing
//
//	go test ./internal/storage/... -cover
//	go test -race ./internal/storage/...
package storage

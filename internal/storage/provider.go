// Package storage provides the persistence slot for the journal collection.
//
// The journal is persisted as a single JSON document (the encoded entry
// array, newest first) under one named slot. Providers only move bytes;
// encoding and seeding live in the journal package.
package storage

// Drivers selectable via config.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// SlotKey is the fixed key the journal document is stored under.
const SlotKey = "journal-entries"

// Provider is the interface for journal persistence.
type Provider interface {
	// Load returns the raw JSON document, or nil when no data has been
	// persisted yet.
	Load() ([]byte, error)
	// Save overwrites the slot with data.
	Save(data []byte) error
}

// Closer is implemented by providers holding resources that need releasing.
type Closer interface {
	Close() error
}

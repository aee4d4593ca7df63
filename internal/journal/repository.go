// Package journal owns the canonical entry collection: seeding, in-memory
// state, and persistence through a storage provider.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/checksum"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/storage"
)

// Repository is the single source of truth for journal entries. Entries are
// held newest first; every mutation persists the full collection.
type Repository struct {
	store  storage.Provider
	logger *slog.Logger

	mu          sync.RWMutex
	entries     []models.JournalEntry
	initialized bool
	lastWritten string // checksum of the last snapshot this process persisted
}

// NewRepository creates a repository backed by store. Call Load before use.
func NewRepository(store storage.Provider, logger *slog.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Load initializes the repository from persisted data, falling back to the
// seed collection when no data exists or it cannot be decoded. It never
// returns an error for unreadable storage and is a no-op after the first
// call.
func (r *Repository) Load(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return
	}
	r.entries = r.readStore()
	r.initialized = true
}

// readStore decodes the persisted collection, or returns the seed on any
// failure. Caller holds the lock.
func (r *Repository) readStore() []models.JournalEntry {
	data, err := r.store.Load()
	if err != nil {
		r.logger.Warn("journal: load failed, using seed entries",
			slog.String("error", fmt.Errorf("%w: %w", apperr.ErrStorageRead, err).Error()))
		return SeedEntries(time.Now())
	}
	if len(data) == 0 {
		return SeedEntries(time.Now())
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("journal: corrupt journal data, using seed entries",
			slog.String("error", err.Error()))
		return SeedEntries(time.Now())
	}
	r.lastWritten = checksum.Sum(data)
	return entries
}

// Add validates input, stamps a fresh id and the current instant, prepends
// the entry, and persists the collection. A persistence failure is logged
// and does not roll back the in-memory mutation.
func (r *Repository) Add(_ context.Context, input models.JournalEntryInput) (models.JournalEntry, error) {
	if err := input.Validate(); err != nil {
		return models.JournalEntry{}, fmt.Errorf("%w: %w", apperr.ErrInvalidEntry, err)
	}

	entry := models.JournalEntry{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Text:       input.Text,
		Mood:       input.Mood,
		Activities: input.Activities,
		Weather:    input.Weather,
		Sentiment:  input.Sentiment,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]models.JournalEntry{entry}, r.entries...)

	if err := r.persistLocked(); err != nil {
		r.logger.Error("journal: persist failed, continuing with in-memory state",
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()))
	}
	return entry, nil
}

// persistLocked serializes the collection and overwrites the storage slot.
// Caller holds the lock.
func (r *Repository) persistLocked() error {
	data, err := json.Marshal(r.entries)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", apperr.ErrStorageWrite, err)
	}
	if err := r.store.Save(data); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrStorageWrite, err)
	}
	r.lastWritten = checksum.Sum(data)
	return nil
}

// Entries returns a snapshot of the collection, newest first.
func (r *Repository) Entries() []models.JournalEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.JournalEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of entries.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Initialized reports whether Load has completed.
func (r *Repository) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// LastWritten returns the checksum of the last snapshot persisted or loaded
// by this process. The data-file watcher uses it to skip self-inflicted
// change events.
func (r *Repository) LastWritten() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastWritten
}

// Reload re-reads the collection from storage after an external change.
// It reports whether the in-memory state was replaced.
func (r *Repository) Reload() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := r.store.Load()
	if err != nil || len(data) == 0 {
		return false
	}
	if checksum.Sum(data) == r.lastWritten {
		return false
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("journal: reload skipped, data not decodable",
			slog.String("error", err.Error()))
		return false
	}
	r.entries = entries
	r.lastWritten = checksum.Sum(data)
	return true
}

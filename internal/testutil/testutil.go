// Package testutil provides shared test helpers for setting up journal
// stores and a fake chat-completions backend.
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/ai"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/storage"
)

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FileStore creates a temporary file-backed provider that is automatically
// cleaned up.
func FileStore(t *testing.T) *storage.File {
	t.Helper()
	store, err := storage.NewFile(filepath.Join(t.TempDir(), "journal.json"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// SQLiteStore creates a temporary SQLite-backed provider that is
// automatically cleaned up.
func SQLiteStore(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "dagaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	store, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// Repository creates a loaded repository on a temporary file store.
func Repository(t *testing.T) *journal.Repository {
	t.Helper()
	repo := journal.NewRepository(FileStore(t), Logger())
	repo.Load(context.Background())
	return repo
}

// ChatServer starts a fake chat-completions backend that answers every
// request with reply as the assistant message content. Pass a non-200
// status to simulate an upstream failure.
func ChatServer(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failure"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ChatClient builds an AI client against a fake backend returning reply.
func ChatClient(t *testing.T, status int, reply string) *ai.Client {
	t.Helper()
	srv := ChatServer(t, status, reply)
	return ai.NewClient(srv.URL, "", "test-model", 5*time.Second)
}

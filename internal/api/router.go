package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/dagaz/internal/journal"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(repo *journal.Repository, analyzer Analyzer, events EventPublisher, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(repo, analyzer, events)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Journal entries.
	r.Get("/entries", h.ListEntries)
	r.Post("/entries", h.CreateEntry)

	// Fixed mood set.
	r.Get("/moods", h.ListMoods)

	// AI enrichment.
	r.Post("/analysis", h.Analyze)
	r.Post("/insights", h.Insights)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/models"
)

// minInsightEntries is the caller-side policy threshold: correlation over
// fewer points is not meaningful, so the API refuses to ask for it.
const minInsightEntries = 3

// Analyzer is the subset of the AI client the API depends on.
type Analyzer interface {
	AnalyzeSentiment(ctx context.Context, text string) (*models.Sentiment, error)
	GenerateInsights(ctx context.Context, entries []models.JournalEntry) ([]string, error)
}

// EventPublisher receives journal change notifications for the SSE stream.
type EventPublisher interface {
	PublishEntryCreated(id, mood string)
}

// Handler holds API route handlers.
type Handler struct {
	repo     *journal.Repository
	analyzer Analyzer
	events   EventPublisher
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(repo *journal.Repository, analyzer Analyzer, events EventPublisher) *Handler {
	return &Handler{repo: repo, analyzer: analyzer, events: events}
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List all journal entries, newest first
//	@Tags			entries
//	@Produce		json
//	@Success		200	{object}	EntryListResponse
//	@Security		BearerAuth
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, _ *http.Request) {
	entries := h.repo.Entries()
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"total":   len(entries),
	})
}

// CreateEntry handles POST /api/entries.
//
//	@Summary		Create a new journal entry
//	@Tags			entries
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateEntryRequest	true	"Entry to create"
//	@Success		201		{object}	models.JournalEntry
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries [post]
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Mood == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("mood is required"))
		return
	}
	mood, ok := models.MoodByLabel(req.Mood)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("unknown mood"))
		return
	}

	entry, err := h.repo.Add(r.Context(), models.JournalEntryInput{
		Text:       req.Text,
		Mood:       mood,
		Activities: req.Activities,
		Weather:    req.Weather,
		Sentiment:  req.Sentiment,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidEntry) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("create entry failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	if h.events != nil {
		h.events.PublishEntryCreated(entry.ID, entry.Mood.Label)
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListMoods handles GET /api/moods.
//
//	@Summary		List the fixed mood set
//	@Tags			moods
//	@Produce		json
//	@Success		200	{object}	MoodListResponse
//	@Security		BearerAuth
//	@Router			/moods [get]
func (h *Handler) ListMoods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"moods": models.Moods,
	})
}

// Analyze handles POST /api/analysis.
//
//	@Summary		Analyze the sentiment of free text
//	@Tags			analysis
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AnalyzeRequest	true	"Text to analyze"
//	@Success		200		{object}	models.Sentiment
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/analysis [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}

	result, err := h.analyzer.AnalyzeSentiment(r.Context(), req.Text)
	if err != nil {
		slog.Warn("sentiment analysis failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("analysis unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Insights handles POST /api/insights.
//
//	@Summary		Generate mood insights across all entries
//	@Tags			insights
//	@Produce		json
//	@Success		200	{object}	InsightsResponse
//	@Failure		409	{object}	errResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/insights [post]
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	entries := h.repo.Entries()
	if len(entries) < minInsightEntries {
		writeJSON(w, http.StatusConflict, errorBody("not enough entries for insights"))
		return
	}

	insights, err := h.analyzer.GenerateInsights(r.Context(), entries)
	if err != nil {
		slog.Warn("insight generation failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("insight generation unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"insights": insights,
	})
}

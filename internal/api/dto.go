package api

import (
	"github.com/starford/dagaz/internal/models"
)

// CreateEntryRequest is the request body for creating a journal entry.
// Mood is the label of one of the fixed moods; the server resolves the
// canonical glyph.
type CreateEntryRequest struct {
	Text       string             `json:"text,omitempty"`
	Mood       string             `json:"mood" example:"Happy" validate:"required"`
	Activities *models.Activities `json:"activities,omitempty"`
	Weather    string             `json:"weather,omitempty" example:"Sunny"`
	Sentiment  *models.Sentiment  `json:"sentiment,omitempty"`
}

// EntryListResponse wraps the full entry collection, newest first.
type EntryListResponse struct {
	Entries []models.JournalEntry `json:"entries" validate:"required"`
	Total   int                   `json:"total" example:"4" validate:"required"`
}

// MoodListResponse wraps the fixed mood set.
type MoodListResponse struct {
	Moods []models.Mood `json:"moods" validate:"required"`
}

// AnalyzeRequest is the request body for sentiment analysis.
type AnalyzeRequest struct {
	Text string `json:"text" example:"I had a wonderful day" validate:"required"`
}

// InsightsResponse wraps generated insights. Insights are ephemeral and
// never persisted.
type InsightsResponse struct {
	Insights []string `json:"insights" validate:"required"`
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

const insightsPromptFmt = `You are an assistant that generates insights about a user's mood based on their journal entries and activity data.

Analyze the following journal entries to identify trends and correlations between mood, step count, screen time, and weather.

Journal entries (JSON, newest first):
%s

Generate a few concise and insightful statements about the user's mood trends and the factors that influence them. For example:

- "You tend to feel happier on days when you take more steps."
- "You seem to experience lower moods on days with more screen time."
- "Your mood is generally positive when the weather is sunny."

Insights must relate to trends between mood, activities, and weather.

Respond with only a JSON object of the form {"insights": ["<statement>", ...]} and no other text.`

// projectedEntry is the wire shape sent to the model: the mood is flattened
// to its label and ids are dropped.
type projectedEntry struct {
	Timestamp  string             `json:"timestamp"`
	Text       string             `json:"text,omitempty"`
	Mood       string             `json:"mood"`
	Activities *models.Activities `json:"activities,omitempty"`
	Weather    string             `json:"weather,omitempty"`
}

type insightsResult struct {
	Insights []string `json:"insights"`
}

// GenerateInsights asks the model for natural-language observations about
// correlations across the entry collection. Any number of entries is
// accepted, including zero; the minimum-entries policy belongs to callers.
// A reply missing the insights field or otherwise malformed fails; all
// failures wrap apperr.ErrGeneration. Results are never persisted.
func (c *Client) GenerateInsights(ctx context.Context, entries []models.JournalEntry) ([]string, error) {
	projected := make([]projectedEntry, len(entries))
	for i, e := range entries {
		projected[i] = projectedEntry{
			Timestamp:  e.Timestamp.Format(time.RFC3339),
			Text:       e.Text,
			Mood:       e.Mood.Label,
			Activities: e.Activities,
			Weather:    e.Weather,
		}
	}

	payload, err := json.Marshal(projected)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal entries: %w", apperr.ErrGeneration, err)
	}

	reply, err := c.Complete(ctx, fmt.Sprintf(insightsPromptFmt, payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrGeneration, err)
	}

	var result insightsResult
	if err := json.Unmarshal([]byte(stripFences(reply)), &result); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %w", apperr.ErrGeneration, err)
	}
	if result.Insights == nil {
		return nil, fmt.Errorf("%w: reply missing insights", apperr.ErrGeneration)
	}
	return result.Insights, nil
}

package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

const sentimentPromptFmt = `Analyze the sentiment of the following text:

Text: %s

Determine the overall sentiment (positive, negative, or neutral) and provide a numerical score indicating the sentiment strength. The score should range from -1 (very negative) to 1 (very positive), with 0 representing neutral sentiment.

Respond with only a JSON object of the form {"sentiment": "<label>", "score": <number>} and no other text.`

// AnalyzeSentiment classifies the emotional valence of text. Empty or
// whitespace-only text is rejected up front; short text passes through
// unmodified. The decoded response must carry a label and a score in
// [-1, 1] or the call fails; values are never coerced. All failures wrap
// apperr.ErrAnalysis.
func (c *Client) AnalyzeSentiment(ctx context.Context, text string) (*models.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", apperr.ErrAnalysis)
	}

	reply, err := c.Complete(ctx, fmt.Sprintf(sentimentPromptFmt, text))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrAnalysis, err)
	}

	var result models.Sentiment
	if err := json.Unmarshal([]byte(stripFences(reply)), &result); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %w", apperr.ErrAnalysis, err)
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid reply: %w", apperr.ErrAnalysis, err)
	}
	return &result, nil
}

// Package models defines the domain types for Dagaz.
package models

import "time"

// Mood is a fixed enumerated emotional state with a display glyph and label.
type Mood struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Moods is the closed set of moods an entry may carry, in display order.
var Moods = []Mood{
	{Emoji: "😄", Label: "Excited"},
	{Emoji: "😊", Label: "Happy"},
	{Emoji: "🙂", Label: "Neutral"},
	{Emoji: "😔", Label: "Sad"},
	{Emoji: "😠", Label: "Angry"},
	{Emoji: "😟", Label: "Anxious"},
	{Emoji: "😴", Label: "Tired"},
}

// MoodByLabel looks up a mood from the fixed set. The second return value
// reports whether the label is known.
func MoodByLabel(label string) (Mood, bool) {
	for _, m := range Moods {
		if m.Label == label {
			return m, true
		}
	}
	return Mood{}, false
}

// Activities holds optional daily activity metrics. Values are non-negative;
// ScreenTime is in minutes.
type Activities struct {
	Steps      int `json:"steps,omitempty"`
	ScreenTime int `json:"screenTime,omitempty"`
}

// Sentiment is the analyzer's label/score pair for a piece of text.
// Score lies in [-1, 1], negative to positive.
type Sentiment struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// JournalEntry is the atomic persisted unit. ID and Timestamp are assigned
// at creation and never reassigned.
type JournalEntry struct {
	ID         string      `json:"id"`
	Timestamp  time.Time   `json:"timestamp"`
	Text       string      `json:"text,omitempty"`
	Mood       Mood        `json:"mood"`
	Activities *Activities `json:"activities,omitempty"`
	Weather    string      `json:"weather,omitempty"`
	Sentiment  *Sentiment  `json:"sentiment,omitempty"`
}

// JournalEntryInput is an entry as supplied by the caller, before the
// repository stamps an id and timestamp. Sentiment, when present, is the
// result of the most recent analysis performed while editing.
type JournalEntryInput struct {
	Text       string      `json:"text,omitempty"`
	Mood       Mood        `json:"mood"`
	Activities *Activities `json:"activities,omitempty"`
	Weather    string      `json:"weather,omitempty"`
	Sentiment  *Sentiment  `json:"sentiment,omitempty"`
}

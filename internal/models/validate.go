package models

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks that activity metrics are non-negative.
func (a Activities) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Steps, validation.Min(0)),
		validation.Field(&a.ScreenTime, validation.Min(0)),
	)
}

// Validate checks that the label is present and the score lies in [-1, 1].
func (s Sentiment) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Sentiment, validation.Required),
		validation.Field(&s.Score, validation.Min(-1.0), validation.Max(1.0)),
	)
}

// Validate checks caller-supplied entry fields: the mood must belong to the
// fixed set, and optional activities and sentiment must be well-formed.
func (in JournalEntryInput) Validate() error {
	if _, ok := MoodByLabel(in.Mood.Label); !ok {
		return fmt.Errorf("unknown mood %q", in.Mood.Label)
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Activities),
		validation.Field(&in.Sentiment),
	)
}

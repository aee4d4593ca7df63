package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/starford/dagaz/internal/models"
)

// SeedEntries returns the fixed fallback collection used when no persisted
// data exists, newest first relative to now.
func SeedEntries(now time.Time) []models.JournalEntry {
	excited, _ := models.MoodByLabel("Excited")
	sad, _ := models.MoodByLabel("Sad")
	happy, _ := models.MoodByLabel("Happy")

	return []models.JournalEntry{
		{
			ID:        uuid.NewString(),
			Timestamp: now,
			Text:      "Excited about the weekend! Planning a hike with friends. Feeling optimistic and energetic.",
			Mood:      excited,
			Activities: &models.Activities{
				Steps:      5000,
				ScreenTime: 180,
			},
			Weather: "Cloudy",
		},
		{
			ID:        uuid.NewString(),
			Timestamp: now.Add(-24 * time.Hour),
			Text:      "A bit of a slow day. Feeling a little down, maybe because of the rainy weather. Spent a lot of time on my phone.",
			Mood:      sad,
			Activities: &models.Activities{
				Steps:      2500,
				ScreenTime: 480,
			},
			Weather: "Rainy",
		},
		{
			ID:        uuid.NewString(),
			Timestamp: now.Add(-48 * time.Hour),
			Text:      "Felt really productive today. Managed to finish a big project at work and still had energy to go for a run. The weather was perfect.",
			Mood:      happy,
			Activities: &models.Activities{
				Steps:      12000,
				ScreenTime: 300,
			},
			Weather: "Sunny",
		},
	}
}

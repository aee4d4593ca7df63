package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/models"
)

// fakeBackend answers every chat-completions request with reply and records
// the prompts it received.
type fakeBackend struct {
	status int
	reply  string

	calls      atomic.Int32
	lastPrompt atomic.Value // string
}

func (f *fakeBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)

		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			f.lastPrompt.Store(req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		if f.status != http.StatusOK {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failure"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": f.reply}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func testClient(t *testing.T, status int, reply string) (*Client, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{status: status, reply: reply}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "", "test-model", 5*time.Second), backend
}

func TestAnalyzeSentiment_Positive(t *testing.T) {
	c, _ := testClient(t, http.StatusOK, `{"sentiment":"positive","score":0.8}`)

	result, err := c.AnalyzeSentiment(context.Background(), "I had a wonderful, energizing day at the park")
	if err != nil {
		t.Fatalf("AnalyzeSentiment: %v", err)
	}
	if result.Sentiment != "positive" {
		t.Errorf("sentiment = %q, want positive", result.Sentiment)
	}
	if result.Score <= 0 {
		t.Errorf("score = %v, want > 0", result.Score)
	}
}

func TestAnalyzeSentiment_FencedReply(t *testing.T) {
	c, _ := testClient(t, http.StatusOK, "```json\n{\"sentiment\":\"negative\",\"score\":-0.6}\n```")

	result, err := c.AnalyzeSentiment(context.Background(), "everything went wrong today")
	if err != nil {
		t.Fatalf("AnalyzeSentiment: %v", err)
	}
	if result.Sentiment != "negative" || result.Score != -0.6 {
		t.Errorf("result = %+v", result)
	}
}

func TestAnalyzeSentiment_MalformedReplies(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"score is a string", `{"sentiment":"positive","score":"high"}`},
		{"score above 1", `{"sentiment":"positive","score":1.7}`},
		{"score below -1", `{"sentiment":"negative","score":-2}`},
		{"missing label", `{"score":0.5}`},
		{"not json", `the text sounds pretty upbeat to me`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := testClient(t, http.StatusOK, tc.reply)
			_, err := c.AnalyzeSentiment(context.Background(), "some journal text here")
			if !errors.Is(err, apperr.ErrAnalysis) {
				t.Errorf("err = %v, want ErrAnalysis", err)
			}
		})
	}
}

func TestAnalyzeSentiment_EmptyTextRejectedWithoutCall(t *testing.T) {
	c, backend := testClient(t, http.StatusOK, `{"sentiment":"neutral","score":0}`)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := c.AnalyzeSentiment(context.Background(), text)
		if !errors.Is(err, apperr.ErrAnalysis) {
			t.Errorf("text %q: err = %v, want ErrAnalysis", text, err)
		}
	}
	if n := backend.calls.Load(); n != 0 {
		t.Errorf("backend calls = %d for empty text, want 0", n)
	}
}

func TestAnalyzeSentiment_UpstreamFailure(t *testing.T) {
	c, _ := testClient(t, http.StatusInternalServerError, "")
	_, err := c.AnalyzeSentiment(context.Background(), "some journal text here")
	if !errors.Is(err, apperr.ErrAnalysis) {
		t.Errorf("err = %v, want ErrAnalysis", err)
	}
}

func sampleEntries(t *testing.T) []models.JournalEntry {
	t.Helper()
	happy, _ := models.MoodByLabel("Happy")
	sad, _ := models.MoodByLabel("Sad")
	now := time.Now().UTC()
	return []models.JournalEntry{
		{
			ID:         "a",
			Timestamp:  now,
			Text:       "great run this morning",
			Mood:       happy,
			Activities: &models.Activities{Steps: 12000, ScreenTime: 120},
			Weather:    "Sunny",
		},
		{
			ID:        "b",
			Timestamp: now.Add(-24 * time.Hour),
			Mood:      sad,
			Weather:   "Rainy",
		},
	}
}

func TestGenerateInsights_Success(t *testing.T) {
	c, backend := testClient(t, http.StatusOK,
		`{"insights":["You tend to feel happier on days when you take more steps."]}`)

	insights, err := c.GenerateInsights(context.Background(), sampleEntries(t))
	if err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	if len(insights) != 1 || !strings.Contains(insights[0], "happier") {
		t.Errorf("insights = %v", insights)
	}

	// Entries travel projected: moods flattened to labels, ids dropped.
	prompt, _ := backend.lastPrompt.Load().(string)
	if !strings.Contains(prompt, `"mood":"Happy"`) {
		t.Errorf("prompt missing flattened mood label: %q", prompt)
	}
	if strings.Contains(prompt, `"id"`) {
		t.Errorf("prompt leaks entry ids: %q", prompt)
	}
}

func TestGenerateInsights_ZeroEntriesAccepted(t *testing.T) {
	c, _ := testClient(t, http.StatusOK, `{"insights":[]}`)

	insights, err := c.GenerateInsights(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateInsights with zero entries: %v", err)
	}
	if len(insights) != 0 {
		t.Errorf("insights = %v, want empty", insights)
	}
}

func TestGenerateInsights_MalformedReplies(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"missing field", `{"observations":["nope"]}`},
		{"null insights", `{"insights":null}`},
		{"wrong element type", `{"insights":[1,2,3]}`},
		{"not json", `here are some insights for you`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := testClient(t, http.StatusOK, tc.reply)
			_, err := c.GenerateInsights(context.Background(), sampleEntries(t))
			if !errors.Is(err, apperr.ErrGeneration) {
				t.Errorf("err = %v, want ErrGeneration", err)
			}
		})
	}
}

func TestGenerateInsights_UpstreamFailure(t *testing.T) {
	c, _ := testClient(t, http.StatusBadGateway, "")
	_, err := c.GenerateInsights(context.Background(), sampleEntries(t))
	if !errors.Is(err, apperr.ErrGeneration) {
		t.Errorf("err = %v, want ErrGeneration", err)
	}
}

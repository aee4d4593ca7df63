package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/starford/dagaz/internal/journal"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/testutil"
)

// recordingPublisher captures entry.created publications.
type recordingPublisher struct {
	mu  sync.Mutex
	ids []string
}

func (p *recordingPublisher) PublishEntryCreated(id, _ string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ids)
}

// testEnv sets up a seeded repository, a fake AI backend, and the router.
// authToken == "" means auth disabled.
func testEnv(t *testing.T, authToken, aiReply string) (*journal.Repository, http.Handler, *recordingPublisher) {
	t.Helper()
	repo := testutil.Repository(t)
	analyzer := testutil.ChatClient(t, http.StatusOK, aiReply)
	events := &recordingPublisher{}
	router := NewRouter(repo, analyzer, events, authToken != "", authToken, nil)
	return repo, router, events
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListEntries_Seeded(t *testing.T) {
	_, router, _ := testEnv(t, "", "{}")

	w := doJSON(t, router, http.MethodGet, "/entries", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d, body = %s", w.Code, w.Body.String())
	}
	var resp EntryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 3 || len(resp.Entries) != 3 {
		t.Errorf("total = %d, len = %d, want 3 seed entries", resp.Total, len(resp.Entries))
	}
	if resp.Entries[0].Mood.Label != "Excited" {
		t.Errorf("newest seed mood = %q, want Excited", resp.Entries[0].Mood.Label)
	}
}

func TestCreateEntry_SeedScenario(t *testing.T) {
	_, router, events := testEnv(t, "", "{}")

	w := doJSON(t, router, http.MethodPost, "/entries", map[string]any{
		"mood":       "Neutral",
		"text":       "ok day",
		"activities": map[string]int{"steps": 4000},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.JournalEntry
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || created.Mood.Label != "Neutral" || created.Mood.Emoji != "🙂" {
		t.Errorf("created = %+v", created)
	}

	w = doJSON(t, router, http.MethodGet, "/entries", nil)
	var resp EntryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 4 {
		t.Fatalf("total = %d, want 4", resp.Total)
	}
	if resp.Entries[0].ID != created.ID {
		t.Errorf("newest entry = %s, want %s", resp.Entries[0].ID, created.ID)
	}

	if events.count() != 1 {
		t.Errorf("entry.created publications = %d, want 1", events.count())
	}
}

func TestCreateEntry_Rejections(t *testing.T) {
	_, router, events := testEnv(t, "", "{}")

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing mood", map[string]any{"text": "no mood"}},
		{"unknown mood", map[string]any{"mood": "Ecstatic"}},
		{"negative steps", map[string]any{"mood": "Happy", "activities": map[string]int{"steps": -1}}},
		{"negative screen time", map[string]any{"mood": "Happy", "activities": map[string]int{"screenTime": -5}}},
		{"sentiment score out of range", map[string]any{
			"mood":      "Happy",
			"sentiment": map[string]any{"sentiment": "positive", "score": 2.0},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/entries", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", w.Code, w.Body.String())
			}
		})
	}

	if events.count() != 0 {
		t.Errorf("rejected creates published %d events, want 0", events.count())
	}
}

func TestCreateEntry_InvalidJSON(t *testing.T) {
	_, router, _ := testEnv(t, "", "{}")

	req := httptest.NewRequest(http.MethodPost, "/entries", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListMoods(t *testing.T) {
	_, router, _ := testEnv(t, "", "{}")

	w := doJSON(t, router, http.MethodGet, "/moods", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("moods = %d", w.Code)
	}
	var resp MoodListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Moods) != 7 {
		t.Errorf("len(moods) = %d, want 7", len(resp.Moods))
	}
}

func TestAnalyze_Success(t *testing.T) {
	_, router, _ := testEnv(t, "", `{"sentiment":"positive","score":0.9}`)

	w := doJSON(t, router, http.MethodPost, "/analysis", map[string]string{
		"text": "I had a wonderful, energizing day at the park",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("analyze = %d, body = %s", w.Code, w.Body.String())
	}
	var result models.Sentiment
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	if result.Sentiment != "positive" || result.Score <= 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	_, router, _ := testEnv(t, "", `{"sentiment":"neutral","score":0}`)

	w := doJSON(t, router, http.MethodPost, "/analysis", map[string]string{"text": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty text = %d, want 400", w.Code)
	}
}

func TestAnalyze_UpstreamFailure(t *testing.T) {
	repo := testutil.Repository(t)
	analyzer := testutil.ChatClient(t, http.StatusInternalServerError, "")
	router := NewRouter(repo, analyzer, nil, false, "", nil)

	w := doJSON(t, router, http.MethodPost, "/analysis", map[string]string{"text": "some text"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("failed analysis = %d, want 502", w.Code)
	}
}

func TestInsights_Success(t *testing.T) {
	_, router, _ := testEnv(t, "", `{"insights":["Your mood is generally positive when the weather is sunny."]}`)

	w := doJSON(t, router, http.MethodPost, "/insights", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("insights = %d, body = %s", w.Code, w.Body.String())
	}
	var resp InsightsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Insights) != 1 {
		t.Errorf("insights = %v", resp.Insights)
	}
}

func TestInsights_NotEnoughEntries(t *testing.T) {
	// Two entries persisted out of band, below the policy threshold.
	store := testutil.FileStore(t)
	happy, _ := models.MoodByLabel("Happy")
	sad, _ := models.MoodByLabel("Sad")
	data, _ := json.Marshal([]models.JournalEntry{
		{ID: "1", Mood: happy},
		{ID: "2", Mood: sad},
	})
	if err := store.Save(data); err != nil {
		t.Fatal(err)
	}
	repo := journal.NewRepository(store, testutil.Logger())
	repo.Load(context.Background())

	analyzer := testutil.ChatClient(t, http.StatusOK, `{"insights":["unused"]}`)
	router := NewRouter(repo, analyzer, nil, false, "", nil)

	w := doJSON(t, router, http.MethodPost, "/insights", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("insights below threshold = %d, want 409", w.Code)
	}
}

func TestInsights_UpstreamFailure(t *testing.T) {
	repo := testutil.Repository(t)
	analyzer := testutil.ChatClient(t, http.StatusServiceUnavailable, "")
	router := NewRouter(repo, analyzer, nil, false, "", nil)

	w := doJSON(t, router, http.MethodPost, "/insights", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("failed generation = %d, want 502", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123", "{}")

	req := httptest.NewRequest(http.MethodGet, "/entries", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed list = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123", "{}")

	w := doJSON(t, router, http.MethodGet, "/entries", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router, _ := testEnv(t, "secret123", "{}")

	req := httptest.NewRequest(http.MethodGet, "/entries", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router, _ := testEnv(t, "", "{}")

	w := doJSON(t, router, http.MethodGet, "/entries", nil)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

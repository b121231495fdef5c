package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/edugen/internal/account"
	"github.com/ziadkadry99/edugen/internal/audit"
	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/db"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/pipeline"
	"github.com/ziadkadry99/edugen/internal/vectordb"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

type stubAdapter struct {
	block    chan struct{}
	audioErr error
}

func (s *stubAdapter) GenerateExplanation(ctx context.Context, topic string, lang content.Language) (string, error) {
	if s.block != nil {
		<-s.block
	}
	return "# " + topic + "\n\nA lesson about **" + topic + "**.", nil
}

func (s *stubAdapter) GenerateQuiz(ctx context.Context, explanation string, lang content.Language) ([]content.QuizQuestion, error) {
	return []content.QuizQuestion{
		{ID: 1, Question: "One?", Options: content.Options{A: "a", B: "b", C: "c", D: "d"}, CorrectAnswer: content.OptionA},
		{ID: 2, Question: "Two?", Options: content.Options{A: "a", B: "b", C: "c", D: "d"}, CorrectAnswer: content.OptionD},
	}, nil
}

func (s *stubAdapter) GenerateSlideContent(ctx context.Context, explanation string, lang content.Language) ([]content.SlideContent, error) {
	return []content.SlideContent{{Title: "Intro", BulletPoints: []string{"x"}, ImagePrompt: "p"}}, nil
}

func (s *stubAdapter) GenerateSlideImage(ctx context.Context, prompt string, theme content.Theme) (string, error) {
	return "https://img.example/" + prompt, nil
}

func (s *stubAdapter) GenerateAudio(ctx context.Context, text string, lang content.Language) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if s.audioErr != nil {
		return "", "", s.audioErr
	}
	return "SUQz", "audio/mpeg", nil
}

func setupTest(t *testing.T) (*Dashboard, *stubAdapter) {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	adapter := &stubAdapter{}
	ws := workspace.New(workspace.Deps{
		Accounts: account.NewStore(account.NewMemoryMedium(0)),
		History:  history.NewStore(database),
		Audit:    audit.NewStore(database),
		Adapter:  adapter,
		Language: content.LanguageEnglish,
	})
	return New(ws, nil), adapter
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func waitFor(t *testing.T, d *Dashboard, step pipeline.Step) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for d.ws.Status().Step != step {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s, status %+v", step, d.ws.Status())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["error"]
}

func TestStateEndpoint(t *testing.T) {
	d, _ := setupTest(t)
	w := do(t, setupRouter(d), http.MethodGet, "/api/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var st stateResponse
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.User != nil || st.HasContent || st.Status.Step != pipeline.StepIdle {
		t.Errorf("unexpected state: %+v", st)
	}
	if st.Messages[string(i18n.TabQuiz)] != "Quiz" || len(st.Languages) != 3 || len(st.Themes) != 4 {
		t.Errorf("state catalog: %+v", st)
	}
}

func TestGenerateFlow(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	if w := do(t, r, http.MethodGet, "/api/content", nil); w.Code != http.StatusNotFound {
		t.Errorf("content before generation: %d", w.Code)
	}

	w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "Volcanoes", Theme: content.ThemePlayful})
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	waitFor(t, d, pipeline.StepCompleted)

	w = do(t, r, http.MethodGet, "/api/content", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view struct {
		Topic           string `json:"topic"`
		ExplanationHTML string `json:"explanationHtml"`
		Theme           string `json:"theme"`
		HasAudio        bool   `json:"hasAudio"`
		Quiz            []struct {
			ID      int `json:"id"`
			Options []struct {
				Key string `json:"key"`
			} `json:"options"`
		} `json:"quiz"`
	}
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.Topic != "Volcanoes" || view.Theme != "playful" || !view.HasAudio {
		t.Errorf("view = %+v", view)
	}
	if !strings.Contains(view.ExplanationHTML, "<strong>Volcanoes</strong>") {
		t.Errorf("explanation = %s", view.ExplanationHTML)
	}
	if len(view.Quiz) != 2 || len(view.Quiz[0].Options) != 4 {
		t.Errorf("quiz view = %+v", view.Quiz)
	}
	if strings.Contains(w.Body.String(), "correctAnswer") {
		t.Error("view must not leak answers")
	}
}

func TestGenerateValidation(t *testing.T) {
	d, adapter := setupTest(t)
	r := setupRouter(d)

	w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank topic: %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != i18n.T(content.LanguageEnglish, i18n.BlankTopic) {
		t.Errorf("message = %q", msg)
	}

	if w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "x", Language: "de"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad language: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad body: %d", rec.Code)
	}

	adapter.block = make(chan struct{})
	if w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "first"}); w.Code != http.StatusAccepted {
		t.Fatalf("first: %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "second"}); w.Code != http.StatusConflict {
		t.Errorf("busy: %d", w.Code)
	}
	close(adapter.block)
	waitFor(t, d, pipeline.StepCompleted)
}

func TestRejectedGenerateKeepsPreferences(t *testing.T) {
	d, adapter := setupTest(t)
	r := setupRouter(d)

	adapter.block = make(chan struct{})
	if w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "first"}); w.Code != http.StatusAccepted {
		t.Fatalf("first: %d", w.Code)
	}
	w := do(t, r, http.MethodPost, "/api/generate", generateRequest{
		Topic:    "second",
		Language: content.LanguageKazakh,
		Theme:    content.ThemeDark,
	})
	if w.Code != http.StatusConflict {
		t.Errorf("busy: %d", w.Code)
	}
	if got := d.ws.Language(); got != content.LanguageEnglish {
		t.Errorf("language = %q, want it unchanged", got)
	}
	if got := d.ws.Theme(); got == content.ThemeDark {
		t.Errorf("theme = %q, want it unchanged", got)
	}
	close(adapter.block)
	waitFor(t, d, pipeline.StepCompleted)
}

func TestRegenerateAudioSurvivesClientCancel(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)
	if _, err := d.ws.Generate(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/content/audio", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("regenerate after cancel: %d %s", w.Code, w.Body.String())
	}
	if st := d.ws.Status(); st.Step != pipeline.StepCompleted {
		t.Errorf("status = %+v", st)
	}
}

func TestQuizScore(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)
	if _, err := d.ws.Generate(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	w := do(t, r, http.MethodPost, "/api/quiz/score", scoreRequest{Answers: map[string]string{"1": "a", "2": "B"}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp scoreResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Correct != 1 || resp.Total != 2 || resp.Message != "Score: 1 / 2" {
		t.Errorf("score = %+v", resp)
	}

	if w := do(t, r, http.MethodPost, "/api/quiz/score", scoreRequest{Answers: map[string]string{"one": "A"}}); w.Code != http.StatusBadRequest {
		t.Errorf("bad id: %d", w.Code)
	}
}

func TestAudioAndExports(t *testing.T) {
	d, adapter := setupTest(t)
	r := setupRouter(d)
	if _, err := d.ws.Generate(context.Background(), "Solar System"); err != nil {
		t.Fatal(err)
	}

	w := do(t, r, http.MethodGet, "/api/content/audio", nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "audio/mpeg" || w.Body.String() != "ID3" {
		t.Errorf("audio: %d %q %q", w.Code, w.Header().Get("Content-Type"), w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "solar-system.mp3") {
		t.Errorf("disposition = %q", cd)
	}

	w = do(t, r, http.MethodGet, "/api/content/export/document", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h2>Explanation</h2>") {
		t.Errorf("document: %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/content/export/deck", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "solar-system_presentation_data.json") {
		t.Errorf("deck: %d %q", w.Code, w.Header().Get("Content-Disposition"))
	}

	adapter.audioErr = errors.New("tts down")
	w = do(t, r, http.MethodPost, "/api/content/audio", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("failed regenerate: %d", w.Code)
	}
	if !d.ws.Content().HasAudio() {
		t.Error("failed regenerate must keep the old narration")
	}

	adapter.audioErr = nil
	if w := do(t, r, http.MethodPost, "/api/content/audio", nil); w.Code != http.StatusOK {
		t.Errorf("regenerate: %d", w.Code)
	}
}

func TestThemeEndpoint(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)
	if w := do(t, r, http.MethodPut, "/api/content/theme", themeRequest{Theme: content.ThemeDark}); w.Code != http.StatusNotFound {
		t.Errorf("theme without lesson: %d", w.Code)
	}
	_, _ = d.ws.Generate(context.Background(), "x")
	if w := do(t, r, http.MethodPut, "/api/content/theme", themeRequest{Theme: content.ThemeDark}); w.Code != http.StatusOK {
		t.Errorf("theme: %d", w.Code)
	}
	if d.ws.Content().Theme != content.ThemeDark {
		t.Error("theme not applied")
	}
	if w := do(t, r, http.MethodPut, "/api/content/theme", themeRequest{Theme: "neon"}); w.Code != http.StatusBadRequest {
		t.Errorf("bad theme: %d", w.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	w := do(t, r, http.MethodPost, "/api/auth/login", loginRequest{Email: "a@example.com"})
	if w.Code != http.StatusNotFound || errorMessage(t, w) != i18n.T(content.LanguageEnglish, i18n.UserNotFound) {
		t.Errorf("unknown login: %d", w.Code)
	}

	if w := do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "", Email: "bad"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid signup: %d", w.Code)
	}

	w = do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "Aruzhan", Email: "a@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	var resp userResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.User == nil || !resp.User.IsFirstLogin || resp.Message != "Welcome, Aruzhan!" {
		t.Errorf("signup response = %+v", resp)
	}

	if w := do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "B", Email: "A@example.com"}); w.Code != http.StatusConflict {
		t.Errorf("duplicate signup: %d", w.Code)
	}

	if w := do(t, r, http.MethodPost, "/api/auth/onboarding", nil); w.Code != http.StatusNoContent {
		t.Errorf("onboarding: %d", w.Code)
	}
	w = do(t, r, http.MethodGet, "/api/auth/me", nil)
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.User == nil || resp.User.IsFirstLogin {
		t.Errorf("me = %+v", resp.User)
	}

	if w := do(t, r, http.MethodPost, "/api/auth/logout", nil); w.Code != http.StatusNoContent {
		t.Errorf("logout: %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/auth/onboarding", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("onboarding signed out: %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/auth/login", loginRequest{Email: "A@EXAMPLE.COM"}); w.Code != http.StatusOK {
		t.Errorf("login: %d", w.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	w := do(t, r, http.MethodGet, "/api/history", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("signed out history: %d %s", w.Code, w.Body.String())
	}
	if w := do(t, r, http.MethodPost, "/api/history/x/select", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("select signed out: %d", w.Code)
	}

	_ = do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "A", Email: "a@example.com"})
	_, _ = d.ws.Generate(context.Background(), "Rivers")

	w = do(t, r, http.MethodGet, "/api/history", nil)
	var items []history.Summary
	if err := json.NewDecoder(w.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Topic != "Rivers" || items[0].Language != content.LanguageEnglish {
		t.Fatalf("history = %+v", items)
	}

	if w := do(t, r, http.MethodPost, "/api/history/"+items[0].ID+"/select", nil); w.Code != http.StatusOK {
		t.Errorf("select: %d", w.Code)
	}
	if st := d.ws.Status(); st.Message != i18n.T(content.LanguageEnglish, i18n.HistoryLoaded) {
		t.Errorf("status after select = %+v", st)
	}
	if w := do(t, r, http.MethodPost, "/api/history/missing/select", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing: %d", w.Code)
	}
}

func TestRunsEndpoint(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	w := do(t, r, http.MethodGet, "/api/runs", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("signed out runs: %d %s", w.Code, w.Body.String())
	}

	_ = do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "A", Email: "a@example.com"})
	for _, topic := range []string{"Rivers", "Lakes"} {
		if _, err := d.ws.Generate(context.Background(), topic); err != nil {
			t.Fatal(err)
		}
	}

	w = do(t, r, http.MethodGet, "/api/runs?limit=1", nil)
	var runs []audit.Entry
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Topic != "Lakes" || runs[0].Outcome != audit.OutcomeCompleted {
		t.Fatalf("runs = %+v", runs)
	}

	if w := do(t, r, http.MethodGet, "/api/runs?limit=zero", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: %d", w.Code)
	}
}

// wordEmbedder embeds texts by counting a few geography words.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	words := []string{"river", "lake", "mountain"}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := []float32{0, 0, 0, 0.1}
		for j, word := range words {
			vec[j] = float32(strings.Count(lower, word))
		}
		out[i] = vec
	}
	return out, nil
}

func (wordEmbedder) Dimensions() int { return 4 }
func (wordEmbedder) Name() string    { return "test/words" }

func TestSearchEndpoint(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	index, err := vectordb.NewIndex(wordEmbedder{})
	if err != nil {
		t.Fatal(err)
	}
	ws := workspace.New(workspace.Deps{
		Accounts: account.NewStore(account.NewMemoryMedium(0)),
		History:  history.NewStore(database),
		Index:    index,
		Adapter:  &stubAdapter{},
		Language: content.LanguageEnglish,
	})
	r := setupRouter(New(ws, nil))

	if w := do(t, r, http.MethodGet, "/api/history/search?q=river", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("signed out search: %d", w.Code)
	}

	_ = do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "A", Email: "a@example.com"})
	for _, topic := range []string{"Rivers", "Lakes"} {
		if _, err := ws.Generate(context.Background(), topic); err != nil {
			t.Fatal(err)
		}
	}

	w := do(t, r, http.MethodGet, "/api/history/search?q=lake+shores&limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: %d %s", w.Code, w.Body.String())
	}
	var hits []vectordb.Hit
	if err := json.NewDecoder(w.Body).Decode(&hits); err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Topic != "Lakes" || hits[0].Language != content.LanguageEnglish {
		t.Fatalf("hits = %+v", hits)
	}

	if w := do(t, r, http.MethodGet, "/api/history/search?q=", nil); w.Code != http.StatusBadRequest {
		t.Errorf("empty query: %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/history/search?q=x&limit=-2", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: %d", w.Code)
	}
}

func TestSearchDisabled(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)
	_ = do(t, r, http.MethodPost, "/api/auth/signup", signupRequest{Name: "A", Email: "a@example.com"})

	if w := do(t, r, http.MethodGet, "/api/history/search?q=river", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("search without index: %d", w.Code)
	}
}

func TestPreferences(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)
	w := do(t, r, http.MethodPut, "/api/preferences", preferencesRequest{Language: content.LanguageKazakh, Theme: content.ThemeClassic})
	if w.Code != http.StatusOK {
		t.Fatalf("preferences: %d", w.Code)
	}
	var st stateResponse
	_ = json.NewDecoder(w.Body).Decode(&st)
	if st.Language != content.LanguageKazakh || st.Theme != content.ThemeClassic {
		t.Errorf("state = %+v", st)
	}
	if st.Messages[string(i18n.TabText)] != i18n.T(content.LanguageKazakh, i18n.TabText) {
		t.Error("messages should follow the language")
	}
}

func TestWebSocketProgress(t *testing.T) {
	d, _ := setupTest(t)
	r := setupRouter(d)

	server := httptest.NewServer(r)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	var msg progressMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "status" || msg.Status.Step != pipeline.StepIdle {
		t.Fatalf("first message = %+v", msg)
	}

	if w := do(t, r, http.MethodPost, "/api/generate", generateRequest{Topic: "x"}); w.Code != http.StatusAccepted {
		t.Fatalf("generate: %d", w.Code)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	last := 0
	for {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Status.Progress < last {
			t.Errorf("progress went backwards: %d after %d", msg.Status.Progress, last)
		}
		last = msg.Status.Progress
		if msg.Status.Step == pipeline.StepCompleted {
			break
		}
	}
}

func TestHubDropsForSlowClients(t *testing.T) {
	h := newHub(logger.Nop())
	ch := h.register()
	for i := 0; i < clientBuffer+5; i++ {
		h.broadcast(pipeline.Status{Progress: i})
	}
	if len(ch) != clientBuffer {
		t.Errorf("buffered %d, want %d", len(ch), clientBuffer)
	}
	if first := <-ch; first.Progress != 0 {
		t.Errorf("oldest event should be kept, got %d", first.Progress)
	}
	h.unregister(ch)
	h.broadcast(pipeline.Status{})
}

func TestServeIndex(t *testing.T) {
	d, _ := setupTest(t)
	w := do(t, setupRouter(d), http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("expected text/html content type, got %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if !strings.Contains(w.Body.String(), "/ws/progress") {
		t.Error("expected the page to open the progress stream")
	}
}

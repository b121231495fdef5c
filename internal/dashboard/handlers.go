package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/edugen/internal/account"
	"github.com/ziadkadry99/edugen/internal/audit"
	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/export"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/media"
	"github.com/ziadkadry99/edugen/internal/pipeline"
	"github.com/ziadkadry99/edugen/internal/presentation"
	"github.com/ziadkadry99/edugen/internal/vectordb"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

// stateResponse is the JSON response for the state endpoint.
type stateResponse struct {
	User       *account.User      `json:"user"`
	Language   content.Language   `json:"language"`
	Theme      content.Theme      `json:"theme"`
	Status     pipeline.Status    `json:"status"`
	HasContent bool               `json:"hasContent"`
	Messages   map[string]string  `json:"messages"`
	Languages  []content.Language `json:"languages"`
	Themes     []content.Theme    `json:"themes"`
}

type generateRequest struct {
	Topic    string           `json:"topic"`
	Language content.Language `json:"language,omitempty"`
	Theme    content.Theme    `json:"theme,omitempty"`
}

type preferencesRequest struct {
	Language content.Language `json:"language,omitempty"`
	Theme    content.Theme    `json:"theme,omitempty"`
}

type themeRequest struct {
	Theme content.Theme `json:"theme"`
}

type scoreRequest struct {
	Answers map[string]string `json:"answers"`
}

type scoreResponse struct {
	presentation.Score
	Message string `json:"message"`
}

type signupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	User    *account.User `json:"user"`
	Message string        `json:"message,omitempty"`
}

func (d *Dashboard) state() stateResponse {
	lang := d.ws.Language()
	resp := stateResponse{
		Language:   lang,
		Theme:      d.ws.Theme(),
		Status:     d.ws.Status(),
		HasContent: d.ws.Content() != nil,
		Messages:   i18n.Bundle(lang),
		Languages:  content.Languages,
		Themes:     content.Themes,
	}
	if u, ok := d.ws.User(); ok {
		resp.User = &u
	}
	return resp
}

func (d *Dashboard) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, d.state())
}

func (d *Dashboard) handlePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if !decode(w, r, &req) {
		return
	}
	if d.ws.Status().Step.Busy() {
		writeError(w, http.StatusConflict, d.msg(i18n.Busy))
		return
	}
	if req.Language != "" {
		if err := d.ws.SetLanguage(req.Language); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Theme != "" {
		if err := d.ws.SetTheme(r.Context(), req.Theme); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, d.state())
}

func (d *Dashboard) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, d.msg(i18n.BlankTopic))
		return
	}
	if d.ws.Status().Step.Busy() {
		writeError(w, http.StatusConflict, d.msg(i18n.Busy))
		return
	}
	if req.Language != "" {
		if err := d.ws.SetLanguage(req.Language); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Theme != "" {
		if err := d.ws.SetTheme(r.Context(), req.Theme); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// The run outlives the request; progress is reported over the websocket.
	done, err := d.ws.StartGenerate(context.WithoutCancel(r.Context()), req.Topic)
	switch {
	case errors.Is(err, pipeline.ErrBlankTopic):
		writeError(w, http.StatusBadRequest, d.msg(i18n.BlankTopic))
		return
	case errors.Is(err, pipeline.ErrBusy):
		writeError(w, http.StatusConflict, d.msg(i18n.Busy))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go func() {
		if out := <-done; out.Err != nil {
			d.log.Warn("dashboard generation failed", "error", out.Err)
		}
	}()
	writeJSON(w, http.StatusAccepted, d.ws.Status())
}

func (d *Dashboard) current(w http.ResponseWriter) (*content.GeneratedContent, bool) {
	c := d.ws.Content()
	if c == nil {
		writeError(w, http.StatusNotFound, "no lesson loaded")
		return nil, false
	}
	return c, true
}

func (d *Dashboard) writeView(w http.ResponseWriter, c *content.GeneratedContent) {
	view, err := presentation.NewView(c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (d *Dashboard) handleContent(w http.ResponseWriter, r *http.Request) {
	if c, ok := d.current(w); ok {
		d.writeView(w, c)
	}
}

func (d *Dashboard) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := d.ws.SetTheme(r.Context(), req.Theme); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if c, ok := d.current(w); ok {
		d.writeView(w, c)
	}
}

func (d *Dashboard) handleRegenerateAudio(w http.ResponseWriter, r *http.Request) {
	// The retry runs to completion even if the client goes away.
	err := d.ws.RegenerateAudio(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, pipeline.ErrNoContent):
		writeError(w, http.StatusNotFound, "no lesson loaded")
		return
	case errors.Is(err, pipeline.ErrBusy):
		writeError(w, http.StatusConflict, d.msg(i18n.Busy))
		return
	case errors.Is(err, pipeline.ErrNarrationUnavailable):
		writeError(w, http.StatusBadGateway, d.msg(i18n.AudioFailed))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c, ok := d.current(w); ok {
		d.writeView(w, c)
	}
}

func (d *Dashboard) handleAudioDownload(w http.ResponseWriter, r *http.Request) {
	c, ok := d.current(w)
	if !ok {
		return
	}
	data, mimeType, err := presentation.DecodeAudio(c)
	if err != nil {
		writeError(w, http.StatusNotFound, d.msg(i18n.NoNarration))
		return
	}
	attach(w, mimeType, export.Filename(c.Topic, media.Extension(mimeType)), data)
}

func (d *Dashboard) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	c, ok := d.current(w)
	if !ok {
		return
	}
	body, err := export.Document(c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	attach(w, "text/html; charset=utf-8", export.Filename(c.Topic, export.DocumentSuffix), body)
}

func (d *Dashboard) handleExportDeck(w http.ResponseWriter, r *http.Request) {
	c, ok := d.current(w)
	if !ok {
		return
	}
	body, err := export.Deck(c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	attach(w, "application/json", export.Filename(c.Topic, export.DeckSuffix), body)
}

func (d *Dashboard) handleScore(w http.ResponseWriter, r *http.Request) {
	c, ok := d.current(w)
	if !ok {
		return
	}
	var req scoreRequest
	if !decode(w, r, &req) {
		return
	}
	answers := make(map[int]content.OptionKey, len(req.Answers))
	for id, key := range req.Answers {
		n, err := strconv.Atoi(id)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid question id %q", id))
			return
		}
		if k, ok := content.ParseOptionKey(key); ok {
			answers[n] = k
		}
	}
	score := presentation.ScoreQuiz(c.Quiz, answers)
	writeJSON(w, http.StatusOK, scoreResponse{
		Score:   score,
		Message: fmt.Sprintf(i18n.T(c.Language, i18n.QuizScore), score.Correct, score.Total),
	})
}

func (d *Dashboard) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := d.ws.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]history.Summary, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

// handleRuns lists recent generation runs; ?limit= caps the count (default 20).
func (d *Dashboard) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := d.ws.Runs(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (d *Dashboard) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := vectordb.DefaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	hits, err := d.ws.Search(r.Context(), q.Get("q"), limit)
	switch {
	case errors.Is(err, workspace.ErrSignedOut):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, vectordb.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "q is required")
		return
	case errors.Is(err, workspace.ErrSearchDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hits == nil {
		hits = []vectordb.Hit{}
	}
	writeJSON(w, http.StatusOK, hits)
}

func (d *Dashboard) handleSelectHistory(w http.ResponseWriter, r *http.Request) {
	c, err := d.ws.SelectHistory(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, workspace.ErrSignedOut):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, history.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pipeline.ErrBusy):
		writeError(w, http.StatusConflict, d.msg(i18n.Busy))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	d.writeView(w, c)
}

func (d *Dashboard) handleMe(w http.ResponseWriter, r *http.Request) {
	var resp userResponse
	if u, ok := d.ws.User(); ok {
		resp.User = &u
	}
	writeJSON(w, http.StatusOK, resp)
}

func (d *Dashboard) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := d.ws.Signup(req.Name, req.Email)
	if err != nil {
		d.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{User: &u, Message: fmt.Sprintf(d.msg(i18n.Welcome), u.Name)})
}

func (d *Dashboard) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	u, ok, err := d.ws.Login(req.Email)
	if err != nil {
		d.writeAccountError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, d.msg(i18n.UserNotFound))
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: &u, Message: fmt.Sprintf(d.msg(i18n.Welcome), u.Name)})
}

func (d *Dashboard) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := d.ws.Logout(); err != nil {
		d.writeAccountError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	err := d.ws.MarkOnboardingSeen()
	if errors.Is(err, workspace.ErrSignedOut) {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		d.writeAccountError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) writeAccountError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, d.msg(i18n.InvalidSignup))
	case errors.Is(err, account.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, d.msg(i18n.EmailTaken))
	case errors.Is(err, account.ErrStorageExhausted):
		writeError(w, http.StatusInsufficientStorage, d.msg(i18n.StorageFull))
	default:
		d.log.Error("account storage failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (d *Dashboard) msg(key i18n.Key) string {
	return i18n.T(d.ws.Language(), key)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(filename)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

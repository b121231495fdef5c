// Package workspace is the session context shared by the CLI, the
// dashboard and the MCP server: the signed-in user, the selected language
// and theme, the generation pipeline and the user's history.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ziadkadry99/edugen/internal/account"
	"github.com/ziadkadry99/edugen/internal/audit"
	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/pipeline"
	"github.com/ziadkadry99/edugen/internal/provider"
)

// ErrSignedOut is returned by operations that need a user.
var ErrSignedOut = errors.New("workspace: no user signed in")

// Deps are the collaborators of a Workspace.
type Deps struct {
	Accounts *account.Store
	History  *history.Store
	Audit    *audit.Store
	Notifier Notifier
	Index    LessonIndex // optional
	Adapter  provider.Adapter
	Logger   *logger.Logger

	Language            content.Language
	Theme               content.Theme
	PlaceholderImage    string
	PersistThemeChanges bool
}

// Workspace holds the state of one session.
type Workspace struct {
	accounts *account.Store
	history  *history.Store
	audit    *audit.Store
	notifier Notifier
	index    LessonIndex
	pipeline *pipeline.Pipeline
	log      *logger.Logger

	mu       sync.RWMutex
	user     *account.User
	language content.Language
	theme    content.Theme
}

// New creates a Workspace. Call Init to restore a stored session.
func New(d Deps) *Workspace {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	lang := d.Language
	if !lang.Valid() {
		lang = content.DefaultLanguage
	}
	theme := d.Theme
	if !theme.Valid() {
		theme = content.DefaultTheme
	}

	w := &Workspace{
		accounts: d.Accounts,
		history:  d.History,
		audit:    d.Audit,
		notifier: d.Notifier,
		index:    d.Index,
		log:      log,
		language: lang,
		theme:    theme,
	}
	pc := pipeline.Config{
		Adapter:             d.Adapter,
		Session:             w,
		Logger:              log,
		PlaceholderImage:    d.PlaceholderImage,
		PersistThemeChanges: d.PersistThemeChanges,
	}
	switch {
	case d.History != nil && d.Index != nil:
		pc.Recorder = indexingRecorder{history: d.History, index: d.Index, log: log}
	case d.History != nil:
		pc.Recorder = d.History
	}
	w.pipeline = pipeline.New(pc)
	return w
}

// Init restores the stored session, if any.
func (w *Workspace) Init() (account.User, bool, error) {
	u, ok, err := w.accounts.Current()
	if err != nil {
		return account.User{}, false, fmt.Errorf("restoring session: %w", err)
	}
	w.mu.Lock()
	if ok {
		w.user = &u
	} else {
		w.user = nil
	}
	w.mu.Unlock()
	return u, ok, nil
}

// CurrentUserID reports the signed-in user.
func (w *Workspace) CurrentUserID() (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.user == nil {
		return "", false
	}
	return w.user.ID, true
}

// User returns the signed-in user.
func (w *Workspace) User() (account.User, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.user == nil {
		return account.User{}, false
	}
	return *w.user, true
}

// Language is the selected lesson language.
func (w *Workspace) Language() content.Language {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.language
}

// Theme is the selected lesson theme.
func (w *Workspace) Theme() content.Theme {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.theme
}

// Pipeline exposes the generation pipeline for status subscriptions.
func (w *Workspace) Pipeline() *pipeline.Pipeline {
	return w.pipeline
}

// Status is the pipeline status.
func (w *Workspace) Status() pipeline.Status {
	return w.pipeline.Status()
}

// Content is a copy of the current lesson, or nil.
func (w *Workspace) Content() *content.GeneratedContent {
	return w.pipeline.Content()
}

// SetLanguage selects the language of the next lesson.
func (w *Workspace) SetLanguage(lang content.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	w.mu.Lock()
	w.language = lang
	w.mu.Unlock()
	return nil
}

// SetTheme selects the theme and applies it to the current lesson.
func (w *Workspace) SetTheme(ctx context.Context, theme content.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unsupported theme %q", theme)
	}
	w.mu.Lock()
	w.theme = theme
	w.mu.Unlock()

	if err := w.pipeline.SetTheme(ctx, theme); err != nil && !errors.Is(err, pipeline.ErrNoContent) {
		return err
	}
	return nil
}

// Generate runs the pipeline for topic with the selected language and theme.
func (w *Workspace) Generate(ctx context.Context, topic string) (*content.GeneratedContent, error) {
	req := w.request(topic)
	run := w.beginRun(audit.ActionGenerate, req)
	lesson, err := w.pipeline.Run(ctx, req)
	w.endRun(ctx, run, err)
	return lesson, err
}

// StartGenerate is Generate without waiting for the run to finish.
func (w *Workspace) StartGenerate(ctx context.Context, topic string) (<-chan pipeline.Outcome, error) {
	req := w.request(topic)
	run := w.beginRun(audit.ActionGenerate, req)
	done, err := w.pipeline.Start(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make(chan pipeline.Outcome, 1)
	go func() {
		o := <-done
		w.endRun(ctx, run, o.Err)
		out <- o
		close(out)
	}()
	return out, nil
}

// RegenerateAudio retries narration for the current lesson.
func (w *Workspace) RegenerateAudio(ctx context.Context) error {
	var req pipeline.Request
	if c := w.pipeline.Content(); c != nil {
		req = pipeline.Request{Topic: c.Topic, Language: c.Language}
	}
	run := w.beginRun(audit.ActionRegenerateAudio, req)
	err := w.pipeline.RegenerateAudio(ctx)
	w.endRun(ctx, run, err)
	return err
}

func (w *Workspace) request(topic string) pipeline.Request {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return pipeline.Request{Topic: topic, Language: w.language, Theme: w.theme}
}

// History lists the signed-in user's lessons, newest first. Signed out, it
// is empty.
func (w *Workspace) History(ctx context.Context) ([]history.Record, error) {
	userID, ok := w.CurrentUserID()
	if !ok || w.history == nil {
		return nil, nil
	}
	return w.history.List(ctx, userID)
}

// Lesson fetches one of the signed-in user's records without loading it.
func (w *Workspace) Lesson(ctx context.Context, id string) (history.Record, error) {
	userID, ok := w.CurrentUserID()
	if !ok {
		return history.Record{}, ErrSignedOut
	}
	if w.history == nil {
		return history.Record{}, history.ErrNotFound
	}
	return w.history.Get(ctx, userID, id)
}

// SelectHistory makes a stored lesson current and adopts its language and
// theme.
func (w *Workspace) SelectHistory(ctx context.Context, id string) (*content.GeneratedContent, error) {
	rec, err := w.Lesson(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.pipeline.Load(rec); err != nil {
		return nil, err
	}
	lesson := w.pipeline.Content()
	w.mu.Lock()
	w.theme = lesson.Theme
	if lesson.Language.Valid() {
		w.language = lesson.Language
	}
	w.mu.Unlock()
	return lesson, nil
}

// Login signs in the user registered under email.
func (w *Workspace) Login(email string) (account.User, bool, error) {
	u, ok, err := w.accounts.Login(email)
	if err != nil || !ok {
		return u, ok, err
	}
	w.setUser(&u)
	w.log.Info("user signed in", "user", u.ID)
	return u, true, nil
}

// Signup registers and signs in a new user.
func (w *Workspace) Signup(name, email string) (account.User, error) {
	u, err := w.accounts.Signup(name, email)
	if err != nil {
		return account.User{}, err
	}
	w.setUser(&u)
	w.log.Info("user signed up", "user", u.ID)
	return u, nil
}

// Logout ends the session and clears the current lesson. A running
// generation keeps going but is no longer saved.
func (w *Workspace) Logout() error {
	if err := w.accounts.Logout(); err != nil {
		return err
	}
	w.setUser(nil)
	if err := w.pipeline.Reset(); err != nil {
		w.log.Debug("pipeline busy during logout, lesson kept until the run ends")
	}
	return nil
}

// MarkOnboardingSeen clears the first-login flag of the signed-in user.
func (w *Workspace) MarkOnboardingSeen() error {
	userID, ok := w.CurrentUserID()
	if !ok {
		return ErrSignedOut
	}
	if err := w.accounts.MarkOnboardingSeen(userID); err != nil {
		return err
	}
	w.mu.Lock()
	if w.user != nil && w.user.ID == userID {
		w.user.IsFirstLogin = false
	}
	w.mu.Unlock()
	return nil
}

func (w *Workspace) setUser(u *account.User) {
	w.mu.Lock()
	w.user = u
	w.mu.Unlock()
}

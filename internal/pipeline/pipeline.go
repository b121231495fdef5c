package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/media"
	"github.com/ziadkadry99/edugen/internal/provider"
)

// Config wires a Pipeline.
type Config struct {
	Adapter  provider.Adapter
	Recorder Recorder // optional
	Session  Session  // optional
	Logger   *logger.Logger

	// PlaceholderImage replaces a slide image whose generation failed.
	PlaceholderImage string
	// PersistThemeChanges stores a new snapshot on every SetTheme.
	PersistThemeChanges bool
}

// Pipeline owns the current lesson and the status of its generation.
type Pipeline struct {
	cfg Config
	log *logger.Logger
	now func() time.Time

	// pub serializes transitions so observers see them in publish order.
	pub sync.Mutex

	mu        sync.Mutex
	status    Status
	lang      content.Language
	lesson    *content.GeneratedContent
	savedID   string
	observers map[int]Observer
	nextObs   int
}

// New creates an idle Pipeline.
func New(cfg Config) *Pipeline {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	p := &Pipeline{
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		lang:      content.DefaultLanguage,
		observers: make(map[int]Observer),
	}
	p.status = p.checkpoint(StepIdle, content.DefaultLanguage)
	return p
}

// Subscribe registers obs and returns a function that removes it.
// Observers run on the publishing goroutine and must not publish.
func (p *Pipeline) Subscribe(obs Observer) (cancel func()) {
	p.mu.Lock()
	id := p.nextObs
	p.nextObs++
	p.observers[id] = obs
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.observers, id)
		p.mu.Unlock()
	}
}

// Status returns the current status.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Content returns a copy of the current lesson, or nil.
func (p *Pipeline) Content() *content.GeneratedContent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lesson.Clone()
}

// Busy reports whether a run or narration retry is in flight.
func (p *Pipeline) Busy() bool {
	return p.Status().Step.Busy()
}

func (p *Pipeline) checkpoint(step Step, lang content.Language) Status {
	return Status{Step: step, Message: i18n.T(lang, policies[step].message), Progress: policies[step].progress}
}

// transition applies mutate and publishes st. When guard is set the
// transition is refused while the pipeline is busy. mutate runs under the
// state lock and may return an error to refuse the transition.
func (p *Pipeline) transition(st Status, lang content.Language, guard bool, mutate func() error) error {
	p.pub.Lock()
	defer p.pub.Unlock()

	p.mu.Lock()
	if guard && p.status.Step.Busy() {
		p.mu.Unlock()
		return ErrBusy
	}
	if mutate != nil {
		if err := mutate(); err != nil {
			p.mu.Unlock()
			return err
		}
	}
	p.status = st
	p.lang = lang
	observers := make([]Observer, 0, len(p.observers))
	for i := 0; i < p.nextObs; i++ {
		if obs, ok := p.observers[i]; ok {
			observers = append(observers, obs)
		}
	}
	p.mu.Unlock()

	for _, obs := range observers {
		obs(st)
	}
	return nil
}

func (p *Pipeline) publish(step Step, lang content.Language) {
	_ = p.transition(p.checkpoint(step, lang), lang, false, nil)
}

// Run generates a lesson for req and blocks until it completes or fails.
func (p *Pipeline) Run(ctx context.Context, req Request) (*content.GeneratedContent, error) {
	req, err := p.begin(req)
	if err != nil {
		return nil, err
	}
	return p.execute(ctx, req)
}

// Outcome is the result of a run started with Start.
type Outcome struct {
	Content *content.GeneratedContent
	Err     error
}

// Start claims the pipeline like Run but generates in the background. The
// channel receives exactly one Outcome.
func (p *Pipeline) Start(ctx context.Context, req Request) (<-chan Outcome, error) {
	req, err := p.begin(req)
	if err != nil {
		return nil, err
	}
	done := make(chan Outcome, 1)
	go func() {
		c, err := p.execute(ctx, req)
		done <- Outcome{Content: c, Err: err}
		close(done)
	}()
	return done, nil
}

// begin validates req, fills in defaults and moves the pipeline to TEXT.
func (p *Pipeline) begin(req Request) (Request, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return req, ErrBlankTopic
	}
	if !req.Language.Valid() {
		req.Language = content.DefaultLanguage
	}
	if !req.Theme.Valid() {
		req.Theme = content.DefaultTheme
	}

	err := p.transition(p.checkpoint(StepText, req.Language), req.Language, true, func() error {
		p.lesson = nil
		p.savedID = ""
		return nil
	})
	return req, err
}

func (p *Pipeline) execute(ctx context.Context, req Request) (*content.GeneratedContent, error) {
	topic, lang, theme := req.Topic, req.Language, req.Theme

	log := p.log.With("topic", topic, "language", string(lang))
	log.Info("generation started", "theme", string(theme))

	explanation, err := p.cfg.Adapter.GenerateExplanation(ctx, topic, lang)
	if err != nil {
		return nil, p.fail(log, StepText, lang, err)
	}

	p.publish(StepQuiz, lang)
	quiz, err := p.cfg.Adapter.GenerateQuiz(ctx, explanation, lang)
	if err != nil {
		if !degrades(StepQuiz, err) {
			return nil, p.fail(log, StepQuiz, lang, err)
		}
		log.Warn("quiz degraded to empty", "error", err)
		quiz = nil
	}

	p.publish(StepSlidesText, lang)
	slides, err := p.cfg.Adapter.GenerateSlideContent(ctx, explanation, lang)
	if err != nil {
		if !degrades(StepSlidesText, err) {
			return nil, p.fail(log, StepSlidesText, lang, err)
		}
		log.Warn("slides degraded to empty", "error", err)
		slides = nil
	}

	p.publish(StepImages, lang)
	slides = p.illustrate(ctx, log, slides, theme)

	p.publish(StepAudio, lang)
	audio, mimeType, err := p.narrate(ctx, explanation, lang)
	if err != nil {
		log.Warn("narration skipped", "error", err)
		audio, mimeType = "", ""
	}

	lesson := &content.GeneratedContent{
		Topic:       topic,
		Explanation: explanation,
		Quiz:        quiz,
		Slides:      slides,
		Theme:       theme,
		Language:    lang,
		CreatedAt:   p.now().UTC(),
	}
	lesson = lesson.WithAudio(audio, mimeType)

	_ = p.transition(p.checkpoint(StepCompleted, lang), lang, false, func() error {
		p.lesson = lesson.Clone()
		return nil
	})
	log.Info("generation completed", "quiz", len(quiz), "slides", len(slides), "audio", lesson.HasAudio())

	p.persist(ctx, log, lesson)
	return lesson, nil
}

func (p *Pipeline) fail(log *logger.Logger, step Step, lang content.Language, err error) error {
	log.Error("generation failed", "step", string(step), "error", err)
	p.mu.Lock()
	progress := p.status.Progress
	p.mu.Unlock()

	st := Status{Step: StepError, Message: i18n.T(lang, i18n.StatusError), Progress: progress}
	_ = p.transition(st, lang, false, nil)
	return &RunError{Step: step, Err: err}
}

// illustrate fetches one image per slide concurrently. Failed slides get
// the placeholder for their index.
func (p *Pipeline) illustrate(ctx context.Context, log *logger.Logger, slides []content.SlideContent, theme content.Theme) []content.SlideContent {
	if len(slides) == 0 {
		return slides
	}
	out := make([]content.SlideContent, len(slides))
	copy(out, slides)

	var g errgroup.Group
	for i := range out {
		g.Go(func() error {
			url, err := p.cfg.Adapter.GenerateSlideImage(ctx, out[i].ImagePrompt, theme)
			if err != nil {
				log.Warn("slide image failed, using placeholder", "slide", i, "error", err)
				url = media.FallbackURL(p.cfg.PlaceholderImage, i)
			}
			out[i].ImageURL = url
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// narrate returns "" without calling the backend when the explanation has
// nothing to speak.
func (p *Pipeline) narrate(ctx context.Context, explanation string, lang content.Language) (string, string, error) {
	text := provider.NormalizeForSpeech(explanation)
	if text == "" {
		return "", "", nil
	}
	return p.cfg.Adapter.GenerateAudio(ctx, text, lang)
}

func (p *Pipeline) persist(ctx context.Context, log *logger.Logger, lesson *content.GeneratedContent) {
	p.setSaved("")
	if p.cfg.Recorder == nil || p.cfg.Session == nil {
		return
	}
	userID, ok := p.cfg.Session.CurrentUserID()
	if !ok {
		return
	}
	rec, err := p.cfg.Recorder.Save(ctx, userID, lesson)
	if err != nil {
		log.Warn("saving lesson to history failed", "error", err)
		return
	}
	p.setSaved(rec.ID)
	log.Debug("lesson saved to history", "id", rec.ID)
}

func (p *Pipeline) setSaved(id string) {
	p.mu.Lock()
	p.savedID = id
	p.mu.Unlock()
}

// SavedID is the history record written for the current lesson by the last
// save attempt. It is empty when that attempt failed or nobody was signed in.
func (p *Pipeline) SavedID() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savedID, p.savedID != ""
}

// RegenerateAudio re-narrates the current lesson. On failure the lesson is
// left as it was and the previous status returns with an error message.
func (p *Pipeline) RegenerateAudio(ctx context.Context) error {
	var (
		prev        Status
		explanation string
		lang        content.Language
	)
	p.mu.Lock()
	if p.lesson != nil {
		lang = p.lesson.Language
	}
	p.mu.Unlock()
	if !lang.Valid() {
		lang = content.DefaultLanguage
	}

	st := Status{Step: StepAudio, Message: i18n.T(lang, i18n.StatusAudio), Progress: retryAudioProgress}
	err := p.transition(st, lang, true, func() error {
		if p.lesson == nil {
			return ErrNoContent
		}
		prev = p.status
		explanation = p.lesson.Explanation
		return nil
	})
	if err != nil {
		return err
	}

	log := p.log.With("language", string(lang))
	audio, mimeType, err := p.narrate(ctx, explanation, lang)
	if err != nil || audio == "" {
		if err == nil {
			err = errors.New("empty narration")
		}
		log.Warn("narration retry failed", "error", err)
		restored := Status{Step: prev.Step, Message: i18n.T(lang, i18n.AudioFailed), Progress: prev.Progress}
		_ = p.transition(restored, lang, false, nil)
		return fmt.Errorf("%w: %v", ErrNarrationUnavailable, err)
	}

	var updated *content.GeneratedContent
	_ = p.transition(p.checkpoint(StepCompleted, lang), lang, false, func() error {
		p.lesson = p.lesson.WithAudio(audio, mimeType)
		updated = p.lesson.Clone()
		return nil
	})
	log.Info("narration regenerated")
	p.persist(ctx, log, updated)
	return nil
}

// SetTheme changes the theme of the current lesson.
func (p *Pipeline) SetTheme(ctx context.Context, theme content.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}
	p.mu.Lock()
	if p.lesson == nil {
		p.mu.Unlock()
		return ErrNoContent
	}
	p.lesson = p.lesson.WithTheme(theme)
	updated := p.lesson.Clone()
	p.mu.Unlock()

	// A plain theme swap is not a new history entry unless configured.
	if p.cfg.PersistThemeChanges {
		p.persist(ctx, p.log, updated)
	}
	return nil
}

// Load makes a history snapshot the current lesson.
func (p *Pipeline) Load(rec history.Record) error {
	if rec.Data == nil {
		return ErrNoContent
	}
	lesson := rec.Data.Clone()
	if !lesson.Theme.Valid() {
		lesson.Theme = content.HistoryFallbackTheme
	}
	lang := lesson.Language
	if !lang.Valid() {
		lang = content.DefaultLanguage
	}

	st := Status{Step: StepCompleted, Message: i18n.T(lang, i18n.HistoryLoaded), Progress: 100}
	return p.transition(st, lang, true, func() error {
		p.lesson = lesson
		p.savedID = rec.ID
		return nil
	})
}

// Reset returns to IDLE and drops the current lesson.
func (p *Pipeline) Reset() error {
	p.mu.Lock()
	lang := p.lang
	p.mu.Unlock()
	return p.transition(p.checkpoint(StepIdle, lang), lang, true, func() error {
		p.lesson = nil
		p.savedID = ""
		return nil
	})
}

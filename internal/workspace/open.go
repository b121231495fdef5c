package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ziadkadry99/edugen/internal/account"
	"github.com/ziadkadry99/edugen/internal/audit"
	"github.com/ziadkadry99/edugen/internal/config"
	"github.com/ziadkadry99/edugen/internal/db"
	"github.com/ziadkadry99/edugen/internal/embeddings"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/llm"
	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/media"
	"github.com/ziadkadry99/edugen/internal/notifications"
	"github.com/ziadkadry99/edugen/internal/provider"
	"github.com/ziadkadry99/edugen/internal/vectordb"
)

// Runtime is a Workspace wired to the configured backends and storage.
type Runtime struct {
	*Workspace
	DB    *db.DB
	Usage *llm.Usage

	storage storage
	closers []io.Closer
}

// Open builds a Runtime from cfg and restores the stored session.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Runtime, error) {
	rt, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	adapter, err := rt.newAdapter(ctx, cfg)
	if err != nil {
		rt.Close()
		return nil, err
	}

	deps := Deps{
		Accounts:            rt.storage.accounts,
		History:             rt.storage.history,
		Audit:               rt.storage.audit,
		Notifier:            notifier(cfg),
		Adapter:             adapter,
		Logger:              log,
		Language:            cfg.Language,
		Theme:               cfg.Theme,
		PlaceholderImage:    cfg.PlaceholderImage,
		PersistThemeChanges: cfg.PersistThemeChanges,
	}
	if index := openIndex(cfg, log); index != nil {
		deps.Index = index
	}
	rt.Workspace = New(deps)
	if _, _, err := rt.Init(); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// OpenStorage opens only the account, history and audit stores. The returned
// Runtime has no Workspace; it serves commands that never generate.
func OpenStorage(cfg *config.Config) (*Runtime, error) {
	database, err := db.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	medium, err := account.NewFileMedium(cfg.KVDir(), cfg.StorageQuotaBytes)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("opening accounts: %w", err)
	}

	rt := &Runtime{
		DB:      database,
		Usage:   &llm.Usage{},
		closers: []io.Closer{medium, database},
	}
	rt.storage = storage{
		accounts: account.NewStore(medium),
		history:  history.NewStore(database),
		audit:    audit.NewStore(database),
	}
	return rt, nil
}

type storage struct {
	accounts *account.Store
	history  *history.Store
	audit    *audit.Store
}

// Accounts is the account store.
func (r *Runtime) Accounts() *account.Store { return r.storage.accounts }

// HistoryStore is the history store.
func (r *Runtime) HistoryStore() *history.Store { return r.storage.history }

// AuditStore is the trail of generation runs.
func (r *Runtime) AuditStore() *audit.Store { return r.storage.audit }

func (r *Runtime) newAdapter(ctx context.Context, cfg *config.Config) (provider.Adapter, error) {
	limiter := llm.NewLimiter(cfg.RequestsPerMinute)

	text, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating text provider: %w", err)
	}
	text = llm.NewMeteredProvider(llm.NewRateLimitedProvider(text, limiter), r.Usage)

	images, err := media.NewImageGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating image provider: %w", err)
	}
	images = media.LimitImages(images, limiter)

	speech, err := media.NewSpeechSynthesizer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating speech provider: %w", err)
	}
	if c, ok := speech.(io.Closer); ok {
		r.closers = append(r.closers, c)
	}
	if speech != nil {
		speech = media.LimitSpeech(speech, limiter)
	}

	return provider.NewGenerator(text, images, speech, provider.Options{
		QuizSize:   cfg.QuizSize,
		SlideCount: cfg.SlideCount,
	}), nil
}

// openIndex opens the lesson search index. Search is left off, with a
// warning, when the embedding backend cannot be built.
func openIndex(cfg *config.Config, log *logger.Logger) *vectordb.Index {
	e, err := embeddings.New(cfg)
	if err != nil {
		log.Warn("lesson search disabled", "error", err)
		return nil
	}
	if e == nil {
		return nil
	}
	index, err := vectordb.OpenIndex(cfg.IndexDir(), e)
	if err != nil {
		log.Warn("lesson search disabled", "error", err)
		return nil
	}
	log.Debug("lesson index opened", "embedder", e.Name(), "lessons", index.Count())
	return index
}

// notifier returns the configured run webhook, if any.
func notifier(cfg *config.Config) Notifier {
	if cfg.WebhookURL == "" {
		return nil
	}
	return notifications.NewDispatcher(cfg.WebhookURL, cfg.WebhookFailuresOnly)
}

// Close releases every backend and store.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

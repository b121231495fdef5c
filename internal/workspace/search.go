package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/vectordb"
)

// ErrSearchDisabled is returned when no embedding backend is configured.
var ErrSearchDisabled = errors.New("workspace: lesson search is not configured")

// LessonIndex is the semantic index over saved lessons.
type LessonIndex interface {
	Add(ctx context.Context, rec history.Record) error
	AddAll(ctx context.Context, recs []history.Record) error
	Search(ctx context.Context, userID, query string, limit int) ([]vectordb.Hit, error)
	RemoveUser(ctx context.Context, userID string) error
}

// indexingRecorder saves lessons to history, then indexes the stored
// record. Indexing failures never fail the save.
type indexingRecorder struct {
	history *history.Store
	index   LessonIndex
	log     *logger.Logger
}

func (r indexingRecorder) Save(ctx context.Context, userID string, c *content.GeneratedContent) (history.Record, error) {
	rec, err := r.history.Save(ctx, userID, c)
	if err != nil {
		return rec, err
	}
	if err := r.index.Add(context.WithoutCancel(ctx), rec); err != nil {
		r.log.Warn("indexing lesson failed", "id", rec.ID, "error", err)
	}
	return rec, nil
}

// Search finds the signed-in user's lessons closest in meaning to query.
func (w *Workspace) Search(ctx context.Context, query string, limit int) ([]vectordb.Hit, error) {
	userID, ok := w.CurrentUserID()
	if !ok {
		return nil, ErrSignedOut
	}
	if w.index == nil {
		return nil, ErrSearchDisabled
	}
	return w.index.Search(ctx, userID, query, limit)
}

// Reindex rebuilds the signed-in user's part of the index from history and
// reports how many lessons it holds.
func (w *Workspace) Reindex(ctx context.Context) (int, error) {
	userID, ok := w.CurrentUserID()
	if !ok {
		return 0, ErrSignedOut
	}
	if w.index == nil {
		return 0, ErrSearchDisabled
	}
	recs, err := w.history.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := w.index.RemoveUser(ctx, userID); err != nil {
		return 0, err
	}
	if err := w.index.AddAll(ctx, recs); err != nil {
		return 0, fmt.Errorf("reindexing %d lessons: %w", len(recs), err)
	}
	w.log.Info("lesson index rebuilt", "user", userID, "lessons", len(recs))
	return len(recs), nil
}

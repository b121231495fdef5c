package workspace

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ziadkadry99/edugen/internal/audit"
	"github.com/ziadkadry99/edugen/internal/pipeline"
)

// Notifier is told about every finished run.
type Notifier interface {
	Notify(ctx context.Context, e audit.Entry) error
}

// run is an audit entry in progress.
type run struct {
	entry audit.Entry
	start time.Time
}

func (w *Workspace) beginRun(action audit.Action, req pipeline.Request) run {
	userID, _ := w.CurrentUserID()
	return run{
		entry: audit.Entry{
			UserID:   userID,
			Action:   action,
			Topic:    strings.TrimSpace(req.Topic),
			Language: string(req.Language),
		},
		start: time.Now(),
	}
}

// endRun records how a run ended. Requests the pipeline refused without
// running are not recorded.
func (w *Workspace) endRun(ctx context.Context, r run, err error) {
	if w.audit == nil && w.notifier == nil {
		return
	}
	if errors.Is(err, pipeline.ErrBusy) || errors.Is(err, pipeline.ErrBlankTopic) || errors.Is(err, pipeline.ErrNoContent) {
		return
	}

	e := r.entry
	e.DurationMS = time.Since(r.start).Milliseconds()
	e.Outcome = audit.OutcomeCompleted
	if err != nil {
		e.Outcome = audit.OutcomeFailed
		e.Detail = err.Error()
		var stepErr *pipeline.RunError
		switch {
		case errors.As(err, &stepErr):
			e.FailedStep = string(stepErr.Step)
		case e.Action == audit.ActionRegenerateAudio:
			e.FailedStep = string(pipeline.StepAudio)
		}
	}

	ctx = context.WithoutCancel(ctx)
	if w.audit != nil {
		logged, err := w.audit.Log(ctx, e)
		if err != nil {
			w.log.Warn("recording run failed", "action", string(e.Action), "error", err)
		} else {
			e = logged
		}
	}
	if w.notifier != nil {
		if err := w.notifier.Notify(ctx, e); err != nil {
			w.log.Warn("run notification failed", "action", string(e.Action), "error", err)
		}
	}
}

// Runs lists the signed-in user's recent generation runs, newest first.
// Signed out, it is empty.
func (w *Workspace) Runs(ctx context.Context, limit int) ([]audit.Entry, error) {
	userID, ok := w.CurrentUserID()
	if !ok || w.audit == nil {
		return nil, nil
	}
	return w.audit.Query(ctx, audit.QueryFilter{UserID: userID, Limit: limit})
}

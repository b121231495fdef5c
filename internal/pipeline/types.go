// Package pipeline runs lesson generation as a small state machine and
// publishes every transition to its observers.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
)

var (
	ErrBlankTopic           = errors.New("pipeline: topic is blank")
	ErrBusy                 = errors.New("pipeline: a generation is already running")
	ErrNoContent            = errors.New("pipeline: no lesson loaded")
	ErrNarrationUnavailable = errors.New("pipeline: narration unavailable")
)

// RunError reports the step a run failed in.
type RunError struct {
	Step Step
	Err  error
}

func (e *RunError) Error() string {
	return strings.ToLower(string(e.Step)) + " step: " + e.Err.Error()
}

func (e *RunError) Unwrap() error { return e.Err }

// Step is a pipeline state.
type Step string

const (
	StepIdle       Step = "IDLE"
	StepText       Step = "TEXT"
	StepQuiz       Step = "QUIZ"
	StepSlidesText Step = "SLIDES_TEXT"
	StepImages     Step = "IMAGES"
	StepAudio      Step = "AUDIO"
	StepCompleted  Step = "COMPLETED"
	StepError      Step = "ERROR"
)

// Busy reports whether a run or narration retry is in flight.
func (s Step) Busy() bool {
	switch s {
	case StepIdle, StepCompleted, StepError:
		return false
	}
	return true
}

// Status is one observable pipeline state.
type Status struct {
	Step     Step   `json:"step"`
	Message  string `json:"message"`
	Progress int    `json:"progress"`
}

// Request describes one lesson to generate.
type Request struct {
	Topic    string
	Language content.Language
	Theme    content.Theme
}

// Observer receives every published status, in order.
type Observer func(Status)

// Session exposes the signed-in user, if any.
type Session interface {
	CurrentUserID() (string, bool)
}

// Recorder persists completed lessons.
type Recorder interface {
	Save(ctx context.Context, userID string, c *content.GeneratedContent) (history.Record, error)
}

// Package audit keeps a trail of generation runs: who asked for which
// topic, how the run ended and how long it took.
package audit

import "time"

// Action is the kind of run.
type Action string

const (
	ActionGenerate        Action = "generate"
	ActionRegenerateAudio Action = "regenerate_audio"
)

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)

// Entry is a single audit trail record.
type Entry struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	UserID     string        `json:"userId,omitempty"`
	Action     Action        `json:"action"`
	Topic      string        `json:"topic"`
	Language   string        `json:"language"`
	Outcome    Outcome       `json:"outcome"`
	FailedStep string        `json:"failedStep,omitempty"`
	Detail     string        `json:"detail,omitempty"`
	DurationMS int64         `json:"durationMs"`
}

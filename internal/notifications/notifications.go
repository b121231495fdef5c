// Package notifications posts generation run results to a webhook, so an
// external system (a school LMS, a chat bot) can pick up finished lessons.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ziadkadry99/edugen/internal/audit"
)

// Event is the webhook payload.
type Event struct {
	Type       string        `json:"type"`
	RunID      string        `json:"run_id"`
	UserID     string        `json:"user_id,omitempty"`
	Action     audit.Action  `json:"action"`
	Topic      string        `json:"topic"`
	Language   string        `json:"language"`
	Outcome    audit.Outcome `json:"outcome"`
	FailedStep string        `json:"failed_step,omitempty"`
	Message    string        `json:"message,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	CreatedAt  time.Time     `json:"created_at"`
}

// EventType is the value of Event.Type for run results.
const EventType = "lesson_run"

// Dispatcher delivers run results to a webhook.
type Dispatcher struct {
	url          string
	failuresOnly bool
	client       *http.Client
}

// NewDispatcher creates a Dispatcher posting to url. With failuresOnly set,
// completed runs are not sent.
func NewDispatcher(url string, failuresOnly bool) *Dispatcher {
	return &Dispatcher{
		url:          url,
		failuresOnly: failuresOnly,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify sends the result of a run.
func (d *Dispatcher) Notify(ctx context.Context, e audit.Entry) error {
	if d.failuresOnly && e.Outcome != audit.OutcomeFailed {
		return nil
	}
	payload, err := json.Marshal(Event{
		Type:       EventType,
		RunID:      e.ID,
		UserID:     e.UserID,
		Action:     e.Action,
		Topic:      e.Topic,
		Language:   e.Language,
		Outcome:    e.Outcome,
		FailedStep: e.FailedStep,
		Message:    e.Detail,
		DurationMS: e.DurationMS,
		CreatedAt:  e.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	return d.SendWebhook(ctx, payload)
}

// SendWebhook POSTs payload to the configured URL.
func (d *Dispatcher) SendWebhook(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

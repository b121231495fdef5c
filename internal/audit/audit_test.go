package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ziadkadry99/edugen/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

// steppingClock advances one minute per call.
func steppingClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func TestLogAndGetByID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	logged, err := store.Log(ctx, Entry{
		ID:         "run-1",
		UserID:     "u1",
		Action:     ActionGenerate,
		Topic:      "Photosynthesis",
		Language:   "en",
		Outcome:    OutcomeFailed,
		FailedStep: "TEXT",
		Detail:     "text step: backend down",
		DurationMS: 1500,
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if logged.Timestamp.IsZero() {
		t.Error("Log should stamp the entry")
	}

	got, err := store.GetByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.UserID != "u1" || got.Action != ActionGenerate || got.Topic != "Photosynthesis" {
		t.Errorf("got %+v", got)
	}
	if got.Outcome != OutcomeFailed || got.FailedStep != "TEXT" || got.Detail != "text step: backend down" {
		t.Errorf("outcome fields = %+v", got)
	}
	if got.DurationMS != 1500 || got.Language != "en" {
		t.Errorf("DurationMS = %d, Language = %q", got.DurationMS, got.Language)
	}
	if !got.Timestamp.Equal(logged.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", got.Timestamp, logged.Timestamp)
	}
}

func TestLogGeneratesID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	logged, err := store.Log(ctx, Entry{Action: ActionGenerate, Outcome: OutcomeCompleted})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if logged.ID == "" {
		t.Fatal("expected a generated id")
	}
	got, err := store.GetByID(ctx, logged.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.FailedStep != "" || got.Detail != "" {
		t.Errorf("optional fields should be empty: %+v", got)
	}
}

func TestLogValidation(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Log(context.Background(), Entry{Outcome: OutcomeCompleted}); err == nil {
		t.Error("expected error without action")
	}
	if _, err := store.Log(context.Background(), Entry{Action: ActionGenerate}); err == nil {
		t.Error("expected error without outcome")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	store := setupStore(t)
	if _, err := store.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	store.now = steppingClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	entries := []Entry{
		{ID: "a", UserID: "u1", Action: ActionGenerate, Outcome: OutcomeCompleted},
		{ID: "b", UserID: "u1", Action: ActionRegenerateAudio, Outcome: OutcomeFailed},
		{ID: "c", UserID: "u2", Action: ActionGenerate, Outcome: OutcomeFailed},
		{ID: "d", UserID: "u1", Action: ActionGenerate, Outcome: OutcomeFailed},
	}
	for _, e := range entries {
		if _, err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	since := time.Date(2025, 5, 1, 9, 2, 0, 0, time.UTC)
	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{"all newest first", QueryFilter{}, []string{"d", "c", "b", "a"}},
		{"by user", QueryFilter{UserID: "u1"}, []string{"d", "b", "a"}},
		{"by action", QueryFilter{Action: ActionRegenerateAudio}, []string{"b"}},
		{"by outcome", QueryFilter{UserID: "u1", Outcome: OutcomeFailed}, []string{"d", "b"}},
		{"since", QueryFilter{Since: &since}, []string{"d", "c", "b"}},
		{"until", QueryFilter{Until: &since}, []string{"b", "a"}},
		{"limit", QueryFilter{Limit: 2}, []string{"d", "c"}},
		{"limit offset", QueryFilter{Limit: 2, Offset: 1}, []string{"c", "b"}},
		{"offset only", QueryFilter{Offset: 3}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("entry %d = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	store.now = steppingClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	for _, id := range []string{"old", "mid", "new"} {
		if _, err := store.Log(ctx, Entry{ID: id, Action: ActionGenerate, Outcome: OutcomeCompleted}); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	n, err := store.DeleteBefore(ctx, time.Date(2025, 5, 1, 9, 2, 30, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	left, _ := store.Query(ctx, QueryFilter{})
	if len(left) != 1 || left[0].ID != "new" {
		t.Errorf("remaining = %+v", left)
	}
}

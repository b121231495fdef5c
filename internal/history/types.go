// Package history keeps per-user snapshots of completed lessons.
package history

import (
	"errors"
	"time"

	"github.com/ziadkadry99/edugen/internal/content"
)

var (
	// ErrNotFound is returned when no record matches the owner and id.
	ErrNotFound = errors.New("history: record not found")
	// ErrStorageUnavailable wraps failures of the underlying database.
	ErrStorageUnavailable = errors.New("history: storage unavailable")
)

// Record is an immutable snapshot of a lesson, owned by one user.
type Record struct {
	ID        string                    `json:"id"`
	UserID    string                    `json:"userId"`
	Topic     string                    `json:"topic"`
	Data      *content.GeneratedContent `json:"data"`
	CreatedAt time.Time                 `json:"createdAt"`
}

// Summary is a record without its payload, for listings.
type Summary struct {
	ID        string           `json:"id"`
	Topic     string           `json:"topic"`
	Language  content.Language `json:"language"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Summary strips the payload.
func (r Record) Summary() Summary {
	s := Summary{ID: r.ID, Topic: r.Topic, CreatedAt: r.CreatedAt}
	if r.Data != nil {
		s.Language = r.Data.Language
	}
	return s
}

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/db"
)

// timeLayout is fixed width so lexical order in SQLite equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store persists history records in SQLite.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Save stores a deep snapshot of c for userID. The record id is a
// time-ordered UUID.
func (s *Store) Save(ctx context.Context, userID string, c *content.GeneratedContent) (Record, error) {
	if userID == "" {
		return Record{}, fmt.Errorf("saving history: empty user id")
	}
	if c == nil {
		return Record{}, fmt.Errorf("saving history: nil content")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Record{}, fmt.Errorf("generating history id: %w", err)
	}

	data, err := json.Marshal(c)
	if err != nil {
		return Record{}, fmt.Errorf("marshalling lesson: %w", err)
	}

	createdAt := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (id, user_id, topic, language, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), userID, c.Topic, string(c.Language), string(data), createdAt.Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("%w: inserting record: %v", ErrStorageUnavailable, err)
	}

	return Record{
		ID:        id.String(),
		UserID:    userID,
		Topic:     c.Topic,
		Data:      c.Clone(),
		CreatedAt: createdAt,
	}, nil
}

// List returns the records owned by userID, newest first.
func (s *Store) List(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, topic, data, created_at
		FROM history
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying history: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading history: %v", ErrStorageUnavailable, err)
	}
	return records, nil
}

// Get returns one record owned by userID.
func (s *Store) Get(ctx context.Context, userID, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, topic, data, created_at
		FROM history
		WHERE user_id = ? AND id = ?`, userID, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// Count returns how many records userID owns.
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting history: %v", ErrStorageUnavailable, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var data, createdAt string
	if err := sc.Scan(&rec.ID, &rec.UserID, &rec.Topic, &data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("%w: scanning record: %v", ErrStorageUnavailable, err)
	}

	var c content.GeneratedContent
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return Record{}, fmt.Errorf("decoding record %s: %w", rec.ID, err)
	}
	rec.Data = &c

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parsing record %s timestamp: %w", rec.ID, err)
	}
	rec.CreatedAt = t
	return rec, nil
}

package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/edugen/internal/db"
)

// ErrNotFound is returned for an unknown entry id.
var ErrNotFound = errors.New("audit: entry not found")

// timeLayout matches the history table so both sort the same way.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store provides access to the audit trail.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts a new audit entry. An empty ID gets a time-ordered UUID and a
// zero Timestamp gets the current time.
func (s *Store) Log(ctx context.Context, entry Entry) (Entry, error) {
	if entry.Action == "" || entry.Outcome == "" {
		return Entry{}, fmt.Errorf("logging audit entry: action and outcome are required")
	}
	if entry.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Entry{}, fmt.Errorf("generating audit id: %w", err)
		}
		entry.ID = id.String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()

	var failedStep, detail sql.NullString
	if entry.FailedStep != "" {
		failedStep = sql.NullString{String: entry.FailedStep, Valid: true}
	}
	if entry.Detail != "" {
		detail = sql.NullString{String: entry.Detail, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries (
			id, timestamp, user_id, action, topic, language,
			outcome, failed_step, detail, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.Format(timeLayout),
		entry.UserID,
		string(entry.Action),
		entry.Topic,
		entry.Language,
		string(entry.Outcome),
		failedStep,
		detail,
		entry.DurationMS,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting audit entry: %w", err)
	}
	return entry, nil
}

// GetByID retrieves a single audit entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, user_id, action, topic, language,
			   outcome, failed_step, detail, duration_ms
		FROM audit_entries WHERE id = ?`, id)

	e, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// QueryFilter controls which audit entries are returned by Query.
type QueryFilter struct {
	UserID  string
	Action  Action
	Outcome Outcome
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}

// Query returns audit entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Action != "" {
		clauses = append(clauses, "action = ?")
		args = append(args, string(filter.Action))
	}
	if filter.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, string(filter.Outcome))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(timeLayout))
	}

	query := "SELECT id, timestamp, user_id, action, topic, language, outcome, failed_step, detail, duration_ms FROM audit_entries"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all audit entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM audit_entries WHERE timestamp < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old audit entries: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e                  Entry
		ts, action, result string
		failedStep, detail sql.NullString
	)

	err := sc.Scan(
		&e.ID, &ts, &e.UserID, &action, &e.Topic, &e.Language,
		&result, &failedStep, &detail, &e.DurationMS,
	)
	if err != nil {
		return nil, err
	}

	e.Action = Action(action)
	e.Outcome = Outcome(result)
	e.FailedStep = failedStep.String
	e.Detail = detail.String

	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return nil, fmt.Errorf("parsing audit entry %s timestamp: %w", e.ID, err)
	}
	e.Timestamp = t
	return &e, nil
}

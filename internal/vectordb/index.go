// Package vectordb indexes saved lessons for semantic search, one
// chromem-go collection per embedding model.
package vectordb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/embeddings"
	"github.com/ziadkadry99/edugen/internal/history"
)

// DefaultLimit is the number of hits returned when none is requested.
const DefaultLimit = 5

const (
	maxDocumentRunes = 8000
	snippetRunes     = 160
	addConcurrency   = 4
	timeLayout       = time.RFC3339Nano
)

// ErrEmptyQuery is returned for a blank search.
var ErrEmptyQuery = errors.New("vectordb: empty query")

// Hit is one search result.
type Hit struct {
	RecordID   string           `json:"recordId"`
	Topic      string           `json:"topic"`
	Language   content.Language `json:"language"`
	CreatedAt  time.Time        `json:"createdAt"`
	Similarity float32          `json:"similarity"`
	Snippet    string           `json:"snippet"`
}

// Index is the lesson search index.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewIndex creates an in-memory index.
func NewIndex(e embeddings.Embedder) (*Index, error) {
	return newIndex(chromem.NewDB(), e)
}

// OpenIndex opens or creates a compressed on-disk index under dir.
func OpenIndex(dir string, e embeddings.Embedder) (*Index, error) {
	db, err := chromem.NewPersistentDB(dir, true)
	if err != nil {
		return nil, fmt.Errorf("opening lesson index: %w", err)
	}
	return newIndex(db, e)
}

func newIndex(db *chromem.DB, e embeddings.Embedder) (*Index, error) {
	name := "lessons-" + slug.Make(e.Name())
	col, err := db.GetOrCreateCollection(name, map[string]string{"embedder": e.Name()}, embeddings.ToChromemFunc(e))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col}, nil
}

// Add indexes rec, replacing any document with the same id.
func (x *Index) Add(ctx context.Context, rec history.Record) error {
	return x.AddAll(ctx, []history.Record{rec})
}

// AddAll indexes several records.
func (x *Index) AddAll(ctx context.Context, recs []history.Record) error {
	if len(recs) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(recs))
	for i, rec := range recs {
		docs[i] = document(rec)
	}
	if err := x.collection.AddDocuments(ctx, docs, addConcurrency); err != nil {
		return fmt.Errorf("indexing lessons: %w", err)
	}
	return nil
}

// Search returns the userID's lessons closest to query, best first.
func (x *Index) Search(ctx context.Context, userID, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	limit = min(limit, count)

	results, err := x.collection.Query(ctx, query, limit, map[string]string{"user_id": userID}, nil)
	if err != nil {
		return nil, fmt.Errorf("searching lessons: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		created, _ := time.Parse(timeLayout, r.Metadata["created_at"])
		hits = append(hits, Hit{
			RecordID:   r.ID,
			Topic:      r.Metadata["topic"],
			Language:   content.Language(r.Metadata["language"]),
			CreatedAt:  created,
			Similarity: r.Similarity,
			Snippet:    snippet(r.Metadata["explanation"]),
		})
	}
	return hits, nil
}

// RemoveUser drops every document owned by userID.
func (x *Index) RemoveUser(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.New("vectordb: empty user id")
	}
	if err := x.collection.Delete(ctx, map[string]string{"user_id": userID}, nil); err != nil {
		return fmt.Errorf("removing lessons: %w", err)
	}
	return nil
}

// Count is the number of indexed lessons across all users.
func (x *Index) Count() int {
	return x.collection.Count()
}

func document(rec history.Record) chromem.Document {
	meta := map[string]string{
		"user_id":    rec.UserID,
		"topic":      rec.Topic,
		"created_at": rec.CreatedAt.UTC().Format(timeLayout),
	}

	var b strings.Builder
	b.WriteString(rec.Topic)
	if c := rec.Data; c != nil {
		meta["language"] = string(c.Language)
		meta["explanation"] = truncate(c.Explanation, snippetRunes*2)
		b.WriteString("\n\n")
		b.WriteString(c.Explanation)
		for _, s := range c.Slides {
			b.WriteString("\n\n")
			b.WriteString(s.Title)
			for _, p := range s.BulletPoints {
				b.WriteString("\n- ")
				b.WriteString(p)
			}
		}
	}

	return chromem.Document{
		ID:       rec.ID,
		Metadata: meta,
		Content:  truncate(b.String(), maxDocumentRunes),
	}
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate(s, snippetRunes)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

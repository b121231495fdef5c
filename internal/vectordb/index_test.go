package vectordb

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
)

// keywordEmbedder counts vocabulary words, so texts sharing words are close.
type keywordEmbedder struct {
	calls atomic.Int64
}

var vocabulary = []string{"photosynthesis", "plant", "light", "fraction", "number", "volcano", "lava"}

func (e *keywordEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls.Add(int64(len(texts)))
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float32, len(vocabulary)+1)
		vec[len(vocabulary)] = 0.1
		for j, word := range vocabulary {
			vec[j] = float32(strings.Count(lower, word))
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		norm = math.Sqrt(norm)
		for j := range vec {
			vec[j] = float32(float64(vec[j]) / norm)
		}
		out[i] = vec
	}
	return out, nil
}

func (e *keywordEmbedder) Dimensions() int { return len(vocabulary) + 1 }
func (e *keywordEmbedder) Name() string    { return "test/keywords" }

func lesson(id, user, topic, explanation string) history.Record {
	return history.Record{
		ID:     id,
		UserID: user,
		Topic:  topic,
		Data: &content.GeneratedContent{
			Topic:       topic,
			Explanation: explanation,
			Language:    content.LanguageEnglish,
			Slides: []content.SlideContent{
				{Title: topic, BulletPoints: []string{explanation}},
			},
		},
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func seeded(t *testing.T) *Index {
	t.Helper()
	x, err := NewIndex(&keywordEmbedder{})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	recs := []history.Record{
		lesson("r1", "u1", "Photosynthesis", "A plant turns light into sugar through photosynthesis."),
		lesson("r2", "u1", "Fractions", "A fraction is a number that names part of a whole."),
		lesson("r3", "u1", "Volcanoes", "A volcano erupts lava."),
		lesson("r4", "u2", "Plants and light", "Photosynthesis in every plant needs light."),
	}
	if err := x.AddAll(context.Background(), recs); err != nil {
		t.Fatalf("AddAll: %v", err)
	}
	return x
}

func TestSearchRanksByMeaning(t *testing.T) {
	x := seeded(t)

	hits, err := x.Search(context.Background(), "u1", "how does a plant use light", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].RecordID != "r1" {
		t.Errorf("best hit = %s, want r1", hits[0].RecordID)
	}
	if hits[0].Topic != "Photosynthesis" || hits[0].Language != content.LanguageEnglish {
		t.Errorf("metadata lost: %+v", hits[0])
	}
	if !hits[0].CreatedAt.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", hits[0].CreatedAt)
	}
	if !strings.HasPrefix(hits[0].Snippet, "A plant turns light") {
		t.Errorf("Snippet = %q", hits[0].Snippet)
	}
	if hits[0].Similarity < hits[1].Similarity {
		t.Errorf("hits not ordered by similarity: %v", hits)
	}
}

func TestSearchIsPerUser(t *testing.T) {
	x := seeded(t)

	hits, err := x.Search(context.Background(), "u2", "volcano lava", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].RecordID != "r4" {
		t.Errorf("expected only u2's lesson, got %+v", hits)
	}

	hits, err = x.Search(context.Background(), "nobody", "plant", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestSearchEdgeCases(t *testing.T) {
	empty, err := NewIndex(&keywordEmbedder{})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	hits, err := empty.Search(context.Background(), "u1", "plant", 5)
	if err != nil || hits != nil {
		t.Errorf("empty index: hits=%v err=%v", hits, err)
	}

	if _, err := empty.Search(context.Background(), "u1", "   ", 5); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}

	x := seeded(t)
	hits, err = x.Search(context.Background(), "u1", "number", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("default limit capped by count: got %d hits", len(hits))
	}
}

func TestAddReplacesAndRemoveUser(t *testing.T) {
	x := seeded(t)
	ctx := context.Background()

	updated := lesson("r3", "u1", "Volcanoes", "A volcano erupts lava and ash.")
	if err := x.Add(ctx, updated); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if x.Count() != 4 {
		t.Errorf("re-adding should replace, Count = %d", x.Count())
	}

	if err := x.RemoveUser(ctx, "u1"); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	if x.Count() != 1 {
		t.Errorf("Count after RemoveUser = %d, want 1", x.Count())
	}
	if err := x.RemoveUser(ctx, ""); err == nil {
		t.Error("expected an error for an empty user id")
	}
}

func TestOpenIndexPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	x, err := OpenIndex(dir, &keywordEmbedder{})
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	if err := x.Add(ctx, lesson("r1", "u1", "Fractions", "A fraction is a number.")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	e := &keywordEmbedder{}
	reopened, err := OpenIndex(dir, e)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Count() != 1 {
		t.Fatalf("Count after reopen = %d", reopened.Count())
	}
	hits, err := reopened.Search(ctx, "u1", "fraction", 1)
	if err != nil || len(hits) != 1 || hits[0].RecordID != "r1" {
		t.Errorf("search after reopen: hits=%v err=%v", hits, err)
	}
	if n := e.calls.Load(); n != 1 {
		t.Errorf("stored vectors should be reused, embedder called %d times", n)
	}
}

func TestDocumentWithoutData(t *testing.T) {
	doc := document(history.Record{ID: "x", UserID: "u", Topic: "Bare"})
	if doc.Content != "Bare" || doc.Metadata["language"] != "" {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("қазақ тілі", 5); got != "қазақ" {
		t.Errorf("truncate = %q", got)
	}
	if got := snippet("  A   plant\n grows "); got != "A plant grows" {
		t.Errorf("snippet = %q", got)
	}
}

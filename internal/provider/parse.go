package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/edugen/internal/content"
)

// preferredListKeys are tried first when a model wraps the array in an object.
var preferredListKeys = []string{"questions", "quiz", "slides", "items"}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractList finds the JSON array in raw: either raw itself or the array
// held by a wrapping object.
func extractList(raw string) ([]json.RawMessage, error) {
	body := []byte(stripCodeFence(raw))
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	var list []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return list, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		for _, key := range preferredListKeys {
			if v, ok := obj[key]; ok && json.Unmarshal(v, &list) == nil {
				return list, nil
			}
		}
		for _, v := range obj {
			if bytes.HasPrefix(bytes.TrimSpace(v), []byte("[")) && json.Unmarshal(v, &list) == nil {
				return list, nil
			}
		}
		return nil, fmt.Errorf("%w: object holds no array", ErrMalformedResponse)
	default:
		return nil, fmt.Errorf("%w: expected JSON array or object", ErrMalformedResponse)
	}
}

type rawQuestion struct {
	ID            json.RawMessage   `json:"id"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correctAnswer"`
}

// ParseQuiz reads a quiz payload. Entries that are not answerable are
// dropped; ids are renumbered when missing or repeated; at most max
// questions are kept. A payload that is not JSON at all is ErrMalformedResponse.
func ParseQuiz(raw string, max int) ([]content.QuizQuestion, error) {
	items, err := extractList(raw)
	if err != nil {
		return nil, err
	}

	quiz := make([]content.QuizQuestion, 0, len(items))
	for _, item := range items {
		var rq rawQuestion
		if err := json.Unmarshal(item, &rq); err != nil {
			continue
		}
		q := content.QuizQuestion{Question: strings.TrimSpace(rq.Question)}
		q.ID = parseID(rq.ID)
		opts := make(map[content.OptionKey]string, len(rq.Options))
		for k, v := range rq.Options {
			if key, ok := content.ParseOptionKey(k); ok {
				opts[key] = strings.TrimSpace(v)
			}
		}
		q.Options = content.Options{A: opts[content.OptionA], B: opts[content.OptionB], C: opts[content.OptionC], D: opts[content.OptionD]}
		q.CorrectAnswer, _ = content.ParseOptionKey(rq.CorrectAnswer)
		if q.Validate() != nil {
			continue
		}
		quiz = append(quiz, q)
		if max > 0 && len(quiz) == max {
			break
		}
	}

	seen := make(map[int]bool, len(quiz))
	renumber := false
	for _, q := range quiz {
		if q.ID <= 0 || seen[q.ID] {
			renumber = true
			break
		}
		seen[q.ID] = true
	}
	if renumber {
		for i := range quiz {
			quiz[i].ID = i + 1
		}
	}
	return quiz, nil
}

type rawSlide struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bulletPoints"`
	ImagePrompt  string   `json:"imagePrompt"`
}

// ParseSlides reads a slide payload, dropping slides without a title or
// bullet points and keeping at most max.
func ParseSlides(raw string, max int) ([]content.SlideContent, error) {
	items, err := extractList(raw)
	if err != nil {
		return nil, err
	}

	slides := make([]content.SlideContent, 0, len(items))
	for _, item := range items {
		var rs rawSlide
		if err := json.Unmarshal(item, &rs); err != nil {
			continue
		}
		s := content.SlideContent{
			Title:       strings.TrimSpace(rs.Title),
			ImagePrompt: strings.TrimSpace(rs.ImagePrompt),
		}
		for _, b := range rs.BulletPoints {
			if b = strings.TrimSpace(b); b != "" {
				s.BulletPoints = append(s.BulletPoints, b)
			}
		}
		if s.Validate() != nil {
			continue
		}
		if s.ImagePrompt == "" {
			s.ImagePrompt = s.Title
		}
		slides = append(slides, s)
		if max > 0 && len(slides) == max {
			break
		}
	}
	return slides, nil
}

// parseID accepts 3, 3.0 and "3"; anything else is 0.
func parseID(raw json.RawMessage) int {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

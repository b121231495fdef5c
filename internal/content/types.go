// Package content holds the lesson aggregate produced by a generation run
// and the closed vocabularies (themes, languages, quiz option keys) it uses.
package content

import (
	"fmt"
	"strings"
	"time"
)

// OptionKey identifies one of the four quiz answer options.
type OptionKey string

const (
	OptionA OptionKey = "A"
	OptionB OptionKey = "B"
	OptionC OptionKey = "C"
	OptionD OptionKey = "D"
)

// OptionKeys lists the option keys in display order.
var OptionKeys = []OptionKey{OptionA, OptionB, OptionC, OptionD}

// Valid reports whether k is one of A-D.
func (k OptionKey) Valid() bool {
	switch k {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// ParseOptionKey normalizes user or model input ("b", " C ") to an OptionKey.
func ParseOptionKey(s string) (OptionKey, bool) {
	k := OptionKey(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.Valid()
}

// Options holds the text of the four answer options.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the text for key.
func (o Options) Get(key OptionKey) (string, bool) {
	switch key {
	case OptionA:
		return o.A, true
	case OptionB:
		return o.B, true
	case OptionC:
		return o.C, true
	case OptionD:
		return o.D, true
	}
	return "", false
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	ID            int       `json:"id"`
	Question      string    `json:"question"`
	Options       Options   `json:"options"`
	CorrectAnswer OptionKey `json:"correctAnswer"`
}

// Validate checks that the question is answerable.
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question %d: empty question text", q.ID)
	}
	for _, k := range OptionKeys {
		text, _ := q.Options.Get(k)
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("question %d: option %s is empty", q.ID, k)
		}
	}
	if !q.CorrectAnswer.Valid() {
		return fmt.Errorf("question %d: invalid correct answer %q", q.ID, q.CorrectAnswer)
	}
	return nil
}

// SlideContent is one slide of the narrated deck. ImagePrompt is never shown
// to the learner; an empty ImageURL renders as a placeholder background.
type SlideContent struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bulletPoints"`
	ImagePrompt  string   `json:"imagePrompt"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Validate checks that the slide has a title and at least one bullet point.
func (s SlideContent) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("slide has no title")
	}
	for _, b := range s.BulletPoints {
		if strings.TrimSpace(b) != "" {
			return nil
		}
	}
	return fmt.Errorf("slide %q has no bullet points", s.Title)
}

// GeneratedContent is the aggregate produced by one successful run.
// It is replaced whole, never mutated in place by readers.
type GeneratedContent struct {
	Topic         string         `json:"topic"`
	Explanation   string         `json:"explanation"`
	AudioBase64   *string        `json:"audioBase64"`
	AudioMIMEType string         `json:"audioMimeType,omitempty"`
	Quiz          []QuizQuestion `json:"quiz"`
	Slides        []SlideContent `json:"slides"`
	Theme         Theme          `json:"theme"`
	Language      Language       `json:"language"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// HasAudio reports whether narration is present.
func (c *GeneratedContent) HasAudio() bool {
	return c != nil && c.AudioBase64 != nil && *c.AudioBase64 != ""
}

// Clone returns a deep copy of c.
func (c *GeneratedContent) Clone() *GeneratedContent {
	if c == nil {
		return nil
	}
	out := *c
	if c.AudioBase64 != nil {
		audio := *c.AudioBase64
		out.AudioBase64 = &audio
	}
	if c.Quiz != nil {
		out.Quiz = make([]QuizQuestion, len(c.Quiz))
		copy(out.Quiz, c.Quiz)
	}
	if c.Slides != nil {
		out.Slides = make([]SlideContent, len(c.Slides))
		for i, s := range c.Slides {
			s.BulletPoints = append([]string(nil), s.BulletPoints...)
			out.Slides[i] = s
		}
	}
	return &out
}

// WithAudio returns a copy of c carrying the given narration.
// An empty audio string clears narration.
func (c *GeneratedContent) WithAudio(audio, mimeType string) *GeneratedContent {
	out := c.Clone()
	if audio == "" {
		out.AudioBase64 = nil
		out.AudioMIMEType = ""
		return out
	}
	out.AudioBase64 = &audio
	out.AudioMIMEType = mimeType
	return out
}

// WithTheme returns a copy of c with theme replaced.
func (c *GeneratedContent) WithTheme(theme Theme) *GeneratedContent {
	out := c.Clone()
	out.Theme = theme
	return out
}

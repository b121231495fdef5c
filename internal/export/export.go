// Package export renders a lesson as a printable document or a slide deck
// file.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/gosimple/slug"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/presentation"
)

const (
	DocumentSuffix = "_lesson.html"
	DeckSuffix     = "_presentation_data.json"
)

var documentTmpl = template.Must(template.New("document").Parse(documentTemplate))

type documentSlide struct {
	Title   string
	Bullets string
}

type documentQuestion struct {
	Number   int
	Question string
	Options  []presentation.OptionView
	Answer   content.OptionKey
}

type documentData struct {
	Topic       string
	Explanation template.HTML
	Slides      []documentSlide
	Quiz        []documentQuestion
	Head        map[string]string
	Language    content.Language
}

func exportLanguage(c *content.GeneratedContent) content.Language {
	if c.Language.Valid() {
		return c.Language
	}
	return content.DefaultLanguage
}

// Document renders c as a self-contained printable HTML page.
func Document(c *content.GeneratedContent) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("export: no lesson")
	}
	lang := exportLanguage(c)

	explanation, err := presentation.RenderMarkdown(c.Explanation)
	if err != nil {
		return nil, err
	}

	data := documentData{
		Topic:       c.Topic,
		Explanation: explanation,
		Language:    lang,
		Head: map[string]string{
			"Explanation": i18n.T(lang, i18n.HeadExplanation),
			"Slides":      i18n.T(lang, i18n.HeadSlides),
			"Quiz":        i18n.T(lang, i18n.HeadQuiz),
			"Answer":      i18n.T(lang, i18n.HeadAnswer),
		},
	}
	for _, s := range c.Slides {
		data.Slides = append(data.Slides, documentSlide{Title: s.Title, Bullets: strings.Join(s.BulletPoints, ", ")})
	}
	for i, q := range c.Quiz {
		dq := documentQuestion{Number: i + 1, Question: q.Question, Answer: q.CorrectAnswer}
		for _, k := range content.OptionKeys {
			text, _ := q.Options.Get(k)
			dq.Options = append(dq.Options, presentation.OptionView{Key: k, Text: text})
		}
		data.Quiz = append(data.Quiz, dq)
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}
	return buf.Bytes(), nil
}

type deck struct {
	Title    string                 `json:"title"`
	Slides   []content.SlideContent `json:"slides"`
	Language content.Language       `json:"language"`
}

// Deck renders the slides of c as indented JSON.
func Deck(c *content.GeneratedContent) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("export: no lesson")
	}
	slides := c.Slides
	if slides == nil {
		slides = []content.SlideContent{}
	}
	out, err := json.MarshalIndent(deck{Title: c.Topic, Slides: slides, Language: exportLanguage(c)}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding deck: %w", err)
	}
	return out, nil
}

// Filename builds a download name from the topic.
func Filename(topic, suffix string) string {
	s := slug.Make(topic)
	if s == "" {
		s = "lesson"
	}
	return s + suffix
}

// Package presentation turns a lesson into what the dashboard shows: view
// models, the slide timeline, quiz scoring and theme palettes.
package presentation

import (
	"encoding/base64"
	"html/template"
	"time"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/media"
)

// OptionView is one answer choice.
type OptionView struct {
	Key  content.OptionKey `json:"key"`
	Text string            `json:"text"`
}

// QuestionView is a quiz question without its answer.
type QuestionView struct {
	ID       int          `json:"id"`
	Question string       `json:"question"`
	Options  []OptionView `json:"options"`
}

// SlideView is one slide. An empty ImageURL means the theme background.
type SlideView struct {
	Title        string   `json:"title"`
	BulletPoints []string `json:"bulletPoints"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// View is the dashboard rendering of a lesson. AudioSeconds is zero when
// the narration length could not be measured.
type View struct {
	Topic           string           `json:"topic"`
	ExplanationHTML template.HTML    `json:"explanationHtml"`
	Slides          []SlideView      `json:"slides"`
	Quiz            []QuestionView   `json:"quiz"`
	HasAudio        bool             `json:"hasAudio"`
	AudioMIMEType   string           `json:"audioMimeType,omitempty"`
	AudioSeconds    float64          `json:"audioSeconds"`
	Theme           content.Theme    `json:"theme"`
	Palette         Palette          `json:"palette"`
	Language        content.Language `json:"language"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// NewView builds the view of c.
func NewView(c *content.GeneratedContent) (View, error) {
	html, err := RenderMarkdown(c.Explanation)
	if err != nil {
		return View{}, err
	}

	v := View{
		Topic:           c.Topic,
		ExplanationHTML: html,
		Slides:          make([]SlideView, 0, len(c.Slides)),
		Quiz:            make([]QuestionView, 0, len(c.Quiz)),
		Theme:           c.Theme,
		Palette:         PaletteFor(c.Theme),
		Language:        c.Language,
		CreatedAt:       c.CreatedAt,
	}
	for _, s := range c.Slides {
		v.Slides = append(v.Slides, SlideView{
			Title:        s.Title,
			BulletPoints: append([]string(nil), s.BulletPoints...),
			ImageURL:     s.ImageURL,
		})
	}
	for _, q := range c.Quiz {
		qv := QuestionView{ID: q.ID, Question: q.Question}
		for _, k := range content.OptionKeys {
			text, _ := q.Options.Get(k)
			qv.Options = append(qv.Options, OptionView{Key: k, Text: text})
		}
		v.Quiz = append(v.Quiz, qv)
	}
	if c.HasAudio() {
		v.HasAudio = true
		v.AudioMIMEType = c.AudioMIMEType
		if d, err := AudioDuration(c); err == nil {
			v.AudioSeconds = d.Seconds()
		}
	}
	return v, nil
}

// DecodeAudio returns the narration bytes of c.
func DecodeAudio(c *content.GeneratedContent) ([]byte, string, error) {
	if !c.HasAudio() {
		return nil, "", media.ErrNoMedia
	}
	data, err := base64.StdEncoding.DecodeString(*c.AudioBase64)
	if err != nil {
		return nil, "", err
	}
	mimeType := c.AudioMIMEType
	if mimeType == "" {
		mimeType = "audio/mpeg"
	}
	return data, mimeType, nil
}

// AudioDuration measures the length of the narration of c.
func AudioDuration(c *content.GeneratedContent) (time.Duration, error) {
	data, mimeType, err := DecodeAudio(c)
	if err != nil {
		return 0, err
	}
	return media.Duration(data, mimeType)
}

package presentation

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/media"
)

func TestSlideAt(t *testing.T) {
	tests := []struct {
		elapsed, duration time.Duration
		n, want           int
	}{
		{0, 60 * time.Second, 5, 0},
		{11 * time.Second, 60 * time.Second, 5, 0},
		{12 * time.Second, 60 * time.Second, 5, 1},
		{59 * time.Second, 60 * time.Second, 5, 4},
		{60 * time.Second, 60 * time.Second, 5, 4},
		{90 * time.Second, 60 * time.Second, 5, 4},
		{-time.Second, 60 * time.Second, 5, 0},
		{10 * time.Second, 0, 5, 0},
		{10 * time.Second, 60 * time.Second, 1, 0},
		{10 * time.Second, 60 * time.Second, 0, 0},
	}
	for _, tt := range tests {
		if got := SlideAt(tt.elapsed, tt.duration, tt.n); got != tt.want {
			t.Errorf("SlideAt(%v, %v, %d) = %d, want %d", tt.elapsed, tt.duration, tt.n, got, tt.want)
		}
	}
}

func TestScoreQuiz(t *testing.T) {
	quiz := []content.QuizQuestion{
		{ID: 1, CorrectAnswer: content.OptionA},
		{ID: 2, CorrectAnswer: content.OptionB},
		{ID: 3, CorrectAnswer: content.OptionC},
	}
	s := ScoreQuiz(quiz, map[int]content.OptionKey{
		1: content.OptionA,
		2: content.OptionD,
		9: content.OptionA,
	})
	if s.Correct != 1 || s.Total != 3 {
		t.Errorf("score = %d/%d", s.Correct, s.Total)
	}
	if !s.Results[0].IsRight || s.Results[1].IsRight || s.Results[2].Answered {
		t.Errorf("results = %+v", s.Results)
	}
	if s.Results[1].Correct != content.OptionB {
		t.Error("correct answer should be reported")
	}

	empty := ScoreQuiz(nil, nil)
	if empty.Total != 0 || empty.Correct != 0 || empty.Results == nil {
		t.Errorf("empty quiz = %+v", empty)
	}
}

func TestScoreQuizIgnoresInvalidKeys(t *testing.T) {
	quiz := []content.QuizQuestion{{ID: 1, CorrectAnswer: content.OptionA}}
	s := ScoreQuiz(quiz, map[int]content.OptionKey{1: "Z"})
	if s.Correct != 0 || s.Results[0].Answered {
		t.Errorf("invalid key scored: %+v", s)
	}
}

func TestPaletteFor(t *testing.T) {
	for _, th := range content.Themes {
		if PaletteFor(th).Background == "" {
			t.Errorf("theme %s has no palette", th)
		}
	}
	if PaletteFor("neon") != PaletteFor(content.DefaultTheme) {
		t.Error("unknown theme should use the default palette")
	}
	if PaletteFor(content.ThemeDark) == PaletteFor(content.ThemeModern) {
		t.Error("palettes should differ")
	}
}

func TestRenderMarkdownEscapesHTML(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\nSome **bold** text.\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	s := string(html)
	if !strings.Contains(s, "<h1") || !strings.Contains(s, "<strong>bold</strong>") {
		t.Errorf("unexpected html: %s", s)
	}
	if strings.Contains(s, "<script>") {
		t.Error("raw html must not pass through")
	}
}

func lessonWithWAV(t *testing.T) *content.GeneratedContent {
	t.Helper()
	wav := media.PCMToWAV(make([]byte, 24000*2), 24000, 1)
	audio := base64.StdEncoding.EncodeToString(wav)
	return &content.GeneratedContent{
		Topic:         "Water",
		Explanation:   "Water is *wet*.",
		AudioBase64:   &audio,
		AudioMIMEType: "audio/wav",
		Quiz: []content.QuizQuestion{
			{ID: 1, Question: "Wet?", Options: content.Options{A: "yes", B: "no", C: "maybe", D: "never"}, CorrectAnswer: content.OptionA},
		},
		Slides:   []content.SlideContent{{Title: "S", BulletPoints: []string{"b1", "b2"}, ImagePrompt: "secret prompt"}},
		Theme:    content.ThemeDark,
		Language: content.LanguageEnglish,
	}
}

func TestNewView(t *testing.T) {
	v, err := NewView(lessonWithWAV(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(v.ExplanationHTML), "<em>wet</em>") {
		t.Errorf("explanation = %s", v.ExplanationHTML)
	}
	if len(v.Quiz) != 1 || len(v.Quiz[0].Options) != 4 || v.Quiz[0].Options[2].Text != "maybe" {
		t.Errorf("quiz view = %+v", v.Quiz)
	}
	if !v.HasAudio || v.AudioSeconds != 1 {
		t.Errorf("audio = %v, %vs", v.HasAudio, v.AudioSeconds)
	}
	if v.Palette != PaletteFor(content.ThemeDark) {
		t.Error("palette should follow the theme")
	}
	if len(v.Slides) != 1 || v.Slides[0].ImageURL != "" {
		t.Errorf("slides = %+v", v.Slides)
	}
}

func TestDecodeAudio(t *testing.T) {
	data, mimeType, err := DecodeAudio(lessonWithWAV(t))
	if err != nil || mimeType != "audio/wav" || len(data) != 44+48000 {
		t.Errorf("DecodeAudio = %d bytes, %q, %v", len(data), mimeType, err)
	}

	if _, _, err := DecodeAudio(&content.GeneratedContent{}); err != media.ErrNoMedia {
		t.Errorf("no audio = %v", err)
	}
}

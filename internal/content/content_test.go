package content

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func sampleContent() *GeneratedContent {
	audio := "bXAz"
	return &GeneratedContent{
		Topic:       "Photosynthesis",
		Explanation: "# Light\nPlants use light.",
		AudioBase64: &audio,
		Quiz: []QuizQuestion{
			{ID: 1, Question: "What do plants use?", Options: Options{A: "Light", B: "Sound", C: "Heat", D: "Wind"}, CorrectAnswer: OptionA},
		},
		Slides: []SlideContent{
			{Title: "Intro", BulletPoints: []string{"Light", "Water"}, ImagePrompt: "a leaf"},
		},
		Theme:     ThemeDark,
		Language:  LanguageEnglish,
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleContent()
	cp := orig.Clone()

	cp.Quiz[0].Question = "changed"
	cp.Slides[0].BulletPoints[0] = "changed"
	*cp.AudioBase64 = "changed"

	if orig.Quiz[0].Question == "changed" {
		t.Error("quiz shares backing array with clone")
	}
	if orig.Slides[0].BulletPoints[0] == "changed" {
		t.Error("bullet points share backing array with clone")
	}
	if *orig.AudioBase64 == "changed" {
		t.Error("audio pointer shared with clone")
	}
}

func TestCloneNil(t *testing.T) {
	var c *GeneratedContent
	if c.Clone() != nil {
		t.Error("expected nil clone of nil content")
	}
}

func TestWithAudio(t *testing.T) {
	orig := sampleContent()
	updated := orig.WithAudio("bmV3", "audio/wav")
	if *updated.AudioBase64 != "bmV3" || updated.AudioMIMEType != "audio/wav" {
		t.Errorf("audio not replaced: %v %q", updated.AudioBase64, updated.AudioMIMEType)
	}
	if *orig.AudioBase64 != "bXAz" {
		t.Error("original aggregate mutated")
	}
	if updated.Explanation != orig.Explanation || len(updated.Slides) != 1 {
		t.Error("other fields must be carried unchanged")
	}

	cleared := orig.WithAudio("", "")
	if cleared.HasAudio() {
		t.Error("expected narration cleared")
	}
}

func TestWithTheme(t *testing.T) {
	orig := sampleContent()
	updated := orig.WithTheme(ThemePlayful)
	if updated.Theme != ThemePlayful || orig.Theme != ThemeDark {
		t.Errorf("theme replace: got %q, original %q", updated.Theme, orig.Theme)
	}
}

func TestJSONFieldNames(t *testing.T) {
	data, err := json.Marshal(sampleContent())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"topic"`, `"explanation"`, `"audioBase64"`, `"quiz"`, `"slides"`, `"theme"`, `"language"`, `"createdAt":"2025-03-01T12:00:00Z"`, `"correctAnswer":"A"`, `"bulletPoints"`, `"imagePrompt"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}
}

func TestNilAudioMarshalsNull(t *testing.T) {
	c := sampleContent()
	c.AudioBase64 = nil
	data, _ := json.Marshal(c)
	if !strings.Contains(string(data), `"audioBase64":null`) {
		t.Errorf("expected null audio, got %s", data)
	}
}

func TestQuizQuestionValidate(t *testing.T) {
	good := QuizQuestion{ID: 1, Question: "Q", Options: Options{A: "a", B: "b", C: "c", D: "d"}, CorrectAnswer: OptionC}
	tests := []struct {
		name    string
		mutate  func(q *QuizQuestion)
		wantErr bool
	}{
		{"valid", func(q *QuizQuestion) {}, false},
		{"blank question", func(q *QuizQuestion) { q.Question = "  " }, true},
		{"missing option", func(q *QuizQuestion) { q.Options.D = "" }, true},
		{"bad answer", func(q *QuizQuestion) { q.CorrectAnswer = "E" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := good
			tt.mutate(&q)
			if err := q.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlideValidate(t *testing.T) {
	if err := (SlideContent{Title: "T", BulletPoints: []string{"", "x"}}).Validate(); err != nil {
		t.Errorf("expected valid slide, got %v", err)
	}
	if err := (SlideContent{Title: "T", BulletPoints: []string{" "}}).Validate(); err == nil {
		t.Error("expected error for slide without bullets")
	}
	if err := (SlideContent{BulletPoints: []string{"x"}}).Validate(); err == nil {
		t.Error("expected error for slide without title")
	}
}

func TestParseOptionKey(t *testing.T) {
	if k, ok := ParseOptionKey(" b "); !ok || k != OptionB {
		t.Errorf("ParseOptionKey(b) = %q, %v", k, ok)
	}
	if _, ok := ParseOptionKey("E"); ok {
		t.Error("E should not be a valid key")
	}
}

func TestThemeStyleModifier(t *testing.T) {
	if !strings.Contains(ThemeDark.StyleModifier(), "neon") {
		t.Errorf("dark style = %q", ThemeDark.StyleModifier())
	}
	if Theme("sepia").StyleModifier() != defaultStyle {
		t.Error("unknown theme should use the default style")
	}
	if _, err := ParseTheme("sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestLanguageName(t *testing.T) {
	tests := map[Language]string{
		LanguageKazakh:  "Kazakh",
		LanguageRussian: "Russian",
		LanguageEnglish: "English",
	}
	for lang, want := range tests {
		if got := lang.Name(); got != want {
			t.Errorf("%s.Name() = %q, want %q", lang, got, want)
		}
	}
	if _, err := ParseLanguage("de"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

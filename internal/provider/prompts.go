package provider

import (
	"fmt"

	"github.com/ziadkadry99/edugen/internal/content"
)

const explanationSystemPrompt = "You are an experienced school teacher who writes clear, engaging lessons for students in grades 7 to 11."

func explanationPrompt(topic string, lang content.Language) string {
	return fmt.Sprintf(`Explain the topic "%s" for a school student (grades 7-11).
Write in %s.
Length: 250 to 300 words.
Use Markdown with headers, short paragraphs and a few bullet lists.
Start with the main idea, then give examples, and finish with a short summary.`, topic, lang.Name())
}

func quizPrompt(explanation string, lang content.Language, n int) string {
	return fmt.Sprintf(`Based on the lesson below, write a quiz of %d multiple-choice questions in %s.
Each question has exactly four options keyed A, B, C and D, and exactly one correct answer.
Return JSON: an array of objects {"id": number, "question": string, "options": {"A": string, "B": string, "C": string, "D": string}, "correctAnswer": "A"|"B"|"C"|"D"}.

Lesson:
%s`, n, lang.Name(), explanation)
}

func slidesPrompt(explanation string, lang content.Language, n int) string {
	return fmt.Sprintf(`Turn the lesson below into %d presentation slides in %s.
Each slide has a short title and 3 to 4 concise bullet points.
For each slide also write "imagePrompt": a one-sentence visual description IN ENGLISH for an illustration that contains no text.
Return JSON: an array of objects {"title": string, "bulletPoints": [string], "imagePrompt": string}.

Lesson:
%s`, n, lang.Name(), explanation)
}

var quizSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":       map[string]any{"type": "integer"},
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"A": map[string]any{"type": "string"},
					"B": map[string]any{"type": "string"},
					"C": map[string]any{"type": "string"},
					"D": map[string]any{"type": "string"},
				},
				"required": []string{"A", "B", "C", "D"},
			},
			"correctAnswer": map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D"}},
		},
		"required": []string{"id", "question", "options", "correctAnswer"},
	},
}

var slidesSchema = map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"bulletPoints": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"imagePrompt":  map[string]any{"type": "string"},
		},
		"required": []string{"title", "bulletPoints", "imagePrompt"},
	},
}

// Package provider adapts the text, image and speech backends to the five
// operations a lesson run needs.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/llm"
	"github.com/ziadkadry99/edugen/internal/media"
)

// ErrMalformedResponse means the backend answered but the payload could not
// be read as the requested structure.
var ErrMalformedResponse = errors.New("provider: malformed response")

// Adapter is the capability set a generation run depends on.
type Adapter interface {
	GenerateExplanation(ctx context.Context, topic string, lang content.Language) (string, error)
	GenerateQuiz(ctx context.Context, explanation string, lang content.Language) ([]content.QuizQuestion, error)
	GenerateSlideContent(ctx context.Context, explanation string, lang content.Language) ([]content.SlideContent, error)
	// GenerateSlideImage returns an image reference, or "" when the backend
	// produced no image.
	GenerateSlideImage(ctx context.Context, prompt string, theme content.Theme) (string, error)
	// GenerateAudio returns base64 narration and its mime type, or "" when
	// the backend produced no audio.
	GenerateAudio(ctx context.Context, text string, lang content.Language) (audio, mimeType string, err error)
}

// Options sizes the generated lesson.
type Options struct {
	QuizSize   int
	SlideCount int
}

// Generator implements Adapter over an llm.Provider and the media backends.
type Generator struct {
	text   llm.Provider
	images media.ImageGenerator
	speech media.SpeechSynthesizer
	opts   Options
}

// NewGenerator wires the backends together. speech may be nil, in which case
// every lesson is produced without narration.
func NewGenerator(text llm.Provider, images media.ImageGenerator, speech media.SpeechSynthesizer, opts Options) *Generator {
	if opts.QuizSize <= 0 {
		opts.QuizSize = 5
	}
	if opts.SlideCount <= 0 {
		opts.SlideCount = 5
	}
	return &Generator{text: text, images: images, speech: speech, opts: opts}
}

func (g *Generator) GenerateExplanation(ctx context.Context, topic string, lang content.Language) (string, error) {
	resp, err := g.text.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: explanationSystemPrompt},
			{Role: llm.RoleUser, Content: explanationPrompt(topic, lang)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generating explanation: %w", err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", fmt.Errorf("generating explanation: %w", llm.ErrEmptyCompletion)
	}
	return text, nil
}

func (g *Generator) GenerateQuiz(ctx context.Context, explanation string, lang content.Language) ([]content.QuizQuestion, error) {
	resp, err := g.text.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: quizPrompt(explanation, lang, g.opts.QuizSize)},
		},
		Temperature: 0.4,
		JSONMode:    true,
		Schema:      quizSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generating quiz: %w", err)
	}
	return ParseQuiz(resp.Content, g.opts.QuizSize)
}

func (g *Generator) GenerateSlideContent(ctx context.Context, explanation string, lang content.Language) ([]content.SlideContent, error) {
	resp, err := g.text.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: slidesPrompt(explanation, lang, g.opts.SlideCount)},
		},
		Temperature: 0.5,
		JSONMode:    true,
		Schema:      slidesSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generating slides: %w", err)
	}
	return ParseSlides(resp.Content, g.opts.SlideCount)
}

// StyledImagePrompt prefixes prompt with the theme's art direction.
func StyledImagePrompt(prompt string, theme content.Theme) string {
	return theme.StyleModifier() + ". " + prompt
}

func (g *Generator) GenerateSlideImage(ctx context.Context, prompt string, theme content.Theme) (string, error) {
	if g.images == nil {
		return "", nil
	}
	img, err := g.images.GenerateImage(ctx, StyledImagePrompt(prompt, theme))
	if errors.Is(err, media.ErrNoMedia) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return img.Reference(), nil
}

func (g *Generator) GenerateAudio(ctx context.Context, text string, lang content.Language) (string, string, error) {
	if g.speech == nil || strings.TrimSpace(text) == "" {
		return "", "", nil
	}
	speech, err := g.speech.Synthesize(ctx, text, lang)
	if errors.Is(err, media.ErrNoMedia) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return speech.Base64(), speech.MIMEType, nil
}

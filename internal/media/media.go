// Package media produces slide illustrations and lesson narration.
package media

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/llm"
)

// ErrNoMedia is returned when a backend answers successfully but carries no
// image or audio payload.
var ErrNoMedia = errors.New("media: response carried no payload")

// Image is a generated illustration: either inline bytes or a remote URL.
type Image struct {
	Data     []byte
	MIMEType string
	URL      string
}

// Reference returns what a slide stores: the remote URL, or a data URI.
func (i *Image) Reference() string {
	if i == nil {
		return ""
	}
	if i.URL != "" {
		return i.URL
	}
	if len(i.Data) == 0 {
		return ""
	}
	mime := i.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// ImageGenerator turns a styled prompt into an image.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
	Name() string
}

// Speech is synthesized narration audio.
type Speech struct {
	Data     []byte
	MIMEType string
}

// Base64 encodes the narration for storage in the lesson aggregate.
func (s *Speech) Base64() string {
	if s == nil || len(s.Data) == 0 {
		return ""
	}
	return base64.StdEncoding.EncodeToString(s.Data)
}

// SpeechSynthesizer turns plain text into narration in the given language.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, lang content.Language) (*Speech, error)
	Name() string
}

type limitedImages struct {
	ImageGenerator
	limiter *llm.Limiter
}

// LimitImages makes gen wait on limiter before every request.
func LimitImages(gen ImageGenerator, limiter *llm.Limiter) ImageGenerator {
	return &limitedImages{ImageGenerator: gen, limiter: limiter}
}

func (l *limitedImages) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.ImageGenerator.GenerateImage(ctx, prompt)
}

type limitedSpeech struct {
	SpeechSynthesizer
	limiter *llm.Limiter
}

// LimitSpeech makes s wait on limiter before every request.
func LimitSpeech(s SpeechSynthesizer, limiter *llm.Limiter) SpeechSynthesizer {
	return &limitedSpeech{SpeechSynthesizer: s, limiter: limiter}
}

func (l *limitedSpeech) Synthesize(ctx context.Context, text string, lang content.Language) (*Speech, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.SpeechSynthesizer.Synthesize(ctx, text, lang)
}

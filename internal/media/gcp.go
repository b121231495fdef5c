package media

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	texttospeechpb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/ziadkadry99/edugen/internal/content"
)

// gcpMaxBytes keeps each request under the 5000-byte input limit.
const gcpMaxBytes = 4500

var gcpLanguageCodes = map[content.Language]string{
	content.LanguageKazakh:  "kk-KZ",
	content.LanguageRussian: "ru-RU",
	content.LanguageEnglish: "en-US",
}

// GCPSpeech narrates with Google Cloud Text-to-Speech.
type GCPSpeech struct {
	client *texttospeech.Client
	voice  string
}

// NewGCPSpeech dials the Text-to-Speech API. An empty credentialsFile uses
// application default credentials.
func NewGCPSpeech(ctx context.Context, credentialsFile, voice string) (*GCPSpeech, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}
	return &GCPSpeech{client: client, voice: voice}, nil
}

func (g *GCPSpeech) Name() string { return "gcp" }

// Close releases the gRPC connection.
func (g *GCPSpeech) Close() error {
	return g.client.Close()
}

func (g *GCPSpeech) Synthesize(ctx context.Context, text string, lang content.Language) (*Speech, error) {
	code, ok := gcpLanguageCodes[lang]
	if !ok {
		code = gcpLanguageCodes[content.DefaultLanguage]
	}
	voice := &texttospeechpb.VoiceSelectionParams{LanguageCode: code}
	// Named voices are language specific; only use one that matches.
	if g.voice != "" && strings.HasPrefix(g.voice, code) {
		voice.Name = g.voice
	}

	var audio []byte
	for _, chunk := range splitByBytes(text, gcpMaxBytes) {
		resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: voice,
			AudioConfig: &texttospeechpb.AudioConfig{
				AudioEncoding: texttospeechpb.AudioEncoding_MP3,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("cloud text-to-speech: %w", err)
		}
		// MP3 frames concatenate into a valid stream.
		audio = append(audio, resp.AudioContent...)
	}
	if len(audio) == 0 {
		return nil, ErrNoMedia
	}
	return &Speech{Data: audio, MIMEType: "audio/mpeg"}, nil
}

// splitByBytes cuts text into chunks of at most max bytes, preferring to
// break after sentence punctuation and never inside a rune.
func splitByBytes(text string, max int) []string {
	var chunks []string
	for len(text) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if i := strings.LastIndexAny(text[:cut], ".!?"); i > max/2 {
			cut = i + 1
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = text[cut:]
	}
	if s := strings.TrimSpace(text); s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

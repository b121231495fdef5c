package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tcolgate/mp3"
)

// Extension returns the file extension for a narration MIME type.
func Extension(mimeType string) string {
	if strings.Contains(mimeType, "wav") {
		return ".wav"
	}
	return ".mp3"
}

// Duration returns the playback length of a narration payload.
func Duration(data []byte, mimeType string) (time.Duration, error) {
	switch {
	case strings.Contains(mimeType, "wav"):
		return wavDuration(data)
	case mimeType == "" || strings.Contains(mimeType, "mpeg") || strings.Contains(mimeType, "mp3"):
		return mp3Duration(data)
	default:
		return 0, fmt.Errorf("media: cannot measure %q audio", mimeType)
	}
}

// mp3Duration sums the duration of every frame, like a player would.
func mp3Duration(data []byte) (time.Duration, error) {
	var (
		total   time.Duration
		dec     = mp3.NewDecoder(bytes.NewReader(data))
		frame   mp3.Frame
		skipped int
		frames  int
	)
	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, fmt.Errorf("decoding mp3: %w", err)
		}
		frames++
		total += frame.Duration()
	}
	if frames == 0 {
		return 0, errors.New("media: no mp3 frames found")
	}
	return total, nil
}

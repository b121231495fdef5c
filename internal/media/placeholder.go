package media

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// Placeholder returns stock-photo URLs instead of generating images.
type Placeholder struct {
	// Pattern is a URL with one %d verb for the seed.
	Pattern string
}

func (p *Placeholder) Name() string { return "placeholder" }

// GenerateImage returns a URL seeded by the prompt, so the same prompt
// always gets the same picture.
func (p *Placeholder) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	h := fnv.New32a()
	h.Write([]byte(prompt))
	return &Image{URL: FallbackURL(p.Pattern, int(h.Sum32()%1000))}, nil
}

// FallbackURL formats the fallback image for a seed. Patterns without a
// %d verb are returned unchanged.
func FallbackURL(pattern string, seed int) string {
	if !strings.Contains(pattern, "%d") {
		return pattern
	}
	return fmt.Sprintf(pattern, seed)
}

package content

import "fmt"

// Theme is the visual theme of a lesson. It influences image style and the
// viewer palette only.
type Theme string

const (
	ThemeModern  Theme = "modern"
	ThemeDark    Theme = "dark"
	ThemePlayful Theme = "playful"
	ThemeClassic Theme = "classic"
)

// Themes lists all themes in picker order.
var Themes = []Theme{ThemeModern, ThemeDark, ThemePlayful, ThemeClassic}

// DefaultTheme is used for fresh sessions.
const DefaultTheme = ThemeModern

// HistoryFallbackTheme is applied to restored snapshots that carry no theme.
const HistoryFallbackTheme = ThemeDark

const defaultStyle = "educational illustration, vector art style, clean background"

var themeStyles = map[Theme]string{
	ThemeModern:  "minimalist, clean lines, corporate memphis style, bright, high quality vector art",
	ThemeDark:    "futuristic, neon glow, cyber style, dark background, digital art",
	ThemePlayful: "cheerful, colorful, flat design illustration, cartoon style, rounded shapes",
	ThemeClassic: "realistic, academic, oil painting style, detailed, historical context",
}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	_, ok := themeStyles[t]
	return ok
}

// StyleModifier returns the image-style prefix for t.
func (t Theme) StyleModifier() string {
	if s, ok := themeStyles[t]; ok {
		return s
	}
	return defaultStyle
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown theme %q: must be one of modern, dark, playful, classic", s)
	}
	return t, nil
}

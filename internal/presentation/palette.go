package presentation

import "github.com/ziadkadry99/edugen/internal/content"

// Palette is the dashboard colour scheme of a theme.
type Palette struct {
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Font       string `json:"font"`
}

var palettes = map[content.Theme]Palette{
	content.ThemeModern:  {Background: "#ffffff", Surface: "#f1f5f9", Text: "#0f172a", Accent: "#2563eb", Font: "Inter, system-ui, sans-serif"},
	content.ThemeDark:    {Background: "#0f172a", Surface: "#1e293b", Text: "#f8fafc", Accent: "#818cf8", Font: "Inter, system-ui, sans-serif"},
	content.ThemePlayful: {Background: "#fff7ed", Surface: "#fde68a", Text: "#7c2d12", Accent: "#f97316", Font: "\"Comic Neue\", \"Comic Sans MS\", cursive"},
	content.ThemeClassic: {Background: "#fdfbf7", Surface: "#f5ecd9", Text: "#292524", Accent: "#854d0e", Font: "Georgia, \"Times New Roman\", serif"},
}

// PaletteFor returns the palette of theme, or the default theme's.
func PaletteFor(theme content.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[content.DefaultTheme]
}

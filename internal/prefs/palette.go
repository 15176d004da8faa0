package prefs

// Palette elements that can be overridden per theme.
const (
	ElementBackground = "bg_color"
	ElementText       = "fg_color"
	ElementAccent     = "accent_color"
	ElementHighlight  = "highlight_color"
)

// PaletteElements lists the overridable elements.
var PaletteElements = []string{ElementBackground, ElementText, ElementAccent, ElementHighlight}

var basePalettes = map[Theme]map[string]string{
	ThemeLight: {
		ElementBackground: "#F0F0F0",
		ElementText:       "#000000",
		ElementAccent:     "#0078D7",
		ElementHighlight:  "#E5E5E5",
	},
	ThemeDark: {
		ElementBackground: "#2E2E2E",
		ElementText:       "#FFFFFF",
		ElementAccent:     "#007ACC",
		ElementHighlight:  "#3C3C3C",
	},
}

// Palette returns the colours of theme with the user's overrides applied.
func (p Preferences) Palette(theme Theme) map[string]string {
	if !theme.Valid() {
		theme = ThemeLight
	}
	out := make(map[string]string, len(PaletteElements))
	for k, v := range basePalettes[theme] {
		out[k] = v
	}
	for k, v := range p.CustomColors[theme] {
		out[k] = v
	}
	return out
}

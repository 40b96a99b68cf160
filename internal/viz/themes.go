package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/particlebox/internal/physics"
)

// Theme defines the colors used for walls, bodies and the side panel.
type Theme struct {
	Name      string
	Wall      lipgloss.Color
	InnerWall lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color

	// Bodies maps a body color tag to the color drawn for it. A nil map draws
	// every tag as-is.
	Bodies map[string]lipgloss.Color
}

// Body returns the color for a body tag.
func (t Theme) Body(tag string) lipgloss.Color {
	if tag == "" {
		tag = physics.TagDefault
	}
	if t.Bodies == nil {
		return lipgloss.Color(tag)
	}
	if c, ok := t.Bodies[tag]; ok {
		return c
	}
	return t.Text
}

var (
	ThemeTags = Theme{
		Name:      "tags",
		Wall:      lipgloss.Color("#e5e7eb"),
		InnerWall: lipgloss.Color("#6b7280"),
		Accent:    lipgloss.Color("#22d3ee"),
		Text:      lipgloss.Color("#f3f4f6"),
		Muted:     lipgloss.Color("#6b7280"),
		Warning:   lipgloss.Color("#facc15"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Wall:      lipgloss.Color("#00ff00"), // Green phosphor
		InnerWall: lipgloss.Color("#005500"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Warning:   lipgloss.Color("#ffff00"),
		Bodies: map[string]lipgloss.Color{
			physics.TagDefault:     "#00ff00",
			physics.TagSST:         "#ccff66",
			physics.TagVortexOuter: "#00cc00",
			physics.TagVortexInner: "#88ff88",
			physics.TagSwarmInner:  "#88ff88",
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Wall:      lipgloss.Color("#ffffff"),
		InnerWall: lipgloss.Color("#888888"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Warning:   lipgloss.Color("#ffaa00"),
		Bodies:    map[string]lipgloss.Color{},
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Wall:      lipgloss.Color("#feca57"),
		InnerWall: lipgloss.Color("#8b6b8c"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Warning:   lipgloss.Color("#ffc048"),
		Bodies: map[string]lipgloss.Color{
			physics.TagDefault:     "#ff6b6b", // Coral
			physics.TagSST:         "#feca57",
			physics.TagVortexOuter: "#ff9f43",
			physics.TagVortexInner: "#ff9ff3",
			physics.TagSwarmInner:  "#ff9ff3",
		},
	}

	Themes = []Theme{
		ThemeTags,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the tag colors.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeTags
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

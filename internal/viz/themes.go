package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for lattice views
type Theme struct {
	Name   string
	Up     lipgloss.Color
	Down   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	// Domains cycles through Palette by label.
	Palette []lipgloss.Color
}

// Available themes
var (
	ThemeMagnet = Theme{
		Name:   "magnet",
		Up:     lipgloss.Color("#ff4455"), // North red
		Down:   lipgloss.Color("#3366ff"), // South blue
		Accent: lipgloss.Color("#ffcc00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Palette: []lipgloss.Color{
			"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
			"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
		},
	}

	ThemeMono = Theme{
		Name:   "mono",
		Up:     lipgloss.Color("#ffffff"),
		Down:   lipgloss.Color("#000000"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Palette: []lipgloss.Color{
			"#ffffff", "#bbbbbb", "#888888", "#555555", "#dddddd", "#999999",
		},
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Up:     lipgloss.Color("#00ff00"), // Green phosphor
		Down:   lipgloss.Color("#002200"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Palette: []lipgloss.Color{
			"#00ff00", "#00aa00", "#88ff88", "#005500", "#00cc66", "#66ff00",
		},
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Up:     lipgloss.Color("#feca57"),
		Down:   lipgloss.Color("#2d1b2e"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Palette: []lipgloss.Color{
			"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#ffc048", "#ff4757",
		},
	}

	// Default theme
	CurrentTheme = ThemeMagnet

	// All available themes
	Themes = []Theme{
		ThemeMagnet,
		ThemeMono,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMagnet
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeMagnet
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

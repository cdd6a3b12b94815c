package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view: agents, the target and the title gradient.
type Theme struct {
	Name   string
	Flock  lipgloss.Color
	Target lipgloss.Color
	Title  [2]lipgloss.Color
	Border lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Flock:  lipgloss.Color("#00ffff"),
		Target: lipgloss.Color("#ff00ff"),
		Title:  [2]lipgloss.Color{"#ff00ff", "#00ffff"},
		Border: lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Flock:  lipgloss.Color("#00ff00"),
		Target: lipgloss.Color("#88ff88"),
		Title:  [2]lipgloss.Color{"#00cc00", "#88ff88"},
		Border: lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Flock:  lipgloss.Color("#00a8cc"),
		Target: lipgloss.Color("#ffd700"),
		Title:  [2]lipgloss.Color{"#0077be", "#e0f0ff"},
		Border: lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Flock:  lipgloss.Color("#feca57"),
		Target: lipgloss.Color("#ff4757"),
		Title:  [2]lipgloss.Color{"#ff6b6b", "#ff9ff3"},
		Border: lipgloss.Color("#8b6b8c"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

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
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

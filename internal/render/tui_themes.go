package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme for the chat screen
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color // header and bot label
	Secondary lipgloss.Color // user label
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color

	// Markdown is the glamour style that suits this palette
	Markdown string
}

// Built-in TUI themes
var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - Dark theme with blue accents",

		Surface: lipgloss.Color("#24283b"),
		Border:  lipgloss.Color("#414868"),

		Primary:   lipgloss.Color("#7aa2f7"),
		Secondary: lipgloss.Color("#9ece6a"),
		Accent:    lipgloss.Color("#bb9af7"),
		Warning:   lipgloss.Color("#e0af68"),
		Error:     lipgloss.Color("#f7768e"),

		Text:     lipgloss.Color("#c0caf5"),
		TextDim:  lipgloss.Color("#565f89"),
		TextMute: lipgloss.Color("#3b4261"),

		Markdown: "tokyo-night",
	}

	CatppuccinTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - Warm dark theme with pastel colors",

		Surface: lipgloss.Color("#313244"),
		Border:  lipgloss.Color("#45475a"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#a6e3a1"),
		Accent:    lipgloss.Color("#cba6f7"),
		Warning:   lipgloss.Color("#f9e2af"),
		Error:     lipgloss.Color("#f38ba8"),

		Text:     lipgloss.Color("#cdd6f4"),
		TextDim:  lipgloss.Color("#6c7086"),
		TextMute: lipgloss.Color("#45475a"),

		Markdown: StyleDark,
	}

	// McIntireTheme uses the navy and orange of the school the service was built for
	McIntireTheme = TUITheme{
		Name:        "mcintire",
		Description: "McIntire - Navy and orange",

		Surface: lipgloss.Color("#1b2a41"),
		Border:  lipgloss.Color("#324a6d"),

		Primary:   lipgloss.Color("#e57200"),
		Secondary: lipgloss.Color("#9fc5e8"),
		Accent:    lipgloss.Color("#f2a65a"),
		Warning:   lipgloss.Color("#ffd166"),
		Error:     lipgloss.Color("#ef476f"),

		Text:     lipgloss.Color("#e8eef7"),
		TextDim:  lipgloss.Color("#7d8fa9"),
		TextMute: lipgloss.Color("#324a6d"),

		Markdown: StyleDark,
	}

	LightTheme = TUITheme{
		Name:        "light",
		Description: "Light - For bright terminals",

		Surface: lipgloss.Color("#eef1f5"),
		Border:  lipgloss.Color("#c0c6d0"),

		Primary:   lipgloss.Color("#2e59a8"),
		Secondary: lipgloss.Color("#3c7a2e"),
		Accent:    lipgloss.Color("#8a3fa0"),
		Warning:   lipgloss.Color("#a66a00"),
		Error:     lipgloss.Color("#c0392b"),

		Text:     lipgloss.Color("#1f2430"),
		TextDim:  lipgloss.Color("#6b7280"),
		TextMute: lipgloss.Color("#c0c6d0"),

		Markdown: StyleLight,
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the currently active TUI theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme sets the active TUI theme by name
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns every built-in TUI theme
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{
		TokyoNightTheme,
		CatppuccinTheme,
		McIntireTheme,
		LightTheme,
	}
}

// TUIThemeNames returns just the theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

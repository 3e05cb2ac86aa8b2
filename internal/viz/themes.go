package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/sailsim/internal/dynamo"
)

// Theme is the colour scheme of the live view.
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Hull   lipgloss.Color
	Sail   lipgloss.Color
	Wind   lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "harbour",
		Title:  lipgloss.Color("#00a8cc"),
		Hull:   lipgloss.Color("#e0f0ff"),
		Sail:   lipgloss.Color("#ffd700"),
		Wind:   lipgloss.Color("#4488aa"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#6688aa"),
		Border: lipgloss.Color("#335577"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffcc00"),
		Bad:    lipgloss.Color("#ff4444"),
	},
	{
		Name:   "night",
		Title:  lipgloss.Color("#ff00ff"),
		Hull:   lipgloss.Color("#ffffff"),
		Sail:   lipgloss.Color("#00ffff"),
		Wind:   lipgloss.Color("#666666"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Border: lipgloss.Color("#444466"),
		Good:   lipgloss.Color("#00ff00"),
		Warn:   lipgloss.Color("#ff8800"),
		Bad:    lipgloss.Color("#ff0000"),
	},
	{
		Name:   "retro",
		Title:  lipgloss.Color("#88ff88"),
		Hull:   lipgloss.Color("#00ff00"),
		Sail:   lipgloss.Color("#88ff88"),
		Wind:   lipgloss.Color("#005500"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#007700"),
		Border: lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Bad:    lipgloss.Color("#ff0000"),
	},
	{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Hull:   lipgloss.Color("#ffffff"),
		Sail:   lipgloss.Color("#0088ff"),
		Wind:   lipgloss.Color("#888888"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Border: lipgloss.Color("#555555"),
		Good:   lipgloss.Color("#00ff00"),
		Warn:   lipgloss.Color("#ffaa00"),
		Bad:    lipgloss.Color("#ff0000"),
	},
}

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
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

// next cycles to the theme after t.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// RegimeColor colours an aerodynamic regime. Plateau is the groove;
// luffing and stalled are both wrong.
func (t Theme) RegimeColor(r dynamo.Regime) lipgloss.Color {
	switch r {
	case dynamo.RegimePlateau:
		return t.Good
	case dynamo.RegimeRising:
		return t.Warn
	default:
		return t.Bad
	}
}

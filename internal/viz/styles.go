package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles are the lipgloss styles derived from one Theme.
type styles struct {
	panel   lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	hint    lipgloss.Style
	key     lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	badge   lipgloss.Style
	hull    lipgloss.Style
	sail    lipgloss.Style
	wind    lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		hint:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		key:     lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
		badge:   lipgloss.NewStyle().Bold(true).Foreground(t.Sail).Reverse(true).Padding(0, 1),
		hull:    lipgloss.NewStyle().Foreground(t.Hull),
		sail:    lipgloss.NewStyle().Foreground(t.Sail),
		wind:    lipgloss.NewStyle().Foreground(t.Wind),
	}
}

// bar renders frac of width as a block gauge.
func bar(frac float64, width int) string {
	if width < 1 {
		return ""
	}
	if math.IsNaN(frac) {
		frac = 0
	}
	filled := int(math.Round(math.Max(0, math.Min(frac, 1)) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// gauge colours bar by how full it is.
func gauge(t Theme, frac float64, width int) string {
	c := t.Bad
	switch {
	case frac > 0.8:
		c = t.Good
	case frac > 0.4:
		c = t.Warn
	}
	return lipgloss.NewStyle().Foreground(c).Render(bar(frac, width))
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline scales the last width values between their own min and max.
func sparkline(values []float64, width int) string {
	if width < 1 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		i := int((v - lo) / span * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[max(0, min(i, len(sparkRunes)-1))])
	}
	return b.String()
}

// keyHints renders pairs of key and action.
func (s styles) keyHints(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.key.Render(pairs[i])+" "+s.hint.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

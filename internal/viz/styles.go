package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Width(44)

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

	StatusRunning   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	StatusPaused    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	StatusRecording = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444")).Blink(true)

	Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Blend mixes a and b in Lab space, t = 0 giving a. Colours that are not
// "#rrggbb" are returned unchanged from a.
func Blend(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, err := colorful.Hex(string(a))
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		return a
	}
	t = max(0, min(t, 1))
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// ProgressBar renders a bar for fraction in [0, 1], shaded from the theme's
// down colour towards its up colour as it fills.
func ProgressBar(fraction float64, width int) string {
	filled := max(0, min(int(fraction*float64(width)), width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	c := Blend(CurrentTheme.Down, CurrentTheme.Up, fraction)
	return lipgloss.NewStyle().Foreground(c).Render(bar)
}

// SparklineChart renders the most recent width values, scaled to their own
// range. Each bar is shaded between the theme's down and up colours.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		idx := max(0, min(int(norm*float64(len(sparkRunes)-1)), len(sparkRunes)-1))
		style := lipgloss.NewStyle().Foreground(Blend(CurrentTheme.Down, CurrentTheme.Up, norm))
		b.WriteString(style.Render(string(sparkRunes[idx])))
	}
	return b.String()
}

// rgb converts a "#rrggbb" colour; anything else maps to white.
func rgb(c lipgloss.Color) color.RGBA {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

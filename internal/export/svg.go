package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/sim"
	"github.com/san-kum/isingsim/internal/viz"
)

func svgHeader(sb *strings.Builder, width, height float64, background string) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// LatticeToSVG draws every up spin as a cell x cell square over a background
// in the down colour.
func LatticeToSVG(l *lattice.Lattice, cell float64, theme viz.Theme) string {
	if l == nil || l.Size == 0 {
		return ""
	}

	side := float64(l.Size) * cell

	var sb strings.Builder
	svgHeader(&sb, side, side, string(theme.Down))
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", theme.Up))

	for i, s := range l.Spins {
		if s != lattice.Up {
			continue
		}
		x := float64(i%l.Size) * cell
		y := float64(i/l.Size) * cell
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, x, y, cell, cell))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// DomainsToSVG draws a labeling of an h x h lattice with one palette colour
// per domain. Each domain is one <g> group so it can be styled separately.
func DomainsToSVG(labels []int, h int, cell float64, theme viz.Theme) string {
	if h == 0 || len(labels) != h*h {
		return ""
	}

	palette := theme.Palette
	if len(palette) == 0 {
		palette = []lipgloss.Color{theme.Up, theme.Down}
	}

	groups := make(map[int][]int)
	order := make([]int, 0)
	for i, id := range labels {
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}

	side := float64(h) * cell

	var sb strings.Builder
	svgHeader(&sb, side, side, string(theme.Muted))

	for _, id := range order {
		fill := string(theme.Muted)
		if id >= 0 {
			fill = string(palette[id%len(palette)])
		}
		sb.WriteString(fmt.Sprintf("<g id=\"domain-%d\" fill=\"%s\">\n", id, fill))
		for _, i := range groups[id] {
			x := float64(i%h) * cell
			y := float64(i/h) * cell
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/>
`, x, y, cell, cell))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG draws the magnetization trace as a polyline on a fixed [-1, 1]
// vertical scale.
func TraceToSVG(samples []sim.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	minX := float64(samples[0].Trial)
	rangeX := float64(samples[len(samples)-1].Trial) - minX
	if rangeX == 0 {
		rangeX = 1
	}

	var sb strings.Builder

	svgHeader(&sb, float64(width), float64(height), "#0a0a0a")
	mid := float64(height) / 2
	sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-dasharray="4"/>
`, mid, width, mid))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, s := range samples {
		x := (float64(s.Trial) - minX) / rangeX * float64(width)
		y := mid - s.Magnetization*mid

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

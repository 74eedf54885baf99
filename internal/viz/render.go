package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/isingsim/internal/lattice"
)

const halfBlock = "▀"

// RenderLattice draws two lattice rows per terminal line using upper
// half-blocks: the foreground is the upper site, the background the lower.
func RenderLattice(l *lattice.Lattice, theme Theme) string {
	return renderHalfBlocks(l.Size, func(i int) lipgloss.Color {
		if l.Spins[i] == lattice.Up {
			return theme.Up
		}
		return theme.Down
	})
}

// RenderDomains draws a labeling of an h x h lattice, one palette colour per
// domain cycling when there are more domains than colours.
func RenderDomains(labels []int, h int, theme Theme) string {
	palette := theme.Palette
	if len(palette) == 0 {
		palette = []lipgloss.Color{theme.Up, theme.Down}
	}
	return renderHalfBlocks(h, func(i int) lipgloss.Color {
		id := labels[i]
		if id < 0 {
			return theme.Muted
		}
		return palette[id%len(palette)]
	})
}

func renderHalfBlocks(h int, colourAt func(i int) lipgloss.Color) string {
	styles := make(map[[2]lipgloss.Color]lipgloss.Style)
	var sb strings.Builder
	for row := 0; row < h; row += 2 {
		for col := 0; col < h; col++ {
			top := colourAt(row*h + col)
			var bottom lipgloss.Color
			if row+1 < h {
				bottom = colourAt((row+1)*h + col)
			}
			key := [2]lipgloss.Color{top, bottom}
			style, ok := styles[key]
			if !ok {
				style = lipgloss.NewStyle().Foreground(top)
				if bottom != "" {
					style = style.Background(bottom)
				}
				styles[key] = style
			}
			sb.WriteString(style.Render(halfBlock))
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

// RenderASCII draws one character per site: '#' for up and '.' for down.
func RenderASCII(l *lattice.Lattice) string {
	var sb strings.Builder
	for row := 0; row < l.Size; row++ {
		for col := 0; col < l.Size; col++ {
			if l.Spins[row*l.Size+col] == lattice.Up {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

const domainGlyphs = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RenderDomainsASCII draws one glyph per site, cycling through letters and
// digits by label. Unassigned sites are '?'.
func RenderDomainsASCII(labels []int, h int) string {
	var sb strings.Builder
	for row := 0; row < h; row++ {
		for col := 0; col < h; col++ {
			id := labels[row*h+col]
			if id < 0 {
				sb.WriteByte('?')
				continue
			}
			sb.WriteByte(domainGlyphs[id%len(domainGlyphs)])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderBraille packs 2x4 sites into each Braille character, with a dot for
// every up spin. Large lattices fit in a small terminal this way.
func RenderBraille(l *lattice.Lattice) string {
	c := NewCanvas(l.Size, l.Size)
	c.Plot(l, lattice.Up)
	return c.String()
}

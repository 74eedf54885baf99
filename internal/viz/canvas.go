package viz

import (
	"strings"

	"github.com/san-kum/isingsim/internal/lattice"
)

// dotBits maps a dot inside a 2x4 Braille cell, indexed row*2+col, to its
// bit in the U+2800 block.
var dotBits = [8]rune{0x01, 0x08, 0x02, 0x10, 0x04, 0x20, 0x40, 0x80}

const brailleBlank = 0x2800

// Canvas is a dot matrix printed as Braille, eight dots per character.
type Canvas struct {
	dotsW, dotsH int
	cols         int
	cells        []rune
}

// NewCanvas returns a blank canvas of w x h dots.
func NewCanvas(w, h int) *Canvas {
	cols, rows := (w+1)/2, (h+3)/4
	c := &Canvas{dotsW: w, dotsH: h, cols: cols, cells: make([]rune, cols*rows)}
	c.Clear()
	return c
}

func (c *Canvas) cell(x, y int) (int, rune, bool) {
	if x < 0 || y < 0 || x >= c.dotsW || y >= c.dotsH {
		return 0, 0, false
	}
	return (y/4)*c.cols + x/2, dotBits[(y%4)*2+x%2], true
}

// Set turns on the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if i, bit, ok := c.cell(x, y); ok {
		c.cells[i] |= bit
	}
}

func (c *Canvas) IsSet(x, y int) bool {
	i, bit, ok := c.cell(x, y)
	return ok && c.cells[i]&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
	}
}

// Plot sets one dot per site of l holding spin s.
func (c *Canvas) Plot(l *lattice.Lattice, s lattice.Spin) {
	for i, v := range l.Spins {
		if v == s {
			c.Set(i%l.Size, i/l.Size)
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for start := 0; start < len(c.cells); start += c.cols {
		b.WriteString(string(c.cells[start : start+c.cols]))
		b.WriteByte('\n')
	}
	return b.String()
}

package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/isingsim/internal/lattice"
)

var ErrNoFrames = errors.New("viz: no frames recorded")

// LatticeFrame paints each site as a cell x cell block in the theme's up and
// down colours.
func LatticeFrame(l *lattice.Lattice, cell int, theme Theme) *image.Paletted {
	if cell < 1 {
		cell = 1
	}
	side := l.Size * cell
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{rgb(theme.Down), rgb(theme.Up)})
	for i, s := range l.Spins {
		if s != lattice.Up {
			continue
		}
		baseX, baseY := (i%l.Size)*cell, (i/l.Size)*cell
		for py := 0; py < cell; py++ {
			for px := 0; px < cell; px++ {
				img.SetColorIndex(baseX+px, baseY+py, 1)
			}
		}
	}
	return img
}

// SaveGIF writes frames as a looping animation, delay in 1/100 s.
func SaveGIF(path string, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, &anim); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

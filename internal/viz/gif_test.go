package viz

import (
	"errors"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/isingsim/internal/lattice"
)

func TestLatticeFrame(t *testing.T) {
	l, _ := lattice.NewCheckerboard(3)
	img := LatticeFrame(l, 2, ThemeMono)

	if img.Bounds() != image.Rect(0, 0, 6, 6) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.ColorIndexAt(0, 0) != 1 || img.ColorIndexAt(1, 1) != 1 {
		t.Error("up site (0,0) should be painted")
	}
	if img.ColorIndexAt(2, 0) != 0 {
		t.Error("down site (0,1) should be background")
	}

	if b := LatticeFrame(l, 0, ThemeMono).Bounds(); b.Dx() != 3 {
		t.Errorf("cell size should clamp to 1, got width %d", b.Dx())
	}
}

func TestSaveGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := SaveGIF(path, nil, 5); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}

	l, _ := lattice.NewUniform(4)
	frames := []*image.Paletted{LatticeFrame(l, 1, ThemeMagnet), LatticeFrame(l, 1, ThemeMagnet)}
	if err := SaveGIF(path, frames, 5); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("expected 2 frames, got %d", len(anim.Image))
	}
}

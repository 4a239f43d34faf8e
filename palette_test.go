package mandel

import (
	"errors"
	"image/color"
	"testing"
)

func TestPalette_InSetIsBlack(t *testing.T) {
	for _, name := range PaletteNames() {
		p, err := ParsePalette(name)
		if err != nil {
			t.Fatalf("ParsePalette(%q) error = %v", name, err)
		}
		for _, max := range []int{1, 2, 255, 256, 1000, 1 << 20} {
			if got := p.Color(max, max); got != black {
				t.Errorf("%s.Color(%d, %d) = %v, want %v", name, max, max, got, black)
			}
		}
	}
}

func TestPalette_Deterministic(t *testing.T) {
	for _, name := range PaletteNames() {
		p, _ := ParsePalette(name)
		for iters := 0; iters < 300; iters += 7 {
			a, b := p.Color(iters, 300), p.Color(iters, 300)
			if a != b {
				t.Errorf("%s.Color(%d, 300) not stable: %v then %v", name, iters, a, b)
			}
			if a.A != 255 {
				t.Errorf("%s.Color(%d, 300).A = %d, want 255", name, iters, a.A)
			}
		}
	}
}

func TestPalette_BoundaryColor(t *testing.T) {
	// Points escaping immediately share one color regardless of the cap.
	for _, name := range PaletteNames() {
		p, _ := ParsePalette(name)
		want := p.Color(0, 10)
		for _, max := range []int{1, 100, 5000} {
			if got := p.Color(0, max); got != want {
				t.Errorf("%s.Color(0, %d) = %v, want %v", name, max, got, want)
			}
		}
	}
}

func TestModular_Channels(t *testing.T) {
	tests := []struct {
		iters int
		want  color.RGBA
	}{
		{0, color.RGBA{0, 0, 0, 255}},
		{1, color.RGBA{7, 13, 17, 255}},
		{20, color.RGBA{140, 4, 84, 255}},
	}
	for _, tt := range tests {
		if got := Modular.Color(tt.iters, 1000); got != tt.want {
			t.Errorf("Modular.Color(%d, 1000) = %v, want %v", tt.iters, got, tt.want)
		}
	}
}

func TestPolynomial_Midpoint(t *testing.T) {
	got := Polynomial.Color(500, 1000)
	if got.R == 0 || got.G == 0 || got.B == 0 {
		t.Errorf("Polynomial.Color(500, 1000) = %v, want all channels lit", got)
	}
}

func TestParsePalette_Unknown(t *testing.T) {
	_, err := ParsePalette("sepia")
	if !errors.Is(err, ErrUnknownPalette) {
		t.Errorf("ParsePalette(sepia) error = %v, want ErrUnknownPalette", err)
	}
}

package mandel

import (
	"fmt"
	"image/color"
	"math"
	"sort"
)

// Palette maps an escape-time iteration count to a color. Implementations
// must be pure: the result depends only on iters and max, and iters == max
// always maps to opaque black.
type Palette interface {
	Color(iters, max int) color.RGBA
}

// PaletteFunc adapts a function to the Palette interface.
type PaletteFunc func(iters, max int) color.RGBA

func (f PaletteFunc) Color(iters, max int) color.RGBA { return f(iters, max) }

var black = color.RGBA{A: 255}

// Polynomial blends Bernstein-like polynomials of the escape fraction
// t = iters/max into the three channels.
var Polynomial Palette = PaletteFunc(func(iters, max int) color.RGBA {
	if iters >= max {
		return black
	}
	t := float64(iters) / float64(max)
	u := 1 - t
	return color.RGBA{
		R: uint8(9 * u * t * t * t * 255),
		G: uint8(15 * u * u * t * t * 255),
		B: uint8(8.5 * u * u * u * t * 255),
		A: 255,
	}
})

// Modular cycles each channel with a different stride, producing sharp bands.
var Modular Palette = PaletteFunc(func(iters, max int) color.RGBA {
	if iters >= max {
		return black
	}
	return color.RGBA{
		R: uint8((iters * 7) % 256),
		G: uint8((iters * 13) % 256),
		B: uint8((iters * 17) % 256),
		A: 255,
	}
})

// HSV walks the hue circle at a fixed rate per iteration.
var HSV Palette = PaletteFunc(func(iters, max int) color.RGBA {
	if iters >= max {
		return black
	}
	return hsv(float64(iters)*0.02, 1, 1)
})

var palettes = map[string]Palette{
	"polynomial": Polynomial,
	"modular":    Modular,
	"hsv":        HSV,
}

// DefaultPalette is the name used when none is configured.
const DefaultPalette = "polynomial"

// ParsePalette returns the palette registered under name.
func ParsePalette(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPalette, name, PaletteNames())
	}
	return p, nil
}

// PaletteNames returns the registered palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

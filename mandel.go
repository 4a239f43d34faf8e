package mandel

import (
	"fmt"
	"sort"
)

// Viewport is the rectangle of the complex plane mapped onto one image.
type Viewport struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Validate reports whether the viewport has a positive extent on both axes.
func (v Viewport) Validate() error {
	if !(v.Xmax > v.Xmin) || !(v.Ymax > v.Ymin) {
		return fmt.Errorf("%w: x [%g, %g] y [%g, %g]", ErrEmptyViewport, v.Xmin, v.Xmax, v.Ymin, v.Ymax)
	}
	return nil
}

// Point is a coordinate in the complex plane.
type Point struct {
	X, Y float64
}

// Classic landmarks in the Mandelbrot set, usable as zoom targets.
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Point{X: -0.743643, Y: 0.131825}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Point{X: 0.282, Y: 0.01}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Point{X: -0.74275, Y: 0.13175}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Point{X: -0.088, Y: 0.654}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Point{X: -0.7375, Y: 0.1825}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Point{X: -1.73825, Y: -0.02275}
)

// Landmarks maps the names accepted on the command line to landmark centers.
var Landmarks = map[string]Point{
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"mini-spiral":   MinibrotInMiniSpiral,
}

// LandmarkNames returns the landmark names in sorted order.
func LandmarkNames() []string {
	names := make([]string, 0, len(Landmarks))
	for n := range Landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package mandel

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
)

// MaxRowWorkers is the largest number of row bands a single frame may be split into.
const MaxRowWorkers = 20

// RenderJob describes one frame to be rendered.
type RenderJob struct {
	FrameIndex    int
	Viewport      Viewport
	Width, Height int
	MaxIterations int
	// Workers is the number of concurrent row bands, in [1, MaxRowWorkers].
	Workers int
}

// Validate checks the job before any computation starts.
func (j RenderJob) Validate() error {
	if j.FrameIndex < 0 {
		return fmt.Errorf("mandel: negative frame index %d", j.FrameIndex)
	}
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, j.Width, j.Height)
	}
	if j.Width > math.MaxInt/4/j.Height {
		return fmt.Errorf("%w: %dx%d overflows the pixel buffer", ErrInvalidSize, j.Width, j.Height)
	}
	if j.MaxIterations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, j.MaxIterations)
	}
	if j.Workers < 1 || j.Workers > MaxRowWorkers {
		return fmt.Errorf("%w: %d row workers, want 1..%d", ErrInvalidWorkers, j.Workers, MaxRowWorkers)
	}
	return j.Viewport.Validate()
}

// At maps pixel (i, j) of a width x height image onto the plane.
func (v Viewport) At(i, j, width, height int) Point {
	return Point{
		X: v.Xmin + float64(i)*(v.Xmax-v.Xmin)/float64(width),
		Y: v.Ymin + float64(j)*(v.Ymax-v.Ymin)/float64(height),
	}
}

// RowBands partitions [0, height) into workers contiguous bands.
func RowBands(height, workers int) []FrameRange {
	return Split(height, workers)
}

// Renderer computes frames with a fixed palette.
// A Renderer holds no per-frame state and may be shared between goroutines.
type Renderer struct {
	palette Palette
}

// NewRenderer returns a renderer coloring with p, or Polynomial if p is nil.
func NewRenderer(p Palette) *Renderer {
	if p == nil {
		p = Polynomial
	}
	return &Renderer{palette: p}
}

// Render allocates a buffer and fills it with job.Workers concurrent row
// bands. Each band owns its rows exclusively. Render returns only after
// every band has finished; a panicking band fails the frame.
func (r *Renderer) Render(job RenderJob) (*image.RGBA, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, job.Width, job.Height))

	bands := RowBands(job.Height, job.Workers)
	errs := make([]error, len(bands))
	var wg sync.WaitGroup
	for k, band := range bands {
		if band.Len() == 0 {
			continue
		}
		wg.Go(func() {
			defer func() {
				if p := recover(); p != nil {
					errs[k] = fmt.Errorf("row band %s: panic: %v", band, p)
				}
			}()
			r.renderBand(img, job, band)
		})
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("render frame %d: %w", job.FrameIndex, err)
	}

	Logger().Debug("frame rendered",
		"frame", job.FrameIndex,
		"width", job.Width,
		"height", job.Height,
		"bands", job.Workers)
	return img, nil
}

func (r *Renderer) renderBand(img *image.RGBA, job RenderJob, band FrameRange) {
	for py := band.Start; py < band.End; py++ {
		for px := 0; px < job.Width; px++ {
			c := job.Viewport.At(px, py, job.Width, job.Height)
			iters := Iterations(c.X, c.Y, job.MaxIterations)
			img.SetRGBA(px, py, r.palette.Color(iters, job.MaxIterations))
		}
	}
}

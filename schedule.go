package mandel

import (
	"fmt"
	"iter"
	"math"
)

// ZoomSchedule describes a geometric zoom from StartScale to EndScale over
// Frames images, all centered on Center. Scale is the horizontal extent of
// the viewport; the vertical extent follows the image aspect ratio.
type ZoomSchedule struct {
	Center     Point
	StartScale float64
	EndScale   float64
	Frames     int
	Width      int
	Height     int
}

// Validate reports schedule parameters that cannot produce a viewport
// sequence. The extent is monotonic in the frame index, so the first and
// last viewports bound every frame in between.
func (s ZoomSchedule) Validate() error {
	switch {
	case !finite(s.Center.X) || !finite(s.Center.Y):
		return fmt.Errorf("%w: center (%g, %g) must be finite", ErrInvalidSchedule, s.Center.X, s.Center.Y)
	case s.Frames <= 0:
		return fmt.Errorf("%w: frame count %d must be positive", ErrInvalidSchedule, s.Frames)
	case !(s.StartScale > 0) || math.IsInf(s.StartScale, 0):
		return fmt.Errorf("%w: start scale %g must be positive and finite", ErrInvalidSchedule, s.StartScale)
	case !(s.EndScale > 0) || math.IsInf(s.EndScale, 0):
		return fmt.Errorf("%w: end scale %g must be positive and finite", ErrInvalidSchedule, s.EndScale)
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, s.Width, s.Height)
	case s.Width > math.MaxInt/4/s.Height:
		return fmt.Errorf("%w: %dx%d overflows the pixel buffer", ErrInvalidSize, s.Width, s.Height)
	}
	if err := s.Viewport(0).Validate(); err != nil {
		return fmt.Errorf("frame 0: %w", err)
	}
	i, v := s.Final()
	if err := v.Validate(); err != nil {
		return fmt.Errorf("frame %d: %w", i, err)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ZoomFactor is the per-frame scale ratio (EndScale/StartScale)^(1/Frames).
func (s ZoomSchedule) ZoomFactor() float64 {
	n := s.Frames
	if n < 1 {
		n = 1
	}
	return math.Pow(s.EndScale/s.StartScale, 1/float64(n))
}

// Scale returns the horizontal extent of frame i.
func (s ZoomSchedule) Scale(i int) float64 {
	return s.StartScale * math.Pow(s.ZoomFactor(), float64(i))
}

// Viewport returns the viewport of frame i.
func (s ZoomSchedule) Viewport(i int) Viewport {
	xs := s.Scale(i)
	ys := xs * float64(s.Height) / float64(s.Width)
	return Viewport{
		Xmin: s.Center.X - xs/2,
		Xmax: s.Center.X + xs/2,
		Ymin: s.Center.Y - ys/2,
		Ymax: s.Center.Y + ys/2,
	}
}

// All yields (index, viewport) for every frame in order. The sequence is
// computed lazily and may be ranged over any number of times.
func (s ZoomSchedule) All() iter.Seq2[int, Viewport] {
	return s.Range(FrameRange{Start: 0, End: s.Frames})
}

// Range yields the viewports of the frames in r.
func (s ZoomSchedule) Range(r FrameRange) iter.Seq2[int, Viewport] {
	return func(yield func(int, Viewport) bool) {
		for i := r.Start; i < r.End; i++ {
			if !yield(i, s.Viewport(i)) {
				return
			}
		}
	}
}

// Final returns the index and viewport of the last frame without
// generating the rest of the sequence.
func (s ZoomSchedule) Final() (int, Viewport) {
	i := max(s.Frames-1, 0)
	return i, s.Viewport(i)
}

package mandel

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b float64) bool { return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b)) }

func TestZoomSchedule_SingleFrame(t *testing.T) {
	s := ZoomSchedule{Center: Point{X: 0.3, Y: -0.1}, StartScale: 4, EndScale: 1e-3, Frames: 1, Width: 10, Height: 10}
	f := s.ZoomFactor()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		t.Fatalf("ZoomFactor() = %g with one frame", f)
	}
	v := s.Viewport(0)
	if !near(v.Xmax-v.Xmin, 4) {
		t.Errorf("frame 0 scale = %g, want 4", v.Xmax-v.Xmin)
	}
	if i, fv := s.Final(); i != 0 || fv != v {
		t.Errorf("Final() = %d %v, want 0 %v", i, fv, v)
	}
}

func TestZoomSchedule_TwoFrames(t *testing.T) {
	s := ZoomSchedule{Center: Point{X: -0.5, Y: 0}, StartScale: 4, EndScale: 2, Frames: 2, Width: 100, Height: 100}

	v0 := s.Viewport(0)
	want0 := Viewport{Xmin: -2.5, Xmax: 1.5, Ymin: -2, Ymax: 2}
	if !near(v0.Xmin, want0.Xmin) || !near(v0.Xmax, want0.Xmax) || !near(v0.Ymin, want0.Ymin) || !near(v0.Ymax, want0.Ymax) {
		t.Errorf("Viewport(0) = %+v, want %+v", v0, want0)
	}

	if f := s.ZoomFactor(); !near(f, math.Sqrt(0.5)) {
		t.Errorf("ZoomFactor() = %g, want %g", f, math.Sqrt(0.5))
	}
	v1 := s.Viewport(1)
	if got := v1.Xmax - v1.Xmin; !near(got, 4*math.Sqrt(0.5)) {
		t.Errorf("frame 1 scale = %g, want %g", got, 4*math.Sqrt(0.5))
	}
}

func TestZoomSchedule_AspectAndCenter(t *testing.T) {
	s := ZoomSchedule{Center: SeahorseValley, StartScale: 4, EndScale: 1e-11, Frames: 300, Width: 3840, Height: 2160}
	for i, v := range s.All() {
		xs, ys := v.Xmax-v.Xmin, v.Ymax-v.Ymin
		if !near(ys, xs*2160/3840) {
			t.Fatalf("frame %d: y extent %g, want %g", i, ys, xs*2160/3840)
		}
		cx, cy := (v.Xmin+v.Xmax)/2, (v.Ymin+v.Ymax)/2
		if math.Abs(cx-SeahorseValley.X) > 1e-9 || math.Abs(cy-SeahorseValley.Y) > 1e-9 {
			t.Fatalf("frame %d: center (%g, %g) moved", i, cx, cy)
		}
		if i > 0 {
			prev := s.Viewport(i - 1)
			if !(xs < prev.Xmax-prev.Xmin) {
				t.Fatalf("frame %d does not zoom in", i)
			}
		}
	}
}

func TestZoomSchedule_Geometric(t *testing.T) {
	s := ZoomSchedule{StartScale: 4, EndScale: 1e-6, Frames: 60, Width: 16, Height: 9}
	f := s.ZoomFactor()
	for i := 1; i < s.Frames; i++ {
		ratio := s.Scale(i) / s.Scale(i-1)
		if math.Abs(ratio-f) > 1e-9 {
			t.Fatalf("Scale(%d)/Scale(%d) = %g, want %g", i, i-1, ratio, f)
		}
	}
	// The last frame stops one step short of EndScale.
	if got := s.Scale(s.Frames); math.Abs(got-1e-6)/1e-6 > 1e-9 {
		t.Errorf("Scale(%d) = %g, want %g", s.Frames, got, 1e-6)
	}
}

func TestZoomSchedule_AllRestartable(t *testing.T) {
	s := ZoomSchedule{StartScale: 4, EndScale: 0.5, Frames: 10, Width: 4, Height: 3}
	var first, second []Viewport
	for _, v := range s.All() {
		first = append(first, v)
	}
	for _, v := range s.All() {
		second = append(second, v)
	}
	if len(first) != 10 || len(second) != 10 {
		t.Fatalf("All() yielded %d then %d viewports, want 10", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("viewport %d differs between passes", i)
		}
	}

	n := 0
	for range s.All() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("early break yielded %d viewports", n)
	}
}

func TestZoomSchedule_FinalMatchesSequence(t *testing.T) {
	s := ZoomSchedule{Center: Point{X: -0.5}, StartScale: 4, EndScale: 1e-5, Frames: 10, Width: 64, Height: 48}
	var last Viewport
	for i, v := range s.All() {
		if i == 9 {
			last = v
		}
	}
	i, v := s.Final()
	if i != 9 {
		t.Errorf("Final() index = %d, want 9", i)
	}
	if v != last {
		t.Errorf("Final() = %+v, want %+v", v, last)
	}
}

func TestZoomSchedule_Range(t *testing.T) {
	s := ZoomSchedule{StartScale: 4, EndScale: 1, Frames: 10, Width: 2, Height: 2}
	var got []int
	for i, v := range s.Range(FrameRange{Start: 4, End: 7}) {
		if v != s.Viewport(i) {
			t.Errorf("Range viewport %d differs from Viewport(%d)", i, i)
		}
		got = append(got, i)
	}
	if len(got) != 3 || got[0] != 4 || got[2] != 6 {
		t.Errorf("Range([4, 7)) yielded %v, want [4 5 6]", got)
	}
}

func TestZoomSchedule_Validate(t *testing.T) {
	ok := ZoomSchedule{StartScale: 4, EndScale: 1, Frames: 3, Width: 2, Height: 2}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	tests := []struct {
		name   string
		modify func(*ZoomSchedule)
		want   error
	}{
		{"no frames", func(s *ZoomSchedule) { s.Frames = 0 }, ErrInvalidSchedule},
		{"zero start", func(s *ZoomSchedule) { s.StartScale = 0 }, ErrInvalidSchedule},
		{"negative end", func(s *ZoomSchedule) { s.EndScale = -1 }, ErrInvalidSchedule},
		{"nan end", func(s *ZoomSchedule) { s.EndScale = math.NaN() }, ErrInvalidSchedule},
		{"no width", func(s *ZoomSchedule) { s.Width = 0 }, ErrInvalidSize},
		{"overflowing size", func(s *ZoomSchedule) { s.Width, s.Height = math.MaxInt/2, 4 }, ErrInvalidSize},
		{"nan center", func(s *ZoomSchedule) { s.Center.X = math.NaN() }, ErrInvalidSchedule},
		{"infinite center", func(s *ZoomSchedule) { s.Center.Y = math.Inf(-1) }, ErrInvalidSchedule},
		{"final frame below precision", func(s *ZoomSchedule) {
			s.Center = SeahorseValley
			s.EndScale = 1e-60
		}, ErrEmptyViewport},
		{"first frame below precision", func(s *ZoomSchedule) {
			s.Center = SeahorseValley
			s.StartScale, s.EndScale = 1e-60, 4
		}, ErrEmptyViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.modify(&s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

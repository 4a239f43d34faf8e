package mandel

import (
	"errors"
	"image/color"
	"strings"
	"testing"
)

// iterPalette stores the raw iteration count in the red channel.
var iterPalette = PaletteFunc(func(iters, max int) color.RGBA {
	return color.RGBA{R: uint8(iters), A: 255}
})

func TestRowBands_Covers(t *testing.T) {
	for h := 1; h <= 64; h++ {
		for w := 1; w <= min(h, MaxRowWorkers); w++ {
			rows := make([]int, h)
			for _, b := range RowBands(h, w) {
				for y := b.Start; y < b.End; y++ {
					rows[y]++
				}
			}
			for y, c := range rows {
				if c != 1 {
					t.Fatalf("RowBands(%d, %d): row %d covered %d times", h, w, y, c)
				}
			}
		}
	}
}

func TestRender_Validate(t *testing.T) {
	valid := RenderJob{
		Viewport:      Viewport{Xmin: -2, Xmax: 2, Ymin: -1, Ymax: 1},
		Width:         8,
		Height:        4,
		MaxIterations: 10,
		Workers:       1,
	}
	tests := []struct {
		name   string
		modify func(*RenderJob)
		want   error
	}{
		{"zero workers", func(j *RenderJob) { j.Workers = 0 }, ErrInvalidWorkers},
		{"too many workers", func(j *RenderJob) { j.Workers = MaxRowWorkers + 1 }, ErrInvalidWorkers},
		{"zero width", func(j *RenderJob) { j.Width = 0 }, ErrInvalidSize},
		{"negative height", func(j *RenderJob) { j.Height = -3 }, ErrInvalidSize},
		{"zero iterations", func(j *RenderJob) { j.MaxIterations = 0 }, ErrInvalidIterations},
		{"flat viewport", func(j *RenderJob) { j.Viewport.Ymax = j.Viewport.Ymin }, ErrEmptyViewport},
	}
	r := NewRenderer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := valid
			tt.modify(&job)
			img, err := r.Render(job)
			if !errors.Is(err, tt.want) {
				t.Errorf("Render() error = %v, want %v", err, tt.want)
			}
			if img != nil {
				t.Error("Render() returned an image for an invalid job")
			}
		})
	}
}

func TestRender_CapOfOne(t *testing.T) {
	job := RenderJob{
		Viewport:      Viewport{Xmin: -2, Xmax: 2, Ymin: -1, Ymax: 1},
		Width:         4,
		Height:        2,
		MaxIterations: 1,
		Workers:       2,
	}
	img, err := NewRenderer(iterPalette).Render(job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for y := 0; y < job.Height; y++ {
		for x := 0; x < job.Width; x++ {
			if it := img.RGBAAt(x, y).R; it > 1 {
				t.Errorf("pixel (%d, %d) = %d iterations, want 0 or 1", x, y, it)
			}
		}
	}
}

func TestRender_MatchesPointwise(t *testing.T) {
	job := RenderJob{
		Viewport:      Viewport{Xmin: -2.5, Xmax: 1.5, Ymin: -1.125, Ymax: 1.125},
		Width:         48,
		Height:        27,
		MaxIterations: 200,
		Workers:       5,
	}
	img, err := NewRenderer(Modular).Render(job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != job.Width || b.Dy() != job.Height {
		t.Fatalf("Render() bounds = %v, want %dx%d", b, job.Width, job.Height)
	}
	for y := 0; y < job.Height; y++ {
		for x := 0; x < job.Width; x++ {
			c := job.Viewport.At(x, y, job.Width, job.Height)
			want := Modular.Color(Iterations(c.X, c.Y, job.MaxIterations), job.MaxIterations)
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRender_WorkerCountInvariant(t *testing.T) {
	job := RenderJob{
		Viewport:      Viewport{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15},
		Width:         31,
		Height:        17,
		MaxIterations: 300,
		Workers:       1,
	}
	r := NewRenderer(Polynomial)
	want, err := r.Render(job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for w := 2; w <= MaxRowWorkers; w++ {
		job.Workers = w
		got, err := r.Render(job)
		if err != nil {
			t.Fatalf("Render(workers=%d) error = %v", w, err)
		}
		for i := range want.Pix {
			if got.Pix[i] != want.Pix[i] {
				t.Fatalf("Render(workers=%d) differs from single worker at byte %d", w, i)
			}
		}
	}
}

func TestRender_MoreWorkersThanRows(t *testing.T) {
	job := RenderJob{
		Viewport:      Viewport{Xmin: -2, Xmax: 2, Ymin: -2, Ymax: 2},
		Width:         5,
		Height:        3,
		MaxIterations: 20,
		Workers:       8,
	}
	img, err := NewRenderer(nil).Render(job)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for y := 0; y < job.Height; y++ {
		for x := 0; x < job.Width; x++ {
			if a := img.RGBAAt(x, y).A; a != 255 {
				t.Fatalf("pixel (%d, %d) not written", x, y)
			}
		}
	}
}

func TestViewport_At(t *testing.T) {
	v := Viewport{Xmin: -2, Xmax: 2, Ymin: -1, Ymax: 1}
	if got := v.At(0, 0, 4, 2); got != (Point{-2, -1}) {
		t.Errorf("At(0, 0) = %v, want (-2, -1)", got)
	}
	if got := v.At(2, 1, 4, 2); got != (Point{0, 0}) {
		t.Errorf("At(2, 1) = %v, want (0, 0)", got)
	}
}

func BenchmarkRender(b *testing.B) {
	job := RenderJob{
		Viewport:      Viewport{Xmin: -2.5, Xmax: 1.5, Ymin: -1.125, Ymax: 1.125},
		Width:         320,
		Height:        180,
		MaxIterations: 500,
		Workers:       4,
	}
	r := NewRenderer(nil)
	for b.Loop() {
		if _, err := r.Render(job); err != nil {
			b.Fatal(err)
		}
	}
}

func TestRender_BandPanicFailsFrame(t *testing.T) {
	// Escaping pixels panic; the rows near the real axis do not.
	p := PaletteFunc(func(iters, max int) color.RGBA {
		if iters < max {
			panic("palette exploded")
		}
		return black
	})
	job := RenderJob{
		FrameIndex:    3,
		Viewport:      Viewport{Xmin: -0.1, Xmax: 0.1, Ymin: -0.1, Ymax: 4},
		Width:         8,
		Height:        8,
		MaxIterations: 50,
		Workers:       4,
	}
	img, err := NewRenderer(p).Render(job)
	if err == nil {
		t.Fatal("Render() error = nil, want band panic")
	}
	if img != nil {
		t.Error("Render() returned an image for a failed frame")
	}
	if !strings.Contains(err.Error(), "palette exploded") || !strings.Contains(err.Error(), "frame 3") {
		t.Errorf("Render() error = %q", err)
	}
}

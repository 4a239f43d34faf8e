package mandel

import (
	"context"
	"fmt"
)

// FrameWorker renders and stores the frames of a zoom schedule.
// It is the body of one frame-layer worker, whether run in a goroutine by
// the Dispatcher or inside a child process.
type FrameWorker struct {
	Schedule      ZoomSchedule
	MaxIterations int
	RowWorkers    int
	Renderer      *Renderer
	Store         FrameStore
}

// Job returns the render job for frame i.
func (w *FrameWorker) Job(i int) RenderJob {
	return RenderJob{
		FrameIndex:    i,
		Viewport:      w.Schedule.Viewport(i),
		Width:         w.Schedule.Width,
		Height:        w.Schedule.Height,
		MaxIterations: w.MaxIterations,
		Workers:       w.RowWorkers,
	}
}

// RenderFrame renders frame i and hands it to the store.
func (w *FrameWorker) RenderFrame(i int) error {
	img, err := w.Renderer.Render(w.Job(i))
	if err != nil {
		return fmt.Errorf("render frame %d: %w", i, err)
	}
	if err := w.Store.StoreFrame(i, img); err != nil {
		return fmt.Errorf("store frame %d: %w", i, err)
	}
	return nil
}

// Launch implements Launcher by rendering r in the calling goroutine. It
// stops at the first failed frame; the remaining frames of r are left for
// the caller to report as missing.
func (w *FrameWorker) Launch(ctx context.Context, r FrameRange, done func(index int)) error {
	for i := range w.Schedule.Range(r) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.RenderFrame(i); err != nil {
			return err
		}
		done(i)
	}
	return nil
}

// Preview renders and stores only the final frame of the schedule.
func (w *FrameWorker) Preview() (int, error) {
	i, _ := w.Schedule.Final()
	return i, w.RenderFrame(i)
}

var _ Launcher = (*FrameWorker)(nil)

package mandel

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// Dispatcher splits a batch of frames into contiguous ranges and runs one
// Launcher call per range concurrently. Workers exchange only messages with
// the dispatcher: a frame range in, frame indices and a final status out.
type Dispatcher struct {
	Launcher Launcher
	// Workers is the number of frame ranges, at least 1.
	Workers int
	// Observer, if set, receives progress notifications.
	Observer Observer
}

// Report summarizes a finished batch.
type Report struct {
	Ranges    []FrameRange
	Completed int
	Elapsed   time.Duration
}

type eventKind int

const (
	frameDone eventKind = iota
	rangeExited
)

type event struct {
	kind  eventKind
	slot  int
	frame int
	err   error
}

// Dispatch renders frames [0, frames). It blocks until every worker has
// exited, whether or not some failed. When any range did not complete the
// returned error is an *IncompleteError listing the failures; the report
// is valid in both cases. Failed ranges are not retried.
func (d *Dispatcher) Dispatch(ctx context.Context, frames int) (Report, error) {
	if d.Workers < 1 {
		return Report{}, fmt.Errorf("%w: %d frame workers", ErrInvalidWorkers, d.Workers)
	}
	if frames <= 0 {
		return Report{}, fmt.Errorf("%w: frame count %d must be positive", ErrInvalidSchedule, frames)
	}

	start := time.Now()
	// Ranges past the frame count would be empty.
	ranges := Split(frames, min(d.Workers, frames))
	events := make(chan event)
	done := make([][]int, len(ranges))

	active := 0
	for slot, r := range ranges {
		if r.Len() == 0 {
			continue
		}
		active++
		Logger().Info("launching frame worker", "range", r.String(), "frames", r.Len())
		if d.Observer != nil {
			d.Observer.RangeStarted(r)
		}
		go d.run(ctx, slot, r, events)
	}

	var failures []RangeFailure
	completed := 0
	for active > 0 {
		ev := <-events
		switch ev.kind {
		case frameDone:
			done[ev.slot] = append(done[ev.slot], ev.frame)
			completed++
			if d.Observer != nil {
				d.Observer.FrameDone(ev.frame)
			}
		case rangeExited:
			active--
			r := ranges[ev.slot]
			if ev.err == nil && len(done[ev.slot]) != r.Len() {
				ev.err = fmt.Errorf("worker exited after %d of %d frames", len(done[ev.slot]), r.Len())
			}
			if ev.err == nil {
				Logger().Info("frame worker finished", "range", r.String())
				continue
			}
			f := RangeFailure{Range: r, Done: done[ev.slot], Err: ev.err}
			failures = append(failures, f)
			Logger().Warn("frame worker failed",
				"range", r.String(),
				"missing", len(f.Missing()),
				"err", ev.err)
			if d.Observer != nil {
				d.Observer.RangeFailed(f)
			}
		}
	}

	rep := Report{Ranges: ranges, Completed: completed, Elapsed: time.Since(start)}
	if len(failures) > 0 {
		return rep, &IncompleteError{Failures: failures}
	}
	return rep, nil
}

// run executes one launcher call and always posts exactly one rangeExited
// event, converting a panic into a failure.
func (d *Dispatcher) run(ctx context.Context, slot int, r FrameRange, events chan<- event) {
	var err error
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("worker panic: %v\n%s", p, debug.Stack())
		}
		events <- event{kind: rangeExited, slot: slot, err: err}
	}()

	err = d.Launcher.Launch(ctx, r, func(index int) {
		if !r.Contains(index) {
			Logger().Warn("frame worker reported a frame outside its range",
				"range", r.String(), "frame", index)
			return
		}
		events <- event{kind: frameDone, slot: slot, frame: index}
	})
}

package mandel

import (
	"context"
	"image"
)

// FrameStore persists a finished frame under its index.
// Implementations must be safe for concurrent use by frame workers.
type FrameStore interface {
	StoreFrame(index int, img *image.RGBA) error
}

// Launcher runs one isolated frame worker over a range of frames.
// done is called once for every frame successfully stored; Launch returns
// after the worker has terminated.
type Launcher interface {
	Launch(ctx context.Context, r FrameRange, done func(index int)) error
}

// Observer is notified of batch progress by the Dispatcher.
// Calls are made from the dispatcher goroutine only.
type Observer interface {
	RangeStarted(r FrameRange)
	FrameDone(index int)
	RangeFailed(f RangeFailure)
}

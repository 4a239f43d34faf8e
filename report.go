package mandel

//go:generate irpc $GOFILE

// FrameReporter receives the frames a worker process has stored.
type FrameReporter interface {
	FrameDone(index int) error
}

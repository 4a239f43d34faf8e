// Package progress tracks a running batch and streams its state to
// websocket subscribers.
package progress

import (
	"sync"

	mandel "github.com/marben/mandelzoom"
)

// Event types.
const (
	TypeStart     = "start"
	TypeFrame     = "frame"
	TypeThumbnail = "thumbnail"
	TypeFailed    = "failed"
	TypeDone      = "done"
)

// Event is one progress message as sent to subscribers.
type Event struct {
	Type     string `json:"type"`
	Frame    int    `json:"frame,omitempty"`
	Finished int    `json:"finished"`
	Total    int    `json:"total"`
	Workers  int    `json:"workers"`
	Range    string `json:"range,omitempty"`
	Missing  []int  `json:"missing,omitempty"`
	Error    string `json:"error,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	// Thumbnail is a PNG encoded downscaled frame.
	Thumbnail []byte `json:"thumbnail,omitempty"`
}

// Publisher receives progress events.
type Publisher interface {
	Publish(ev Event)
}

// Tracker implements mandel.Observer, keeping counts for the batch and
// forwarding every change to a Publisher.
type Tracker struct {
	pub Publisher

	m        sync.Mutex
	total    int
	finished int
	workers  int
	missing  []int
}

// NewTracker returns a tracker for a batch of total frames. pub may be nil.
func NewTracker(total int, pub Publisher) *Tracker {
	t := &Tracker{total: total, pub: pub}
	t.publish(Event{Type: TypeStart})
	return t
}

// RangeStarted implements mandel.Observer.
func (t *Tracker) RangeStarted(r mandel.FrameRange) {
	t.m.Lock()
	t.workers++
	t.m.Unlock()

	t.publish(Event{Type: TypeStart, Range: r.String()})
}

// FrameDone implements mandel.Observer.
func (t *Tracker) FrameDone(index int) {
	t.m.Lock()
	t.finished++
	t.m.Unlock()

	t.publish(Event{Type: TypeFrame, Frame: index})
}

// RangeFailed implements mandel.Observer.
func (t *Tracker) RangeFailed(f mandel.RangeFailure) {
	missing := f.Missing()
	t.m.Lock()
	t.missing = append(t.missing, missing...)
	t.m.Unlock()

	t.publish(Event{Type: TypeFailed, Range: f.Range.String(), Missing: missing, Error: f.Err.Error()})
}

// Done marks the end of the batch.
func (t *Tracker) Done() {
	t.m.Lock()
	t.workers = 0
	missing := append([]int(nil), t.missing...)
	t.m.Unlock()

	t.publish(Event{Type: TypeDone, Missing: missing})
}

// Finished returns the fraction of frames stored so far.
func (t *Tracker) Finished() float32 {
	t.m.Lock()
	defer t.m.Unlock()
	if t.total == 0 {
		return 0
	}
	return float32(t.finished) / float32(t.total)
}

// Snapshot fills the counters of ev from the current state.
func (t *Tracker) Snapshot(ev Event) Event {
	t.m.Lock()
	defer t.m.Unlock()
	ev.Finished = t.finished
	ev.Total = t.total
	ev.Workers = t.workers
	return ev
}

func (t *Tracker) publish(ev Event) {
	if t.pub == nil {
		return
	}
	t.pub.Publish(t.Snapshot(ev))
}

var _ mandel.Observer = (*Tracker)(nil)

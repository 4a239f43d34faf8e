package progress

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/time/rate"

	mandel "github.com/marben/mandelzoom"
)

// ThumbnailWidth is the width frames are scaled down to before streaming.
const ThumbnailWidth = 320

// Thumbnail returns img scaled to at most width pixels wide, PNG encoded.
func Thumbnail(img image.Image, width int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > width {
		h := max(b.Dy()*width/b.Dx(), 1)
		dst := image.NewRGBA(image.Rect(0, 0, width, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ThumbnailStore wraps a FrameStore and publishes a thumbnail of stored
// frames, at most as often as its limiter allows.
type ThumbnailStore struct {
	next    mandel.FrameStore
	tracker *Tracker
	limiter *rate.Limiter
}

// NewThumbnailStore publishes through tracker at most perSecond thumbnails per second.
func NewThumbnailStore(next mandel.FrameStore, tracker *Tracker, perSecond float64) *ThumbnailStore {
	return &ThumbnailStore{
		next:    next,
		tracker: tracker,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// StoreFrame implements mandel.FrameStore.
func (s *ThumbnailStore) StoreFrame(index int, img *image.RGBA) error {
	if err := s.next.StoreFrame(index, img); err != nil {
		return err
	}
	if !s.limiter.Allow() {
		return nil
	}

	thumb, err := Thumbnail(img, ThumbnailWidth)
	if err != nil {
		mandel.Logger().Warn("thumbnail not encoded", "frame", index, "err", err)
		return nil
	}
	b := img.Bounds()
	s.tracker.publish(Event{
		Type:      TypeThumbnail,
		Frame:     index,
		Width:     b.Dx(),
		Height:    b.Dy(),
		Thumbnail: thumb,
	})
	return nil
}

var _ mandel.FrameStore = (*ThumbnailStore)(nil)

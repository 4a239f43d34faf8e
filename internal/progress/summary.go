package progress

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	mandel "github.com/marben/mandelzoom"
)

// Summary describes a finished batch in one line, with grouped digits.
func Summary(rep mandel.Report, width, height int) string {
	p := message.NewPrinter(language.English)
	secs := rep.Elapsed.Seconds()
	rate := 0.0
	if secs > 0 {
		rate = float64(rep.Completed) / secs
	}
	pixels := int64(rep.Completed) * int64(width) * int64(height)
	return p.Sprintf("%d frames (%d pixels) in %v, %.2f frames/s",
		rep.Completed, pixels, rep.Elapsed.Round(time.Millisecond), rate)
}

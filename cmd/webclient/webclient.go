//go:build js && wasm

// webclient.go is a WASM dashboard for a running mandelmovie batch.
// It subscribes to the progress feed and shows frame counts and the latest rendered frame.

package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"strings"
	"syscall/js"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/marben/mandelzoom/internal/progress"
)

// maxMessageSize bounds one feed message; thumbnails are the largest.
const maxMessageSize = 4 << 20

// main is the entry point for the WASM dashboard.
// It connects to the progress feed and updates the page until the batch is done.
func main() {
	logScreenf("Starting WASM dashboard...")

	// Step 1: Determine feed address from the page location
	loc := js.Global().Get("window").Get("location")
	host := loc.Get("host").String()
	proto := "ws"
	if loc.Get("protocol").String() == "https:" {
		proto = "wss"
	}
	feedURL := proto + "://" + host + "/ws"

	// Step 2: Connect to the feed
	logScreenf("Connecting to progress feed at %s...", feedURL)
	ctx := context.Background()
	conn, _, err := websocket.Dial(ctx, feedURL, nil)
	if err != nil {
		logFatalf("Failed to connect: %v", err)
	}
	conn.SetReadLimit(maxMessageSize)
	logScreenf("WebSocket connected.")

	// Step 3: Consume events until the batch is done
	if err := eventLoop(ctx, conn); err != nil {
		logFatalf("eventLoop: %v", err)
	}
	conn.Close(websocket.StatusNormalClosure, "")

	// Step 4: Block main goroutine to keep the page alive
	select {}
}

// eventLoop applies feed events to the page and returns after the done event.
func eventLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		var ev progress.Event
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			return fmt.Errorf("read event: %w", err)
		}

		hudSetFinishedFrames(ev.Finished)
		hudSetTotalFrames(ev.Total)
		hudSetWorkers(ev.Workers)

		switch ev.Type {
		case progress.TypeStart:
			if ev.Range != "" {
				logScreenf("Worker started on frames %s", ev.Range)
			}
		case progress.TypeThumbnail:
			if err := showThumbnail(ev); err != nil {
				logScreenf("Frame %d: %v", ev.Frame, err)
			}
		case progress.TypeFailed:
			logScreenf("Worker on frames %s failed (%d missing): %s", ev.Range, len(ev.Missing), ev.Error)
		case progress.TypeDone:
			if len(ev.Missing) > 0 {
				logScreenf("Batch finished with missing frames: %s", joinInts(ev.Missing))
			} else {
				logScreenf("Batch finished.")
			}
			return nil
		}
	}
}

// showThumbnail decodes the PNG thumbnail of ev and draws it on the canvas.
func showThumbnail(ev progress.Event) error {
	src, err := png.Decode(bytes.NewReader(ev.Thumbnail))
	if err != nil {
		return fmt.Errorf("decode thumbnail: %w", err)
	}
	img, ok := src.(*image.RGBA)
	if !ok {
		img = image.NewRGBA(src.Bounds())
		draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	}
	displayFrame(img)
	hudSetCurrentFrame(ev.Frame)
	return nil
}

// logScreenf appends a formatted message to the log element in the DOM,
func logScreenf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)

	doc := js.Global().Get("document")
	logElem := doc.Call("getElementById", "log")
	logElem.Set("textContent", logElem.Get("textContent").String()+msg+"\n")
}

// logFatalf logs a fatal error to the log window and terminates the program.
func logFatalf(format string, a ...any) {
	logScreenf("FATAL: "+format, a...)
	log.Fatalf(format, a...)
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = fmt.Sprint(n)
	}
	return strings.Join(s, ", ")
}

// hudSetWorkers updates the HUD to show the number of running frame workers.
func hudSetWorkers(workers int) {
	js.Global().Get("document").Call("getElementById", "workersRunning").Set("textContent", workers)
}

// hudSetFinishedFrames updates the HUD to show the number of stored frames.
func hudSetFinishedFrames(finished int) {
	js.Global().Get("document").Call("getElementById", "framesDone").Set("textContent", finished)
}

// hudSetTotalFrames updates the HUD to show the batch size.
func hudSetTotalFrames(total int) {
	js.Global().Get("document").Call("getElementById", "framesTotal").Set("textContent", total)
}

// hudSetCurrentFrame shows which frame the canvas displays.
func hudSetCurrentFrame(frame int) {
	js.Global().Get("document").Call("getElementById", "currentFrame").Set("textContent", frame)
}

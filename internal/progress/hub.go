package progress

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelzoom"
)

// subscriberBuffer is the number of events a slow subscriber may lag behind
// before events are dropped for it.
const subscriberBuffer = 64

// Hub fans published events out to websocket subscribers. New subscribers
// first receive the most recent event so they can draw the current state.
type Hub struct {
	m    sync.Mutex
	subs map[chan Event]struct{}
	last *Event
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish implements Publisher. It never blocks.
func (h *Hub) Publish(ev Event) {
	h.m.Lock()
	defer h.m.Unlock()

	if ev.Type != TypeThumbnail {
		last := ev
		h.last = &last
	}
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber too slow, drop
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.m.Lock()
	defer h.m.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	h.m.Lock()
	if h.last != nil {
		ch <- *h.last
	}
	h.subs[ch] = struct{}{}
	h.m.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan Event) {
	h.m.Lock()
	delete(h.subs, ch)
	h.m.Unlock()
}

// ServeHTTP upgrades the request to a websocket and streams events as JSON
// text messages until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		mandel.Logger().Warn("websocket accept", "err", err)
		return
	}
	defer c.CloseNow()

	// The feed is one-way; CloseRead handles control frames and cancels
	// ctx once the client closes.
	ctx := c.CloseRead(r.Context())

	ch := h.subscribe()
	defer h.unsubscribe(ch)
	mandel.Logger().Debug("progress subscriber connected", "remote", r.RemoteAddr)

	for {
		select {
		case ev := <-ch:
			wctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(wctx, c, ev)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					mandel.Logger().Debug("progress subscriber write", "err", err)
				}
				return
			}
			if ev.Type == TypeDone {
				c.Close(websocket.StatusNormalClosure, "batch finished")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// NewServer returns a server exposing hub at /ws and the files of
// staticDir (the dashboard page and its wasm binary) at /.
func NewServer(addr, staticDir string, hub *Hub) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

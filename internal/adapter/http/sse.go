package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/photobridge/internal/service"
)

type EventSubscriber interface {
	Subscribe(localIdentifier string) chan service.Event
	Unsubscribe(localIdentifier string, ch chan service.Event)
}

type SSEHandler struct {
	events    EventSubscriber
	keepAlive time.Duration
}

func NewSSEHandler(events EventSubscriber) *SSEHandler {
	return &SSEHandler{
		events:    events,
		keepAlive: 15 * time.Second,
	}
}

// sseWrite writes an SSE event, handling multi-line data correctly.
func sseWrite(w http.ResponseWriter, eventName string, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\n", eventName)
	for _, line := range strings.Split(data, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// sendComment writes an SSE comment line, used for keep-alives.
func sendComment(w http.ResponseWriter, text string) {
	_, _ = fmt.Fprintf(w, ": %s\n\n", text)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// Events streams library changes. With ?id= only that asset's changes are
// sent; without it every change is.
func (h *SSEHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			id = service.AllAssets
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		ch := h.events.Subscribe(id)
		defer h.events.Unsubscribe(id, ch)

		sendComment(w, "connected")

		ctx := r.Context()
		keepAlive := time.NewTicker(h.keepAlive)
		defer keepAlive.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepAlive.C:
				sendComment(w, "keep-alive")
			case event, ok := <-ch:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				sseWrite(w, string(event.Type), string(data))
			}
		}
	}
}

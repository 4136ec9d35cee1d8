package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aaronzipp/sus-arena/internal/models"
	"github.com/aaronzipp/sus-arena/internal/sse"
)

// HandleRoomEvents streams room views to a spectator as server-sent events
func (ctx *Context) HandleRoomEvents(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	logger := ctx.logger().With("room", roomID)

	flusher, ok := w.(http.Flusher)
	if !ok {
		ctx.writeError(w, r, fmt.Errorf("streaming unsupported"))
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	// Subscribe before reading the view so no update falls in between
	events, unsubscribe := ctx.Arena.Hub().Subscribe(roomID)
	defer unsubscribe()

	view, err := ctx.Arena.GetSessionView(r.Context(), roomID)
	if err != nil {
		_, code := errorCode(err)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sse.EventErrorMessage, code)
		flusher.Flush()
		return
	}

	data, err := json.Marshal(view)
	if err != nil {
		logger.Error("encode initial view", "err", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sse.EventRoomView, data)
	if view.Status == models.StatusFinished {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", sse.EventRoomFinished, roomID)
		flusher.Flush()
		return
	}
	flusher.Flush()
	logger.Debug("spectator connected", "clients", ctx.Arena.Hub().Clients(roomID))

	// Listen for updates
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			logger.Debug("spectator disconnected")
			return
		case msg := <-events:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
			if msg.Event == sse.EventRoomFinished {
				return
			}
		}
	}
}

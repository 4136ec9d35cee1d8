package sse

import "time"

// SSE event type constants
const (
	EventRoomView     = "room-view"
	EventRoomFinished = "room-finished"
	EventErrorMessage = "error-message"
)

const (
	// BufferSize is the per-client channel capacity
	BufferSize = 16

	// SendTimeout bounds how long a publish waits on one slow client
	SendTimeout = 2 * time.Second
)

// Message is one server-sent event
type Message struct {
	Event string
	Data  string
}

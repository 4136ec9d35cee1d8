// Package sse fans room updates out to spectators over server-sent events.
package sse

import (
	"log/slog"
	"sync"
	"time"

	"github.com/aaronzipp/sus-arena/internal/logging"
)

// Hub tracks the connected spectators of every room
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan Message]struct{} // roomID -> clients
	timeout time.Duration
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[chan Message]struct{}),
		timeout: SendTimeout,
		logger:  logging.OrDefault(logger).With("component", "sse"),
	}
}

// Subscribe registers a client for roomID. The returned func unregisters it.
func (h *Hub) Subscribe(roomID string) (<-chan Message, func()) {
	ch := make(chan Message, BufferSize)

	h.mu.Lock()
	room, ok := h.clients[roomID]
	if !ok {
		room = make(map[chan Message]struct{})
		h.clients[roomID] = room
	}
	room[ch] = struct{}{}
	count := len(room)
	h.mu.Unlock()

	h.logger.Debug("client subscribed", "room", roomID, "clients", count)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients[roomID], ch)
			if len(h.clients[roomID]) == 0 {
				delete(h.clients, roomID)
			}
			h.mu.Unlock()
		})
	}
}

// Clients returns the number of subscribers of roomID
func (h *Hub) Clients(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[roomID])
}

// Publish sends a message to every subscriber of roomID, skipping clients
// that stay full past the send timeout
func (h *Hub) Publish(roomID, event, data string) int {
	h.mu.RLock()
	clients := make([]chan Message, 0, len(h.clients[roomID]))
	for ch := range h.clients[roomID] {
		clients = append(clients, ch)
	}
	h.mu.RUnlock()

	// Send WITHOUT holding the lock
	msg := Message{Event: event, Data: data}
	sent := 0
	for _, ch := range clients {
		select {
		case ch <- msg:
			sent++
		case <-time.After(h.timeout):
			h.logger.Warn("timeout sending to client", "room", roomID, "event", event)
		}
	}
	h.logger.Debug("published", "room", roomID, "event", event, "sent", sent, "clients", len(clients))
	return sent
}

// Package ws maintains the set of live dashboard viewers and pushes
// serialized events to them. Delivery is best-effort and at-most-once:
// there is no acknowledgment, no retry and no replay for viewers that
// connect after an event was broadcast.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
)

// EventExecutionCreated is pushed after every successful ingestion.
const EventExecutionCreated = "EXECUTION_CREATED"

// Event is the wire format pushed to viewers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub owns the viewer set. Registration, deregistration and fan-out all
// happen on the run loop goroutine, so the set needs no locking.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// Closed when the run loop exits; unblocks client teardown that
	// would otherwise wait on a channel nobody receives from anymore.
	done chan struct{}

	viewers atomic.Int64
	logger  *slog.Logger
}

// NewHub creates a hub. Run must be started before viewers connect.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until the context is
// cancelled, then closes every remaining viewer connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.viewers.Store(int64(len(h.clients)))
			h.logger.Info("viewer connected", "viewers", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.viewers.Store(int64(len(h.clients)))
				h.logger.Info("viewer disconnected", "viewers", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Viewer is not draining its buffer; drop it rather
					// than stall the fan-out.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.viewers.Store(int64(len(h.clients)))

		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.viewers.Store(0)
			close(h.done)
			return
		}
	}
}

// Broadcast serializes {type, data} and queues it for every currently
// connected viewer. Serialization failures are logged and dropped;
// broadcasting with zero viewers is a no-op.
func (h *Hub) Broadcast(eventType string, data any) {
	message, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.logger.Error("failed to serialize broadcast event", "type", eventType, "error", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast queue full, event dropped", "type", eventType)
	}
}

// ViewerCount reports the number of connected viewers. Used by the
// observability gauge.
func (h *Hub) ViewerCount() int64 {
	return h.viewers.Load()
}

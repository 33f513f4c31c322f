// Package websocket broadcasts workflow transition events to connected
// clients so board views can refresh without polling.
package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/neosiam/returnhub/internal/workflow"
)

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients map: ClientID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Outbound fan-out
	broadcast chan []byte

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// Reconnect with the same id closes the old connection
			if old, ok := h.clients[client.ID]; ok {
				close(old.send)
				delete(h.clients, client.ID)
			}
			h.clients[client.ID] = client
			log.Printf("🔌 Client connected: %s", client.ID)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
				log.Printf("🔌 Client disconnected: %s", client.ID)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for id, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Buffer full or client dead, drop for this client
					log.Printf("⚠️  Dropping event for slow client %s", id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// transitionMessage is the wire envelope for transition events.
type transitionMessage struct {
	Type  string                   `json:"type"`
	Event workflow.TransitionEvent `json:"event"`
}

// NotifyTransition implements workflow.Notifier. Delivery is best effort.
func (h *Hub) NotifyTransition(event workflow.TransitionEvent) {
	msg, err := json.Marshal(transitionMessage{Type: "TRANSITION", Event: event})
	if err != nil {
		log.Printf("Error marshaling transition event: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("⚠️  Event queue full, dropping %s %s", event.Entity, event.ID)
	}
}

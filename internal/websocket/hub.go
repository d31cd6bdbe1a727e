package websocket

import (
	"encoding/json"
	"log/slog"

	"go-admin-console/internal/event"
	"go-admin-console/internal/metrics"
)

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Event bus the hub fans out to connected clients.
	bus event.Bus
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
	}
}

func (h *Hub) Run() {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			metrics.WebsocketClients.Set(float64(len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.WebsocketClients.Set(float64(len(h.clients)))
			}
		case e := <-events:
			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "error", err)
				continue
			}
			// Fire-and-forget broadcast: a client whose send buffer is full
			// is dropped, there is no acknowledgment or retry.
			for client := range h.clients {
				// Platform-scoped events only reach clients of that platform.
				if e.Platform != "" && client.platform != "" && client.platform != e.Platform {
					continue
				}
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			metrics.WebsocketClients.Set(float64(len(h.clients)))
		}
	}
}

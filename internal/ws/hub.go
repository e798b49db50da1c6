package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/kiwari-pos/orderengine/internal/service"
	"github.com/sirupsen/logrus"
)

// ErrHubStopped is returned by Publish once Run has returned.
var ErrHubStopped = errors.New("ws hub stopped")

// Event is the frame written to WebSocket clients.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// outletEvent routes an event to one outlet's room.
type outletEvent struct {
	OutletID uuid.UUID
	Event    Event
}

// Hub keeps one room of clients per outlet and fans order events out to them.
// It implements service.Publisher.
type Hub struct {
	// Registered clients by outlet ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *outletEvent
	done       chan struct{}

	log logrus.FieldLogger
	mu  sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *outletEvent, 256),
		done:       make(chan struct{}),
		log:        log.WithField("component", "ws"),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, after closing
// every client's send channel.
func (h *Hub) Run(ctx context.Context) error {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.outletID] == nil {
				h.rooms[client.outletID] = make(map[*Client]bool)
			}
			h.rooms[client.outletID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.log.WithError(err).WithField("event", event.Event.Type).Error("marshal event")
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.OutletID] {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than block the room.
					h.log.WithField("outlet_id", event.OutletID).Warn("dropping slow websocket client")
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove unregisters a client and deletes its room when empty. Caller holds mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.rooms[client.outletID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.outletID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	close(h.done)
	for _, clients := range h.rooms {
		for client := range clients {
			h.remove(client)
		}
	}
}

// BroadcastToOutlet queues an event for every client subscribed to an outlet.
func (h *Hub) BroadcastToOutlet(ctx context.Context, outletID uuid.UUID, event Event) error {
	select {
	case h.broadcast <- &outletEvent{OutletID: outletID, Event: event}:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish sends a committed order event to the order's outlet room.
func (h *Hub) Publish(ctx context.Context, ev service.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	return h.BroadcastToOutlet(ctx, ev.OutletID, Event{Type: ev.Type, Payload: payload})
}

// ClientCount returns the number of clients connected to an outlet's room.
func (h *Hub) ClientCount(outletID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[outletID])
}

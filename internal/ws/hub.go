// Package ws pushes job description change events to the owner's open
// websocket connections.
package ws

import (
	"context"
	"sync"

	"jdmatch/internal/pkg/logger"
)

type userMessage struct {
	userID  string
	payload []byte
}

// Hub tracks live clients per user. All map mutations happen on the Run
// goroutine; the mutex only guards reads from ClientCount.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	broadcast  chan userMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	log        logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan userMessage, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		log:        log.Named("ws"),
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
			total := len(set)
			h.mutex.Unlock()
			h.log.Debug(ctx, "ws connected", logger.String("userId", client.userID), logger.Int("userClients", total))

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.remove(client)
			h.log.Debug(ctx, "ws disconnected", logger.String("userId", client.userID))

		case msg := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients[msg.userID]))
			for c := range h.clients[msg.userID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					// slow consumer
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast queues payload for every client of userID. It never blocks; a
// full queue drops the message.
func (h *Hub) Broadcast(userID string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- userMessage{userID: userID, payload: payload}:
	default:
		h.log.Warn(context.Background(), "ws broadcast dropped", logger.String("reason", "buffer_full"))
	}
}

// ClientCount returns the number of live clients for userID.
func (h *Hub) ClientCount(userID string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

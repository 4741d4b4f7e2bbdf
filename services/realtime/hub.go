package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event is the wire envelope for every server-to-client push. The event name
// doubles as the subscription key: per-user events ("new_notification",
// "notification_update", "listing_view") reach only the recipient's room,
// while broadcast topics ("analytics-<listingId>") reach every connection
// that listens for that name.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub is the realtime channel registry and delivery dispatcher. Each
// authenticated connection is bound to its user's room for the connection's
// whole lifetime; disconnect removes it from everything. The hub holds the
// only shared mutable state of the realtime layer and is constructed in main
// and injected into the services that push through it.
type Hub struct {
	// rooms maps a user id to that user's live connections.
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu  sync.RWMutex
	log *zap.Logger
}

// NewHub creates a hub. Call Run before registering clients.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run processes client lifecycle events until the context is canceled, then
// closes every remaining connection. Run in its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.userID] == nil {
				h.rooms[client.userID] = make(map[*Client]bool)
			}
			h.rooms[client.userID][client] = true
			h.mu.Unlock()
			h.log.Debug("realtime client connected",
				zap.String("userId", client.userID),
				zap.Int("connections", h.RoomSize(client.userID)))

		case client := <-h.unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()
			h.log.Debug("realtime client disconnected",
				zap.String("userId", client.userID))

		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			return
		}
	}
}

// Register binds a client to its user's room. After shutdown it is a no-op
// so a late handshake or a lingering pump never blocks.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client from its room. Safe to call more than once,
// and safe after shutdown.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// dropLocked removes the client and prunes its room when empty.
// Caller holds h.mu.
func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.rooms[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.userID)
	}
}

// EmitToUser pushes an event to every connection in the user's room. Zero
// live connections is the normal no-op path, not an error: the durable store
// remains the source of truth and clients reconcile on their next fetch.
func (h *Hub) EmitToUser(userID, event string, payload interface{}) {
	message, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		h.log.Warn("failed to marshal realtime event",
			zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.rooms[userID] {
		select {
		case client.send <- message:
		default:
			// Slow consumer: drop the connection rather than block the
			// dispatcher; the client reconnects and re-fetches.
			h.dropLocked(client)
		}
	}
}

// EmitBroadcast pushes an event to every live connection regardless of room.
// Used for per-listing analytics topics where the event name carries the
// listing id and uninterested clients simply ignore it.
func (h *Hub) EmitBroadcast(event string, payload interface{}) {
	message, err := json.Marshal(Event{Event: event, Data: payload})
	if err != nil {
		h.log.Warn("failed to marshal realtime broadcast",
			zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.rooms {
		for client := range clients {
			select {
			case client.send <- message:
			default:
				h.dropLocked(client)
			}
		}
	}
}

// RoomSize returns the number of live connections bound to the user's room.
func (h *Hub) RoomSize(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// RoomCount returns the number of rooms with at least one live connection.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// ConnectionCount returns the total number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, clients := range h.rooms {
		total += len(clients)
	}
	return total
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	closed := 0
	for userID, clients := range h.rooms {
		for client := range clients {
			close(client.send)
			closed++
		}
		delete(h.rooms, userID)
	}
	h.log.Info("closed all realtime clients during shutdown",
		zap.Int("clients", closed))
}

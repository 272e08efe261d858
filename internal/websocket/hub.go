package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event tells household screens that a backend entity changed and their
// view should be re-fetched.
type Event struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// Hub fans events out to every connected screen.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client connected", "clients", n)
}

// remove drops c and closes its queue. Safe to call more than once.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.queue)
}

// Publish broadcasts a change of entity id. It never blocks: a screen whose
// queue is full misses the event and catches up on its next refresh.
func (h *Hub) Publish(entity, action, id string, extra map[string]any) {
	data, err := json.Marshal(Event{
		Type:   entity + "_" + action,
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	})
	if err != nil {
		h.logger.Error("marshal event", "entity", entity, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.queue <- data:
		default:
			h.logger.Debug("dropped event for slow client", "type", entity+"_"+action)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

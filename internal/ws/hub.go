package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/crazyroad-go/internal/model"
	"github.com/mcoot/crazyroad-go/internal/services/game"
)

// Envelope is the wire frame for every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected clients and fans events out to them. Payloads are
// marshaled at call time, before they are queued, so callers may hand over
// state that is only stable while they hold their own locks.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*Client
	logger  *slog.Logger
}

// Ensure Hub satisfies the game controller's outbound channel
var _ game.Broadcaster = (*Hub)(nil)

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client registered",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", count))
}

// Unregister removes a client and closes its send queue
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client unregistered",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", count))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event string, payload any) {
	h.broadcastFiltered(event, payload, "")
}

// BroadcastExcept sends an event to every client except the excluded one
func (h *Hub) BroadcastExcept(exclude model.ConnID, event string, payload any) {
	h.broadcastFiltered(event, payload, exclude)
}

// SendTo sends an event to a single client. No-op if the client is gone.
func (h *Hub) SendTo(id model.ConnID, event string, payload any) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(client, event, msg)
}

func (h *Hub) broadcastFiltered(event string, payload any, exclude model.ConnID) {
	msg, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event",
			slog.String("event", event),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, client := range h.clients {
		if id == exclude {
			continue
		}
		h.deliver(client, event, msg)
	}
}

// deliver queues a message without blocking; a client whose buffer is full
// misses the message and gets the next per-tick snapshot instead.
func (h *Hub) deliver(client *Client, event string, msg []byte) {
	select {
	case client.send <- msg:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("conn_id", string(client.id)),
			slog.String("event", event))
	}
}

func marshalEnvelope(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = encoded
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}

package ws

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/crazyroad-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size. Generous because join requests carry an
	// opaque avatar blob.
	maxMessageSize = 1 << 20

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// GameHandler is the inbound side of the real-time channel: the session
// command handlers the transport dispatches into.
type GameHandler interface {
	Join(ctx context.Context, connID model.ConnID, req model.JoinRequest) model.JoinResult
	Move(ctx context.Context, connID model.ConnID, pos model.MoveRequest)
	Chat(connID model.ConnID, text string)
	Restart(connID model.ConnID)
	Disconnect(connID model.ConnID)
}

// Client is one websocket connection. The read pump dispatches inbound
// commands to the game; the write pump drains the send queue the hub fills.
type Client struct {
	id     model.ConnID
	hub    *Hub
	game   GameHandler
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The game client is served from the same host; no cross-origin checks.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a websocket connection and runs the
// client's pumps.
func ServeWS(hub *Hub, game GameHandler, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}

		client := &Client{
			id:     newConnID(),
			hub:    hub,
			game:   game,
			conn:   conn,
			send:   make(chan []byte, sendBufferSize),
			logger: logger.With(slog.String("component", "ws")),
		}
		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}

// readPump reads inbound envelopes and dispatches them until the connection
// drops, then tears the session down.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.game.Disconnect(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info("websocket closed unexpectedly",
					slog.String("conn_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.logger.Warn("malformed message ignored", slog.String("conn_id", string(c.id)))
			continue
		}
		c.dispatch(envelope)
	}
}

// dispatch routes one inbound command. Malformed payloads are ignored, never
// fatal to the connection.
func (c *Client) dispatch(envelope Envelope) {
	ctx := context.Background()

	switch envelope.Event {
	case model.EventJoinGame:
		var req model.JoinRequest
		if err := json.Unmarshal(envelope.Data, &req); err != nil {
			c.logger.Warn("malformed join request", slog.String("conn_id", string(c.id)))
			return
		}
		result := c.game.Join(ctx, c.id, req)
		c.hub.SendTo(c.id, model.EventJoinResult, result)

	case model.EventPlayerMove:
		var pos model.MoveRequest
		if err := json.Unmarshal(envelope.Data, &pos); err != nil {
			return
		}
		c.game.Move(ctx, c.id, pos)

	case model.EventChatMessage:
		var text string
		if err := json.Unmarshal(envelope.Data, &text); err != nil {
			return
		}
		c.game.Chat(c.id, text)

	case model.EventRestartGame:
		c.game.Restart(c.id)

	default:
		c.logger.Warn("unknown event ignored",
			slog.String("conn_id", string(c.id)),
			slog.String("event", envelope.Event))
	}
}

// writePump drains the send queue to the connection and keeps it alive with
// pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// newConnID generates a random connection id
func newConnID() model.ConnID {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return model.ConnID("conn_" + base64.RawURLEncoding.EncodeToString(b))
}

package realtime

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 4 * 1024
)

var clientIDCounter atomic.Uint64

// controlMessage is what clients send to manage room membership.
type controlMessage struct {
	Action    string `json:"action"`
	ArticleID string `json:"article_id"`
}

const (
	actionJoinRoom  = "join_room"
	actionLeaveRoom = "leave_room"
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	id         uint64
	hub        *Hub
	conn       *websocket.Conn
	send       chan Message
	pingPeriod time.Duration
	logger     *zap.Logger
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, sendBuffer int, pingPeriod time.Duration, logger *zap.Logger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Client{
		id:         clientIDCounter.Add(1),
		hub:        hub,
		conn:       conn,
		send:       make(chan Message, sendBuffer),
		pingPeriod: pingPeriod,
		logger:     logger,
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// trySend enqueues a message without blocking. Best-effort: a full buffer
// drops the message rather than stalling the broadcaster.
func (c *Client) trySend(msg Message) {
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("send buffer full, dropping message",
			zap.Uint64("client_id", c.id),
			zap.String("message_type", msg.Type),
		)
	}
}

// Serve registers with the hub and runs the pumps. It blocks until the
// connection drops, which is what the fiber websocket handler expects.
func (c *Client) Serve() {
	c.hub.register(c)
	go c.writePump()
	c.readPump()
}

// readPump consumes room control messages until the connection closes, then
// cleans up all hub state for this client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("set read deadline", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg controlMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected websocket close", zap.Error(err))
			}
			return
		}

		switch msg.Action {
		case actionJoinRoom:
			c.hub.JoinRoom(c, msg.ArticleID)
		case actionLeaveRoom:
			c.hub.LeaveRoom(c, msg.ArticleID)
		case MessageTypePing:
			c.trySend(Message{Type: MessageTypePong})
		}
	}
}

// writePump flushes queued messages and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

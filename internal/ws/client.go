package ws

import (
	"encoding/json"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 256
)

type Client struct {
	ID   string
	User *domain.Identity
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	// guarded by Hub.mu
	rooms map[string]struct{}
}

// NewClient wraps conn. user may be nil for a connection without a session.
func NewClient(user *domain.Identity, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:    uuid.NewString(),
		User:  user,
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
		Hub:   hub,
		rooms: make(map[string]struct{}),
	}
}

func (c *Client) userID() int64 {
	if c.User == nil {
		return 0
	}
	return c.User.ID
}

func (c *Client) presence() PresencePayload {
	return PresencePayload{User: c.User, ConnectionID: c.ID}
}

// enqueue never blocks; a full queue drops the event for this connection.
// Callers hold Hub.mu (read or write) so Send cannot be closed underneath.
func (c *Client) enqueue(event string, msg []byte) {
	select {
	case c.Send <- msg:
		EventsPublished.WithLabelValues(event).Inc()
	default:
		EventsDropped.WithLabelValues(event).Inc()
		logger.Debug("ws queue full, event dropped", "connection_id", c.ID, "event", event)
	}
}

// Run registers the client, greets it with its connection id and pumps
// until the peer goes away.
func (c *Client) Run() {
	c.Hub.Register(c)

	go c.writePump()
	c.readPump()
}

// read
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "connection_id", c.ID, "error", err)
			}
			return
		}
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Debug("ws bad message", "connection_id", c.ID, "error", err)
		return
	}

	switch msg.Type {
	case MsgJoin, MsgLeave:
		var room string
		if err := json.Unmarshal(msg.Payload, &room); err != nil {
			return
		}
		room = strings.TrimSpace(room)
		if room == "" {
			return
		}
		if msg.Type == MsgJoin {
			c.Hub.Join(c, room)
		} else {
			c.Hub.Leave(c, room)
		}

	case MsgSignal:
		var req SignalRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil || req.To == "" {
			return
		}
		c.Hub.Relay(c, req.To, req.Data)

	default:
		logger.Debug("ws unknown message type", "connection_id", c.ID, "type", msg.Type)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "connection_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

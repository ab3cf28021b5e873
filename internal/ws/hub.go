package ws

import (
	"encoding/json"
	"sync"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/samber/lo"
)

// Hub tracks live connections and their room membership. All state is
// in memory and disappears with the connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

func encode(event string, payload any) ([]byte, bool) {
	b, err := json.Marshal(outbound{Type: event, Payload: payload})
	if err != nil {
		logger.Error("ws encode failed", "event", event, "error", err)
		return nil, false
	}
	return b, true
}

// Register adds c and queues its ready greeting ahead of any broadcast.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	if msg, ok := encode(domain.EventReady, ReadyPayload{ConnectionID: c.ID}); ok {
		c.enqueue(domain.EventReady, msg)
	}
	h.mu.Unlock()

	ConnectionsActive.Inc()
	logger.Debug("ws client registered", "connection_id", c.ID, "user_id", c.userID())
}

// Unregister drops c from the hub and every room it joined, announcing
// user:left to the remaining members. Calling it twice is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)

	left := lo.Keys(c.rooms)
	for _, room := range left {
		h.removeFromRoomLocked(c, room)
	}
	close(c.Send)
	h.mu.Unlock()

	ConnectionsActive.Dec()
	for _, room := range left {
		h.BroadcastToRoom(room, domain.EventUserLeft, c.presence())
	}
	logger.Debug("ws client unregistered", "connection_id", c.ID, "rooms", len(left))
}

// Join adds c to room and tells the other members.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[c.ID] = c
	c.rooms[room] = struct{}{}
	h.mu.Unlock()

	h.broadcastToRoomExcept(room, c.ID, domain.EventUserJoined, c.presence())
}

// Leave removes c from room. Remaining members hear about it only if c was a member.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	_, member := c.rooms[room]
	if member {
		h.removeFromRoomLocked(c, room)
	}
	h.mu.Unlock()

	if member {
		h.BroadcastToRoom(room, domain.EventUserLeft, c.presence())
	}
}

func (h *Hub) removeFromRoomLocked(c *Client, room string) {
	delete(c.rooms, room)
	if members, ok := h.rooms[room]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast queues the event for every connection.
func (h *Hub) Broadcast(event string, payload any) {
	msg, ok := encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.enqueue(event, msg)
	}
}

// BroadcastToRoom queues the event for members of room only.
func (h *Hub) BroadcastToRoom(room, event string, payload any) {
	h.broadcastToRoomExcept(room, "", event, payload)
}

func (h *Hub) broadcastToRoomExcept(room, exceptID, event string, payload any) {
	msg, ok := encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.rooms[room] {
		if id == exceptID {
			continue
		}
		c.enqueue(event, msg)
	}
}

// Relay forwards a signaling payload to a single connection. Unknown
// targets and the sender itself are ignored.
func (h *Hub) Relay(from *Client, to string, data json.RawMessage) {
	if to == from.ID {
		return
	}
	msg, ok := encode(domain.EventSignal, SignalPayload{From: from.ID, Data: data})
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	target, found := h.clients[to]
	if !found {
		logger.Debug("ws signal target not found", "from", from.ID, "to", to)
		return
	}
	target.enqueue(domain.EventSignal, msg)
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

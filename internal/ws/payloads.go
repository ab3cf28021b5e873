package ws

import (
	"encoding/json"

	"taskboard/internal/domain"
)

// client → server
type SignalRequest struct {
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

// server → client
type ReadyPayload struct {
	ConnectionID string `json:"connection_id"`
}

// PresencePayload announces a connection entering or leaving a room.
// User is null for connections without a session.
type PresencePayload struct {
	User         *domain.Identity `json:"user"`
	ConnectionID string           `json:"connection_id"`
}

type SignalPayload struct {
	From string          `json:"from"`
	Data json.RawMessage `json:"data"`
}

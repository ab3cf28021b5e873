package ws

import "encoding/json"

const (
	// client - server
	MsgJoin   = "join"
	MsgLeave  = "leave"
	MsgSignal = "signal"
)

// Message is the envelope used in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

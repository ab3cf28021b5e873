package domain

// Realtime event names pushed to websocket clients.
const (
	EventTaskCreated = "task:created"
	EventTaskUpdated = "task:updated"
	EventTaskDeleted = "task:deleted"
	EventChatMessage = "chat:message"
	EventUserJoined  = "user:joined"
	EventUserLeft    = "user:left"
	EventSignal      = "signal"
	EventReady       = "ready"
)

// TaskDeleted is the payload of EventTaskDeleted.
type TaskDeleted struct {
	ID int64 `json:"id"`
}

//go:generate go run go.uber.org/mock/mockgen -source=ports.go -destination=../mocks/mock_ports.go -package=mocks
package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/session"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TaskRepository interface {
	List(ctx context.Context, ownerID int64, f domain.TaskFilter) ([]*domain.Task, error)
	Get(ctx context.Context, id, ownerID int64) (*domain.Task, error)
	Create(ctx context.Context, t *domain.Task) error
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id, ownerID int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	Recent(ctx context.Context, limit int) ([]*domain.Message, error)
}

// Notifier fans realtime events out to connected clients. Delivery is best
// effort and never reports failure.
type Notifier interface {
	Broadcast(event string, payload any)
	BroadcastToRoom(room, event string, payload any)
}

// Sessions opens and closes login sessions.
type Sessions interface {
	Issue(ctx context.Context, data session.Data) (string, error)
	Revoke(ctx context.Context, token string) error
}

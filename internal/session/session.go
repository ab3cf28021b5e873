// Package session keeps server-side login sessions and signs the cookie
// tokens that refer to them.
package session

import (
	"context"
	"errors"
	"time"

	"taskboard/internal/domain"
)

// CookieName is the cookie carrying the session token.
const CookieName = "sid"

// ErrNotFound is returned by a Store when the id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Data is the identity snapshot stored for a signed-in user.
type Data struct {
	UserID    int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *domain.User) Data {
	return Data{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (d *Data) Identity() *domain.Identity {
	return &domain.Identity{
		ID:        d.UserID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
	}
}

// Store persists session data by id for a bounded time.
type Store interface {
	Save(ctx context.Context, id string, data Data, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Data, error)
	Delete(ctx context.Context, id string) error
}

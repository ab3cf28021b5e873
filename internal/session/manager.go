package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, forged and expired cookie tokens.
var ErrInvalidToken = errors.New("invalid session token")

// Manager issues signed tokens that reference server-side session records.
// The token alone is not enough: revoking the record ends the session even
// while the signature is still valid.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue stores data under a fresh id and returns the signed token for it.
func (m *Manager) Issue(ctx context.Context, data Data) (string, error) {
	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, data, m.ttl); err != nil {
		return "", err
	}

	now := m.now()
	claims := jwt.MapClaims{
		"sid": sid,
		"sub": fmt.Sprint(data.UserID),
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Resolve verifies the token and returns the session it refers to.
func (m *Manager) Resolve(ctx context.Context, token string) (*Data, error) {
	sid, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	return m.store.Load(ctx, sid)
}

// Revoke removes the session behind token. Unknown or invalid tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	sid, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sid)
}

func (m *Manager) parse(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrInvalidToken
	}
	return sid, nil
}

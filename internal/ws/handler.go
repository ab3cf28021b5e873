package ws

import (
	"context"
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SessionResolver maps a session cookie token to its identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Data, error)
}

// HandleWS upgrades the request. The session cookie is optional; without a
// valid one the connection is anonymous.
func HandleWS(hub *Hub, sessions SessionResolver, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		var user *domain.Identity
		if token, err := c.Cookie(session.CookieName); err == nil {
			if data, err := sessions.Resolve(c.Request.Context(), token); err == nil {
				user = data.Identity()
			}
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err)
			return
		}

		go NewClient(user, conn, hub).Run()
	}
}

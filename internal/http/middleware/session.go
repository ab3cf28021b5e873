package middleware

import (
	"context"
	"net/http"

	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Data, error)
}

// Session attaches the caller's session, if any, to the gin context. It never
// rejects a request; see RequireSession and RequirePageSession.
func Session(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(session.CookieName); err == nil && token != "" {
			if data, err := sessions.Resolve(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, data)
			}
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by Session.
func CurrentSession(c *gin.Context) (*session.Data, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	data, ok := v.(*session.Data)
	return data, ok && data != nil
}

// RequireSession rejects API calls without a session with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RequirePageSession sends browsers without a session to the sign-in page.
func RequirePageSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
			return
		}
		c.Next()
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"taskboard/internal/http/middleware"
	"taskboard/internal/service"
	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth     *service.AuthService
	Tasks    *service.TaskService
	Messages *service.MessageService

	// SessionTTL is the cookie Max-Age.
	SessionTTL    int
	SecureCookies bool
}

func NewHandler(auth *service.AuthService, tasks *service.TaskService, messages *service.MessageService) *Handler {
	return &Handler{
		Auth:     auth,
		Tasks:    tasks,
		Messages: messages,
	}
}

// currentUser returns the session set by middleware.RequireSession.
func currentUser(c *gin.Context) *session.Data {
	data, _ := middleware.CurrentSession(c)
	return data
}

// taskID parses :id. Anything that is not a positive integer is answered
// like a missing task.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return id, true
}

package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// Task fields accept any JSON scalar; non-strings are stringified before validation.
type CreateTaskRequest struct {
	Title       any `json:"title"`
	Description any `json:"description"`
	Priority    any `json:"priority"`
	Status      any `json:"status"`
	Deadline    any `json:"deadline"`
}

// UpdateTaskRequest treats absent and null fields alike: both keep the stored value.
type UpdateTaskRequest struct {
	Title       any `json:"title"`
	Description any `json:"description"`
	Priority    any `json:"priority"`
	Status      any `json:"status"`
	Deadline    any `json:"deadline"`
}

// fieldText renders a decoded JSON value as text.
func fieldText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return "[object]"
	}
}

// optionalField is nil for an absent or null field.
func optionalField(v any) *string {
	if v == nil {
		return nil
	}
	return lo.ToPtr(fieldText(v))
}

// deadlineText maps falsy values (false, 0, "") to no deadline.
func deadlineText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if !x {
			return ""
		}
	case float64:
		if x == 0 {
			return ""
		}
	}
	return fieldText(v)
}

func (h *Handler) ListTasks(c *gin.Context) {
	filter := domain.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		SortBy:   domain.SortField(c.Query("sortBy")),
		SortDir:  domain.SortDir(c.Query("sortDir")),
	}

	tasks, err := h.Tasks.List(c.Request.Context(), currentUser(c).UserID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), currentUser(c).UserID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	in := service.CreateTaskInput{
		Title:       fieldText(req.Title),
		Description: fieldText(req.Description),
		Priority:    fieldText(req.Priority),
		Status:      fieldText(req.Status),
		Deadline:    deadlineText(req.Deadline),
	}

	task, err := h.Tasks.Create(c.Request.Context(), currentUser(c).UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	ownerID := currentUser(c).UserID

	// a missing or foreign task is 404 whatever the body looks like
	if _, err := h.Tasks.Get(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	in := service.UpdateTaskInput{
		Title:       optionalField(req.Title),
		Description: optionalField(req.Description),
		Priority:    optionalField(req.Priority),
		Status:      optionalField(req.Status),
	}
	if req.Deadline != nil {
		in.Deadline = lo.ToPtr(deadlineText(req.Deadline))
	}

	task, err := h.Tasks.Update(c.Request.Context(), ownerID, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), currentUser(c).UserID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

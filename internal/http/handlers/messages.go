package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PostMessageRequest struct {
	Text string `json:"text" form:"text"`
	Room string `json:"room" form:"room"`
}

func (h *Handler) ListMessages(c *gin.Context) {
	msgs, err := h.Messages.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	msg, err := h.Messages.Post(c.Request.Context(), currentUser(c).UserID, req.Text, req.Room)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c).Identity())
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/signin")
}

func (h *Handler) SigninPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signin.html", gin.H{"title": "Sign in"})
}

func (h *Handler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"title": "Sign up"})
}

// Dashboard is mounted behind middleware.RequirePageSession.
func (h *Handler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Dashboard",
		"user":  currentUser(c).Identity(),
	})
}

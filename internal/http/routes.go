package http

import (
	"net/http"

	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/session"
	"taskboard/internal/web"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Handler       *handlers.Handler
	Health        *handlers.HealthHandler
	Sessions      *session.Manager
	Hub           *ws.Hub
	AllowedOrigin string
}

// NewRouter builds the engine with the standard middleware chain and all routes.
func NewRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(d.AllowedOrigin))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	RegisterRoutes(r, d)
	return r, nil
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handler

	// Health checks
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.StaticFS("/public", http.FS(web.Static()))

	withSession := middleware.Session(d.Sessions)

	// Auth
	r.POST("/signup", h.Signup)
	r.POST("/signin", h.Signin)
	r.POST("/signout", h.Signout)

	// Pages
	r.GET("/", h.Root)
	r.GET("/signin", h.SigninPage)
	r.GET("/signup", h.SignupPage)
	pages := r.Group("/", withSession, middleware.RequirePageSession())
	{
		pages.GET("/dashboard", h.Dashboard)
		pages.GET("/index", h.Dashboard)
		pages.GET("/index.html", h.Dashboard)
	}

	api := r.Group("/api", withSession, middleware.RequireSession())
	{
		api.GET("/me", h.Me)

		api.GET("/tasks", h.ListTasks)
		api.POST("/tasks", h.CreateTask)
		api.GET("/tasks/:id", h.GetTask)
		api.PUT("/tasks/:id", h.UpdateTask)
		api.DELETE("/tasks/:id", h.DeleteTask)

		api.GET("/messages", h.ListMessages)
		api.POST("/messages", h.PostMessage)
	}

	// WebSocket for realtime events
	r.GET("/ws", ws.HandleWS(d.Hub, d.Sessions, d.AllowedOrigin))
}

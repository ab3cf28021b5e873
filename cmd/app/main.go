package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/db"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/repository/sqlite"
	"taskboard/internal/service"
	"taskboard/internal/session"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

type repositories struct {
	users    service.UserRepository
	tasks    service.TaskRepository
	messages service.MessageRepository
}

func newRepositories(h *db.Handle) repositories {
	if h.Pool != nil {
		return repositories{
			users:    repository.NewUserRepository(h.Pool),
			tasks:    repository.NewTaskRepository(h.Pool),
			messages: repository.NewMessageRepository(h.Pool),
		}
	}
	return repositories{
		users:    sqlite.NewUserRepository(h.SQL),
		tasks:    sqlite.NewTaskRepository(h.SQL),
		messages: sqlite.NewMessageRepository(h.SQL),
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	dbh, err := db.Open(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer dbh.Close()

	if err := dbh.Migrate(ctx); err != nil {
		logger.Fatal("migrations", "error", err)
	}

	health := handlers.NewHealthHandler(dbh, version)

	var store session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// keep serving with process-local sessions
			logger.Warn("redis unavailable, using in-memory sessions", "error", err)
		} else {
			defer client.Close()
			store = session.NewRedisStore(client)
			health.WithDependency("redis", handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}))
		}
	}
	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL)

	hub := ws.NewHub()
	health.WithConnections(hub.ConnectionCount)

	repos := newRepositories(dbh)
	h := handlers.NewHandler(
		service.NewAuthService(repos.users, sessions, cfg.BcryptCost),
		service.NewTaskService(repos.tasks, hub),
		service.NewMessageService(repos.messages, hub, cfg.MessageHistoryLimit),
	)
	h.SessionTTL = int(cfg.SessionTTL.Seconds())
	h.SecureCookies = cfg.Production()

	r, err := httpServer.NewRouter(httpServer.Deps{
		Handler:       h,
		Health:        health,
		Sessions:      sessions,
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
	})
	if err != nil {
		logger.Fatal("router", "error", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.DBDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

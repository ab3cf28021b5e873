package main

import (
	"context"
	"errors"
	"flag"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/repository/sqlite"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// seed_user creates a login for local testing. Re-running it with the same
// email is harmless.
func main() {
	email := flag.String("email", "tester@example.com", "email")
	password := flag.String("password", "password123", "password (min 8 chars)")
	first := flag.String("first", "Test", "first name")
	last := flag.String("last", "User", "last name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()
	h, err := db.Open(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		logger.Fatal("database", "error", err)
	}
	defer h.Close()

	if err := h.Migrate(ctx); err != nil {
		logger.Fatal("migrate", "error", err)
	}

	var users service.UserRepository
	if h.Pool != nil {
		users = repository.NewUserRepository(h.Pool)
	} else {
		users = sqlite.NewUserRepository(h.SQL)
	}

	// the session is thrown away; only the user row matters here
	sessions := session.NewManager(session.NewMemoryStore(), cfg.SessionSecret, cfg.SessionTTL)
	auth := service.NewAuthService(users, sessions, cfg.BcryptCost)

	id, _, err := auth.Register(ctx, service.RegisterInput{
		FirstName:       *first,
		LastName:        *last,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *password,
	})
	switch {
	case errors.Is(err, domain.ErrConflict):
		logger.Info("user already exists", "email", *email)
	case err != nil:
		logger.Fatal("create user failed", "error", err)
	default:
		logger.Info("user created", "id", id.ID, "email", id.Email)
	}
}

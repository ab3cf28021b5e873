package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := db.Connect(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.MigratePostgres(context.Background(), pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestPostgresUserRepository(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(pool)

	u := &domain.User{FirstName: "Grace", LastName: "Hopper", Email: uniqueEmail("grace"), PasswordHash: "h"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected id to be set")
	}

	dup := &domain.User{FirstName: "G", LastName: "H", Email: u.Email, PasswordHash: "h"}
	if err := repo.Create(ctx, dup); err != domain.ErrConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := repo.GetByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != u.ID || got.FirstName != "Grace" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestPostgresTaskRepository(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	tasks := repository.NewTaskRepository(pool)

	owner := &domain.User{FirstName: "O", LastName: "W", Email: uniqueEmail("owner"), PasswordHash: "h"}
	other := &domain.User{FirstName: "X", LastName: "Y", Email: uniqueEmail("other"), PasswordHash: "h"}
	for _, u := range []*domain.User{owner, other} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	deadline := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
	task := &domain.Task{
		Title:    "ship it",
		Priority: domain.PriorityMedium,
		Status:   domain.StatusPending,
		Deadline: &deadline,
		OwnerID:  owner.ID,
	}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if !task.Deadline.Equal(deadline) {
		t.Fatalf("deadline mismatch: %v", task.Deadline)
	}

	list, err := tasks.List(ctx, owner.ID, domain.TaskFilter{Priority: "Medium"})
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %d", err, len(list))
	}

	if _, err := tasks.Get(ctx, task.ID, other.ID); err != domain.ErrNotFound {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}

	task.Status = domain.StatusInProgress
	if err := tasks.Update(ctx, task); err != nil {
		t.Fatalf("update: %v", err)
	}
	if task.Status != domain.StatusInProgress {
		t.Fatalf("status not updated")
	}

	if err := tasks.Delete(ctx, task.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tasks.Delete(ctx, task.ID, owner.ID); err != domain.ErrNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPostgresMessageRepository(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	msgs := repository.NewMessageRepository(pool)

	u := &domain.User{FirstName: "Chat", LastName: "Ter", Email: uniqueEmail("chat"), PasswordHash: "h"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	m := &domain.Message{SenderID: u.ID, Text: "hello"}
	if err := msgs.Create(ctx, m); err != nil {
		t.Fatalf("create message: %v", err)
	}
	if m.FirstName != "Chat" || m.ID == 0 {
		t.Fatalf("unexpected message: %+v", m)
	}

	recent, err := msgs.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != m.ID {
		t.Fatalf("expected newest message, got %+v", recent)
	}
}

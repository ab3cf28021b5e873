package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"taskboard/internal/db"
	"taskboard/internal/domain"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, sqlDB))
	return sqlDB
}

func createUser(t *testing.T, repo *UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{FirstName: "Ada", LastName: "Lovelace", Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	u := createUser(t, repo, "ada@example.com")
	require.NotZero(t, u.ID)
	require.False(t, u.CreatedAt.IsZero())

	dup := &domain.User{FirstName: "A", LastName: "B", Email: "ada@example.com", PasswordHash: "x"}
	require.ErrorIs(t, repo.Create(ctx, dup), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, "hash", got.PasswordHash)
	require.Equal(t, u.CreatedAt, got.CreatedAt)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	users := NewUserRepository(sqlDB)
	repo := NewTaskRepository(sqlDB)

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	deadline := time.Date(2030, 1, 2, 3, 4, 5, 678000000, time.UTC)
	task := &domain.Task{
		Title:    "Write report",
		Priority: domain.PriorityHigh,
		Status:   domain.StatusPending,
		Deadline: &deadline,
		OwnerID:  owner.ID,
	}
	require.NoError(t, repo.Create(ctx, task))
	require.NotZero(t, task.ID)
	require.Equal(t, deadline, *task.Deadline)
	require.Equal(t, task.CreatedAt, task.UpdatedAt)

	_, err := repo.Get(ctx, task.ID, other.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	time.Sleep(5 * time.Millisecond)
	task.Status = domain.StatusCompleted
	task.Deadline = nil
	require.NoError(t, repo.Update(ctx, task))
	require.Equal(t, domain.StatusCompleted, task.Status)
	require.Nil(t, task.Deadline)
	require.True(t, task.UpdatedAt.After(task.CreatedAt))

	foreign := *task
	foreign.OwnerID = other.ID
	require.ErrorIs(t, repo.Update(ctx, &foreign), domain.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, task.ID, other.ID), domain.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, task.ID, owner.ID))
	require.ErrorIs(t, repo.Delete(ctx, task.ID, owner.ID), domain.ErrNotFound)
}

func TestTaskRepositoryListFilterAndSort(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	users := NewUserRepository(sqlDB)
	repo := NewTaskRepository(sqlDB)

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	d1 := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []*domain.Task{
		{Title: "a", Priority: domain.PriorityLow, Status: domain.StatusPending, Deadline: &d1, OwnerID: owner.ID},
		{Title: "b", Priority: domain.PriorityHigh, Status: domain.StatusPending, OwnerID: owner.ID},
		{Title: "c", Priority: domain.PriorityHigh, Status: domain.StatusCompleted, Deadline: &d2, OwnerID: owner.ID},
		{Title: "foreign", Priority: domain.PriorityHigh, Status: domain.StatusPending, OwnerID: other.ID},
	}
	for _, task := range seed {
		require.NoError(t, repo.Create(ctx, task))
	}

	titles := func(tasks []*domain.Task) []string {
		out := make([]string, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, t.Title)
		}
		return out
	}

	all, err := repo.List(ctx, owner.ID, domain.TaskFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, titles(all))

	high, err := repo.List(ctx, owner.ID, domain.TaskFilter{Priority: "High"})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b"}, titles(high))

	pendingHigh, err := repo.List(ctx, owner.ID, domain.TaskFilter{Priority: "High", Status: "Pending"})
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, titles(pendingHigh))

	unknown, err := repo.List(ctx, owner.ID, domain.TaskFilter{Status: "Done"})
	require.NoError(t, err)
	require.Empty(t, unknown)

	byDeadline, err := repo.List(ctx, owner.ID, domain.TaskFilter{SortBy: domain.SortDeadline, SortDir: domain.SortAsc})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, titles(byDeadline))

	byDeadlineDesc, err := repo.List(ctx, owner.ID, domain.TaskFilter{SortBy: domain.SortDeadline, SortDir: domain.SortDesc})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "c", "b"}, titles(byDeadlineDesc))
}

func TestMessageRepositoryRecent(t *testing.T) {
	ctx := context.Background()
	sqlDB := openTestDB(t)
	users := NewUserRepository(sqlDB)
	repo := NewMessageRepository(sqlDB)

	sender := createUser(t, users, "chat@example.com")

	for _, text := range []string{"one", "two", "three"} {
		m := &domain.Message{SenderID: sender.ID, Text: text}
		require.NoError(t, repo.Create(ctx, m))
		require.NotZero(t, m.ID)
		require.Equal(t, "Ada", m.FirstName)
		require.Equal(t, "Lovelace", m.LastName)
	}

	got, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "two", got[0].Text)
	require.Equal(t, "three", got[1].Text)

	got, err = repo.Recent(ctx, 500)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "one", got[0].Text)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, title, description, priority, status, deadline, owner_id, created_at, updated_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.Deadline,
		&t.OwnerID,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if t.Deadline != nil {
		d := t.Deadline.UTC()
		t.Deadline = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// List returns the owner's tasks matching every non-empty filter field.
func (r *TaskRepository) List(ctx context.Context, ownerID int64, f domain.TaskFilter) ([]*domain.Task, error) {
	clauses := []string{"owner_id = $1"}
	args := []any{ownerID}
	if f.Status != "" {
		args = append(args, f.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		clauses = append(clauses, fmt.Sprintf("priority = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(clauses, " AND ") + ` ` + TaskOrderBy(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// Get returns the task only if ownerID owns it; anything else is domain.ErrNotFound.
func (r *TaskRepository) Get(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Create inserts t and refreshes it with the stored row.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	stored, err := scanTask(r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, priority, status, deadline, owner_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+taskColumns,
		t.Title, t.Description, t.Priority, t.Status, t.Deadline, t.OwnerID,
	))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	*t = *stored
	return nil
}

// Update writes the mutable fields of t. The row must belong to t.OwnerID.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	stored, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, priority = $3, status = $4, deadline = $5
		 WHERE id = $6 AND owner_id = $7
		 RETURNING `+taskColumns,
		t.Title, t.Description, t.Priority, t.Status, t.Deadline, t.ID, t.OwnerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	*t = *stored
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

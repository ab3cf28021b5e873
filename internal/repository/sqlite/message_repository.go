package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"taskboard/internal/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageSelect = `SELECT m.id, m.sender_id, m.text, m.created_at, u.first_name, u.last_name
	FROM messages m JOIN users u ON u.id = m.sender_id`

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		m         domain.Message
		createdAt string
	)
	if err := row.Scan(&m.ID, &m.SenderID, &m.Text, &createdAt, &m.FirstName, &m.LastName); err != nil {
		return nil, err
	}
	var err error
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (sender_id, text) VALUES (?, ?)`, m.SenderID, m.Text)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	stored, err := scanMessage(r.db.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id))
	if err != nil {
		return fmt.Errorf("select message: %w", err)
	}
	*m = *stored
	return nil
}

// Recent returns the newest limit messages, oldest first.
func (r *MessageRepository) Recent(ctx context.Context, limit int) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT * FROM (`+messageSelect+` ORDER BY m.created_at DESC, m.id DESC LIMIT ?)
		 ORDER BY created_at ASC, id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	res := []*domain.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}

package repository

import (
	"context"
	"fmt"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create appends m and fills id, created_at and the sender's name.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	err := r.db.QueryRow(ctx,
		`WITH ins AS (
		     INSERT INTO messages (sender_id, text) VALUES ($1, $2)
		     RETURNING id, sender_id, text, created_at
		 )
		 SELECT ins.id, ins.sender_id, ins.text, ins.created_at, u.first_name, u.last_name
		 FROM ins JOIN users u ON u.id = ins.sender_id`,
		m.SenderID, m.Text,
	).Scan(&m.ID, &m.SenderID, &m.Text, &m.CreatedAt, &m.FirstName, &m.LastName)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return nil
}

// Recent returns the newest limit messages, oldest first.
func (r *MessageRepository) Recent(ctx context.Context, limit int) ([]*domain.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, sender_id, text, created_at, first_name, last_name FROM (
		     SELECT m.id, m.sender_id, m.text, m.created_at, u.first_name, u.last_name
		     FROM messages m JOIN users u ON u.id = m.sender_id
		     ORDER BY m.created_at DESC, m.id DESC
		     LIMIT $1
		 ) recent
		 ORDER BY created_at ASC, id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	res := []*domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.Text, &m.CreatedAt, &m.FirstName, &m.LastName); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.CreatedAt = m.CreatedAt.UTC()
		res = append(res, &m)
	}
	return res, rows.Err()
}

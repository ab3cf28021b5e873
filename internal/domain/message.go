package domain

import "time"

// Message is a chat log entry joined with its sender's display name.
type Message struct {
	ID        int64     `db:"id" json:"id"`
	SenderID  int64     `db:"sender_id" json:"sender_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
}

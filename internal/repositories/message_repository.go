package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"chatter-service/internal/models"
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	// SaveMessage persists a message, assigning id, UTC timestamp and
	// the SENT status. Client-supplied ids or timestamps are never used.
	SaveMessage(ctx context.Context, sender, content string) (models.Message, error)
	// LastMessages returns up to limit messages, most recent first.
	LastMessages(ctx context.Context, limit int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// SaveMessage stores a message with a server-assigned timestamp.
func (r *MessageRepo) SaveMessage(ctx context.Context, sender, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender, content, message_status, created_at)
        VALUES ($1, $2, 'SENT', NOW()) RETURNING id, sender, content, message_status, created_at`, sender, content).
		Scan(&msg.ID, &msg.Sender, &msg.Content, &msg.Status, &msg.Timestamp)
	if err != nil {
		return models.Message{}, err
	}
	msg.Timestamp = msg.Timestamp.UTC()
	return msg, nil
}

// LastMessages returns the newest messages ordered most recent first.
func (r *MessageRepo) LastMessages(ctx context.Context, limit int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT id, sender, content, message_status, created_at
        FROM messages ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	return msgs, err
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"chatwire/internal/core/domain"
)

type MessageRepo struct {
	db *sql.DB
}

func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// Save inserts the message and returns the canonical record. The id is
// generated here; created_at comes back from the database so every
// observer sees the same timestamp.
func (r *MessageRepo) Save(
	ctx context.Context,
	senderID, receiverID, text, attachment string,
) (*domain.MessageRecord, error) {
	rec := &domain.MessageRecord{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Attachment: attachment,
	}
	exec := getExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, `
        INSERT INTO messages (id, sender_id, receiver_id, body, attachment)
        VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
        RETURNING created_at
    `, rec.ID, senderID, receiverID, text, attachment).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *MessageRepo) ListConversation(
	ctx context.Context,
	userA, userB string,
) ([]domain.MessageRecord, error) {
	exec := getExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, sender_id, receiver_id, COALESCE(body, ''), COALESCE(attachment, ''), created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []domain.MessageRecord
	for rows.Next() {
		var m domain.MessageRecord
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Text,
			&m.Attachment,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

package repository

import (
	"context"
	"time"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, conversation_id, sender_id, receiver_id, type, content,
	   document_id, assessment_id, is_read, created_at`

func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (conversation_id, sender_id, receiver_id, type, content,
			document_id, assessment_id, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id, is_read, created_at
	`
	return r.db.QueryRow(ctx, query,
		message.ConversationID,
		message.SenderID,
		message.ReceiverID,
		message.Type,
		message.Content,
		message.DocumentID,
		message.AssessmentID,
	).Scan(&message.ID, &message.IsRead, &message.CreatedAt)
}

// ListByConversation returns the full history oldest-first. Ties on created_at
// fall back to insertion order via id.
func (r *MessageRepository) ListByConversation(
	ctx context.Context,
	conversationID int64,
) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`
	return r.listMessages(ctx, query, conversationID)
}

func (r *MessageRepository) ListUnreadForUserSince(
	ctx context.Context,
	userID int64,
	since time.Time,
) ([]models.Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages
		WHERE receiver_id = $1
		  AND is_read = FALSE
		  AND created_at >= $2
		ORDER BY created_at ASC, id ASC
	`
	return r.listMessages(ctx, query, userID, since)
}

func (r *MessageRepository) MarkConversationRead(
	ctx context.Context,
	conversationID int64,
	readerID int64,
) error {
	_, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE conversation_id = $1
		  AND receiver_id = $2
		  AND is_read = FALSE
	`, conversationID, readerID)
	return err
}

func (r *MessageRepository) listMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.SenderID,
			&message.ReceiverID,
			&message.Type,
			&message.Content,
			&message.DocumentID,
			&message.AssessmentID,
			&message.IsRead,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type ConversationRepository struct {
	db DBTX
}

func NewConversationRepository(db DBTX) *ConversationRepository {
	return &ConversationRepository{db: db}
}

const conversationColumns = `id, coach_id, seeker_id, match_id, created_at, updated_at`

// CreateOrGetForMatch is the atomic get-or-create keyed on the bound match.
// The unique constraint on match_id turns the old check-then-create race into
// a single upsert.
func (r *ConversationRepository) CreateOrGetForMatch(
	ctx context.Context,
	coachID int64,
	seekerID int64,
	matchID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (coach_id, seeker_id, match_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (match_id)
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING ` + conversationColumns + `
	`
	return r.scanConversation(r.db.QueryRow(ctx, query, coachID, seekerID, matchID))
}

// CreateOrGetAdHoc creates a conversation with no bound match. At most one
// such conversation exists per (coach, seeker) pair.
func (r *ConversationRepository) CreateOrGetAdHoc(
	ctx context.Context,
	coachID int64,
	seekerID int64,
) (*models.Conversation, error) {
	query := `
		INSERT INTO conversations (coach_id, seeker_id)
		VALUES ($1, $2)
		ON CONFLICT (coach_id, seeker_id) WHERE match_id IS NULL
		DO UPDATE SET updated_at = conversations.updated_at
		RETURNING ` + conversationColumns + `
	`
	return r.scanConversation(r.db.QueryRow(ctx, query, coachID, seekerID))
}

func (r *ConversationRepository) GetByID(ctx context.Context, conversationID int64) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = $1
	`
	return r.scanConversation(r.db.QueryRow(ctx, query, conversationID))
}

func (r *ConversationRepository) GetByIDForParticipant(
	ctx context.Context,
	conversationID int64,
	participantID int64,
) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE id = $1 AND (coach_id = $2 OR seeker_id = $2)
	`
	return r.scanConversation(r.db.QueryRow(ctx, query, conversationID, participantID))
}

func (r *ConversationRepository) GetByMatchID(ctx context.Context, matchID int64) (*models.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE match_id = $1
	`
	return r.scanConversation(r.db.QueryRow(ctx, query, matchID))
}

func (r *ConversationRepository) ListForParticipant(
	ctx context.Context,
	participantID int64,
) ([]models.ConversationSummary, error) {
	query := `
		SELECT
			c.id,
			c.coach_id,
			c.seeker_id,
			c.match_id,
			c.created_at,
			c.updated_at,
			lm.id,
			lm.conversation_id,
			lm.sender_id,
			lm.receiver_id,
			lm.type,
			lm.content,
			lm.is_read,
			lm.created_at,
			COALESCE(uc.unread_count, 0)
		FROM conversations c
		LEFT JOIN LATERAL (
			SELECT id, conversation_id, sender_id, receiver_id, type, content, is_read, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS unread_count
			FROM messages
			WHERE conversation_id = c.id
			  AND receiver_id = $1
			  AND is_read = FALSE
		) uc ON TRUE
		WHERE c.coach_id = $1 OR c.seeker_id = $1
		ORDER BY COALESCE(lm.created_at, c.updated_at, c.created_at) DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]models.ConversationSummary, 0)
	for rows.Next() {
		var summary models.ConversationSummary
		var messageID sql.NullInt64
		var messageConversationID sql.NullInt64
		var messageSenderID sql.NullInt64
		var messageReceiverID sql.NullInt64
		var messageType sql.NullString
		var messageContent sql.NullString
		var messageIsRead sql.NullBool
		var messageCreatedAt sql.NullTime

		if err := rows.Scan(
			&summary.ID,
			&summary.CoachID,
			&summary.SeekerID,
			&summary.MatchID,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&messageID,
			&messageConversationID,
			&messageSenderID,
			&messageReceiverID,
			&messageType,
			&messageContent,
			&messageIsRead,
			&messageCreatedAt,
			&summary.UnreadCount,
		); err != nil {
			return nil, err
		}

		if messageID.Valid {
			summary.LastMessage = &models.Message{
				ID:             messageID.Int64,
				ConversationID: messageConversationID.Int64,
				SenderID:       messageSenderID.Int64,
				ReceiverID:     messageReceiverID.Int64,
				Type:           messageType.String,
				Content:        messageContent.String,
				IsRead:         messageIsRead.Bool,
				CreatedAt:      messageCreatedAt.Time,
			}
		}

		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *ConversationRepository) Touch(ctx context.Context, conversationID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET updated_at = NOW()
		WHERE id = $1
	`, conversationID)
	return err
}

func (r *ConversationRepository) scanConversation(row interface{ Scan(dest ...any) error }) (*models.Conversation, error) {
	var conversation models.Conversation
	err := row.Scan(
		&conversation.ID,
		&conversation.CoachID,
		&conversation.SeekerID,
		&conversation.MatchID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

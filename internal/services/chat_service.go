package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/notify"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

// DecryptFailureSentinel replaces message content that can no longer be
// decrypted, typically after a key rotation. The stored row is left untouched.
const DecryptFailureSentinel = "[message unavailable]"

type documentReader interface {
	GetByID(ctx context.Context, documentID int64) (*models.Document, error)
}

type assessmentReader interface {
	GetByID(ctx context.Context, assessmentID int64) (*models.Assessment, error)
}

type ChatService struct {
	db               *pgxpool.Pool
	conversationRepo *repository.ConversationRepository
	messageRepo      *repository.MessageRepository
	matchRepo        *repository.MatchRepository
	userRepo         userReader
	documentRepo     documentReader
	assessmentRepo   assessmentReader
	cipher           *utils.MessageCipher
	notifications    notifier
}

func NewChatService(
	db *pgxpool.Pool,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	matchRepo *repository.MatchRepository,
	userRepo userReader,
	documentRepo documentReader,
	assessmentRepo assessmentReader,
	cipher *utils.MessageCipher,
	notifications notifier,
) *ChatService {
	return &ChatService{
		db:               db,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		matchRepo:        matchRepo,
		userRepo:         userRepo,
		documentRepo:     documentRepo,
		assessmentRepo:   assessmentRepo,
		cipher:           cipher,
		notifications:    notifications,
	}
}

func (s *ChatService) ListConversations(ctx context.Context, userID int64) ([]models.ConversationSummary, error) {
	summaries, err := s.conversationRepo.ListForParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if summaries[i].LastMessage != nil {
			summaries[i].LastMessage.Content = decryptOrSentinel(s.cipher, summaries[i].LastMessage.Content)
		}
	}
	return summaries, nil
}

// CreateConversation opens (or returns) the ad-hoc conversation between the
// actor and the given counterpart, independent of any match.
func (s *ChatService) CreateConversation(ctx context.Context, actorID int64, otherUserID int64) (*models.Conversation, error) {
	if otherUserID <= 0 || otherUserID == actorID {
		return nil, ErrInvalidInput
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	other, err := s.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if actor.IsCoach() {
				return nil, ErrSeekerNotFound
			}
			return nil, ErrCoachNotFound
		}
		return nil, err
	}

	// A conversation always pairs one coach with one seeker.
	if actor.IsCoach() == other.IsCoach() {
		return nil, ErrInvalidInput
	}

	coachID, seekerID := actorID, otherUserID
	if !actor.IsCoach() {
		coachID, seekerID = otherUserID, actorID
	}

	return s.conversationRepo.CreateOrGetAdHoc(ctx, coachID, seekerID)
}

// GetConversation distinguishes a missing conversation from one the actor is
// simply not part of.
func (s *ChatService) GetConversation(ctx context.Context, conversationID int64, actorID int64) (*models.Conversation, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.IsParticipant(actorID) {
		return nil, ErrForbidden
	}
	return conversation, nil
}

// ListMessages returns the full history oldest-first and marks everything
// addressed to the reader as read in the same transaction.
func (s *ChatService) ListMessages(ctx context.Context, conversationID int64, actorID int64) ([]models.Message, error) {
	conversation, err := s.GetConversation(ctx, conversationID, actorID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)

	messages, err := txMessageRepo.ListByConversation(ctx, conversation.ID)
	if err != nil {
		return nil, err
	}
	if err := txMessageRepo.MarkConversationRead(ctx, conversation.ID, actorID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	for i := range messages {
		messages[i].Content = decryptOrSentinel(s.cipher, messages[i].Content)
		if messages[i].ReceiverID == actorID {
			messages[i].IsRead = true
		}
	}
	return messages, nil
}

type PostMessageInput struct {
	ConversationID int64
	SenderID       int64
	Type           string
	Content        string
	DocumentID     *int64
	AssessmentID   *int64
}

func (s *ChatService) PostMessage(ctx context.Context, input PostMessageInput) (*models.Message, error) {
	if !models.ValidMessageType(input.Type) {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	conversation, err := s.conversationRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.IsParticipant(input.SenderID) {
		return nil, ErrForbidden
	}

	// Conversations bound to a match only open up once the match is accepted.
	// System messages bypass the gate so lifecycle announcements get through.
	if conversation.MatchID != nil && input.Type != models.MessageTypeSystem {
		match, err := s.matchRepo.GetByID(ctx, *conversation.MatchID)
		if err != nil {
			return nil, err
		}
		if match.Status != models.MatchStatusMatched {
			return nil, ErrMatchNotAccepted
		}
	}

	if err := s.validateReference(ctx, input); err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(content)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       input.SenderID,
		ReceiverID:     conversation.OtherParticipant(input.SenderID),
		Type:           input.Type,
		Content:        encrypted,
		DocumentID:     input.DocumentID,
		AssessmentID:   input.AssessmentID,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)

	if err := txMessageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	if err := txConversationRepo.Touch(ctx, conversation.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	message.Content = content

	if s.notifications != nil {
		s.notifications.Notify(message.ReceiverID, notify.Event{Type: notify.EventTypeMessage, Payload: message})
		s.notifications.CheckForNewNotifications(ctx, message.ReceiverID, message.ReceiverID == conversation.CoachID)
	}

	return message, nil
}

// validateReference enforces that attached documents and assessments belong to
// the sender; anything else is a validation failure, not a permissions one.
func (s *ChatService) validateReference(ctx context.Context, input PostMessageInput) error {
	switch input.Type {
	case models.MessageTypeDocumentRef:
		if input.DocumentID == nil {
			return ErrInvalidInput
		}
		document, err := s.documentRepo.GetByID(ctx, *input.DocumentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidInput
			}
			return err
		}
		if document.UserID != input.SenderID {
			return ErrInvalidInput
		}
	case models.MessageTypeAssessmentRef:
		if input.AssessmentID == nil {
			return ErrInvalidInput
		}
		assessment, err := s.assessmentRepo.GetByID(ctx, *input.AssessmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidInput
			}
			return err
		}
		if assessment.UserID != input.SenderID {
			return ErrInvalidInput
		}
	default:
		if input.DocumentID != nil || input.AssessmentID != nil {
			return ErrInvalidInput
		}
	}
	return nil
}

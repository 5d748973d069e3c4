package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/notify"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
	"github.com/BingoAIHelper/bingo-backend/pkg/utils"
)

var (
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidInput     = errors.New("invalid input")
	ErrCoachNotFound    = errors.New("coach not found")
	ErrSeekerNotFound   = errors.New("seeker not found")
	ErrMatchNotAccepted = errors.New("match not accepted")
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type seekerProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.SeekerProfile, error)
}

type coachProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error)
}

type notifier interface {
	Notify(userID int64, event notify.Event)
	CheckForNewNotifications(ctx context.Context, userID int64, isCoach bool)
}

type MatchService struct {
	db                *pgxpool.Pool
	matchRepo         *repository.MatchRepository
	conversationRepo  *repository.ConversationRepository
	messageRepo       *repository.MessageRepository
	userRepo          userReader
	seekerProfileRepo seekerProfileReader
	coachProfileRepo  coachProfileReader
	matchmaking       *MatchmakingService
	ai                AIService
	cipher            *utils.MessageCipher
	notifications     notifier
}

func NewMatchService(
	db *pgxpool.Pool,
	matchRepo *repository.MatchRepository,
	conversationRepo *repository.ConversationRepository,
	messageRepo *repository.MessageRepository,
	userRepo userReader,
	seekerProfileRepo seekerProfileReader,
	coachProfileRepo coachProfileReader,
	matchmaking *MatchmakingService,
	ai AIService,
	cipher *utils.MessageCipher,
	notifications notifier,
) *MatchService {
	return &MatchService{
		db:                db,
		matchRepo:         matchRepo,
		conversationRepo:  conversationRepo,
		messageRepo:       messageRepo,
		userRepo:          userRepo,
		seekerProfileRepo: seekerProfileRepo,
		coachProfileRepo:  coachProfileRepo,
		matchmaking:       matchmaking,
		ai:                ai,
		cipher:            cipher,
		notifications:     notifications,
	}
}

type RequestMatchInput struct {
	CoachID     int64
	SeekerID    int64
	InitiatorID int64
	MatchScore  *int
	MatchReason string
}

type RequestMatchResult struct {
	Match        *models.CoachMatch   `json:"match"`
	Conversation *models.Conversation `json:"conversation"`
}

func (s *MatchService) RequestMatch(ctx context.Context, input RequestMatchInput) (*RequestMatchResult, error) {
	if input.CoachID <= 0 || input.SeekerID <= 0 || input.CoachID == input.SeekerID {
		return nil, ErrInvalidInput
	}
	if input.InitiatorID != input.CoachID && input.InitiatorID != input.SeekerID {
		return nil, ErrForbidden
	}
	if input.MatchScore != nil && (*input.MatchScore < 0 || *input.MatchScore > 100) {
		return nil, ErrInvalidInput
	}

	coach, err := s.userRepo.GetByID(ctx, input.CoachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCoachNotFound
		}
		return nil, err
	}
	if !coach.IsCoach() {
		return nil, ErrCoachNotFound
	}

	seeker, err := s.userRepo.GetByID(ctx, input.SeekerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeekerNotFound
		}
		return nil, err
	}
	if seeker.IsCoach() {
		return nil, ErrSeekerNotFound
	}

	score, reason := s.scoreAndReason(ctx, input)

	intro := "Hi! I'd love your help with my job search. Looking forward to working together."
	if input.InitiatorID == input.CoachID {
		intro = "Hi! I think I could help you reach your goals and would love to work together."
	}

	encryptedIntro, err := s.cipher.Encrypt(intro)
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

	txMatchRepo := repository.NewMatchRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)
	txMessageRepo := repository.NewMessageRepository(tx)

	match := &models.CoachMatch{
		CoachID:     input.CoachID,
		SeekerID:    input.SeekerID,
		Status:      models.MatchStatusPending,
		MatchScore:  score,
		MatchReason: reason,
	}
	if err := txMatchRepo.Create(ctx, match); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrConflict
		}
		return nil, err
	}

	conversation, err := txConversationRepo.CreateOrGetForMatch(ctx, input.CoachID, input.SeekerID, match.ID)
	if err != nil {
		return nil, err
	}

	introMessage := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       input.InitiatorID,
		ReceiverID:     match.OtherParticipant(input.InitiatorID),
		Type:           models.MessageTypeText,
		Content:        encryptedIntro,
	}
	if err := txMessageRepo.Create(ctx, introMessage); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifyCounterparty(ctx, match, input.InitiatorID)

	return &RequestMatchResult{Match: match, Conversation: conversation}, nil
}

func (s *MatchService) RespondToMatch(
	ctx context.Context,
	matchID int64,
	actorID int64,
	newStatus string,
) (*models.CoachMatch, error) {
	if newStatus != models.MatchStatusMatched && newStatus != models.MatchStatusDeclined {
		return nil, ErrInvalidStatus
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(actorID) {
		return nil, ErrForbidden
	}
	if match.Status != models.MatchStatusPending {
		return nil, ErrConflict
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMatchRepo := repository.NewMatchRepository(tx)
	txConversationRepo := repository.NewConversationRepository(tx)
	txMessageRepo := repository.NewMessageRepository(tx)

	updated, err := txMatchRepo.UpdateStatus(ctx, matchID, newStatus)
	if err != nil {
		// The pending check above ran outside this transaction; a concurrent
		// responder may have resolved the match in between.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if newStatus == models.MatchStatusMatched {
		// The conversation normally exists from the original request, but the
		// upsert also covers matches created before one did.
		conversation, err := txConversationRepo.CreateOrGetForMatch(ctx, match.CoachID, match.SeekerID, match.ID)
		if err != nil {
			return nil, err
		}

		acceptance := "I've accepted your request. Excited to get started!"
		if actorID == match.SeekerID {
			acceptance = "I've accepted! Looking forward to working with you."
		}

		if err := s.insertEncrypted(ctx, txMessageRepo, &models.Message{
			ConversationID: conversation.ID,
			SenderID:       actorID,
			ReceiverID:     match.OtherParticipant(actorID),
			Type:           models.MessageTypeText,
		}, acceptance); err != nil {
			return nil, err
		}

		if err := s.insertEncrypted(ctx, txMessageRepo, &models.Message{
			ConversationID: conversation.ID,
			SenderID:       actorID,
			ReceiverID:     match.OtherParticipant(actorID),
			Type:           models.MessageTypeSystem,
		}, "You're now connected. Say hello and plan your first session together."); err != nil {
			return nil, err
		}

		if err := txConversationRepo.Touch(ctx, conversation.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifyCounterparty(ctx, updated, actorID)

	return updated, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID int64, actorID int64) (*models.CoachMatch, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(actorID) {
		return nil, ErrForbidden
	}
	return match, nil
}

func (s *MatchService) ListMatches(ctx context.Context, actorID int64) ([]models.CoachMatch, error) {
	return s.matchRepo.ListForUser(ctx, actorID)
}

func (s *MatchService) scoreAndReason(ctx context.Context, input RequestMatchInput) (int, *string) {
	score := 0
	if input.MatchScore != nil {
		score = *input.MatchScore
	}

	var seekerProfile *models.SeekerProfile
	var coachProfile *models.CoachProfile
	if profile, err := s.seekerProfileRepo.GetByUserID(ctx, input.SeekerID); err == nil {
		seekerProfile = profile
	}
	if profile, err := s.coachProfileRepo.GetByUserID(ctx, input.CoachID); err == nil {
		coachProfile = profile
	}

	if input.MatchScore == nil && seekerProfile != nil && coachProfile != nil {
		score = s.matchmaking.ScoreCoach(seekerProfile, coachProfile)
	}

	reason := input.MatchReason
	if reason == "" {
		reason = DefaultMatchReason
		if s.ai != nil && seekerProfile != nil && coachProfile != nil {
			if generated, err := s.ai.GenerateMatchReason(ctx, seekerProfile, coachProfile); err == nil && generated != "" {
				reason = generated
			}
		}
	}

	return score, &reason
}

func (s *MatchService) insertEncrypted(
	ctx context.Context,
	repo *repository.MessageRepository,
	message *models.Message,
	plaintext string,
) error {
	encrypted, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return err
	}
	message.Content = encrypted
	return repo.Create(ctx, message)
}

func (s *MatchService) notifyCounterparty(ctx context.Context, match *models.CoachMatch, actorID int64) {
	if s.notifications == nil {
		return
	}
	other := match.OtherParticipant(actorID)
	s.notifications.Notify(other, notify.Event{Type: notify.EventTypeMatch, Payload: match})
	s.notifications.CheckForNewNotifications(ctx, other, other == match.CoachID)
}

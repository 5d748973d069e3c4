package services

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
)

type matchedPairChecker interface {
	HasMatchedPair(ctx context.Context, coachID, seekerID int64) (bool, error)
}

type AssessmentService struct {
	db             *pgxpool.Pool
	assessmentRepo *repository.AssessmentRepository
	userRepo       *repository.UserRepository
	matchRepo      matchedPairChecker
}

func NewAssessmentService(
	db *pgxpool.Pool,
	assessmentRepo *repository.AssessmentRepository,
	userRepo *repository.UserRepository,
	matchRepo matchedPairChecker,
) *AssessmentService {
	return &AssessmentService{
		db:             db,
		assessmentRepo: assessmentRepo,
		userRepo:       userRepo,
		matchRepo:      matchRepo,
	}
}

// Submit stores the seeker's self-report and flips the completion flag on the
// user row in the same transaction.
func (s *AssessmentService) Submit(
	ctx context.Context,
	userID int64,
	role string,
	input repository.AssessmentInput,
) (*models.Assessment, error) {
	if role != models.RoleSeeker {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txAssessmentRepo := repository.NewAssessmentRepository(tx)
	txUserRepo := repository.NewUserRepository(tx)

	assessment, err := txAssessmentRepo.Upsert(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if err := txUserRepo.SetAssessmentCompleted(ctx, userID, true); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return assessment, nil
}

func (s *AssessmentService) GetOwn(ctx context.Context, userID int64) (*models.Assessment, error) {
	return s.assessmentRepo.GetByUserID(ctx, userID)
}

// GetForSeeker lets a coach read a seeker's assessment, but only while an
// accepted match links the two.
func (s *AssessmentService) GetForSeeker(
	ctx context.Context,
	coachID int64,
	role string,
	seekerID int64,
) (*models.Assessment, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}

	matched, err := s.matchRepo.HasMatchedPair(ctx, coachID, seekerID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrForbidden
	}

	return s.assessmentRepo.GetByUserID(ctx, seekerID)
}

// AddSection appends a coach-authored section to a matched seeker's
// assessment. The author is always stamped from the authenticated actor.
func (s *AssessmentService) AddSection(
	ctx context.Context,
	coachID int64,
	role string,
	seekerID int64,
	section models.AssessmentSection,
) (*models.Assessment, error) {
	if role != models.RoleCoach {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(section.Title) == "" {
		return nil, ErrInvalidInput
	}

	matched, err := s.matchRepo.HasMatchedPair(ctx, coachID, seekerID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrForbidden
	}

	assessment, err := s.assessmentRepo.GetByUserID(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	section.AuthorID = coachID
	if section.Questions == nil {
		section.Questions = []models.QuestionAnswer{}
	}

	return s.assessmentRepo.AddSection(ctx, assessment.ID, section)
}

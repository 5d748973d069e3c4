package repository

import (
	"context"
	"encoding/json"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type AssessmentRepository struct {
	db DBTX
}

func NewAssessmentRepository(db DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

type AssessmentInput struct {
	Disabilities       []string `json:"disabilities"`
	JobPreferences     []string `json:"job_preferences"`
	LearningStyle      string   `json:"learning_style"`
	CommunicationStyle string   `json:"communication_style"`
	Strengths          string   `json:"strengths"`
	Challenges         string   `json:"challenges"`
	SupportNeeds       string   `json:"support_needs"`
}

const assessmentColumns = `id, user_id, disabilities, job_preferences, learning_style,
	   communication_style, strengths, challenges, support_needs, sections,
	   created_at, updated_at`

// Upsert keeps one active assessment per user; resubmission overwrites the
// self-report fields but preserves coach-authored sections.
func (r *AssessmentRepository) Upsert(ctx context.Context, userID int64, req AssessmentInput) (*models.Assessment, error) {
	query := `
		INSERT INTO assessments (user_id, disabilities, job_preferences, learning_style,
			communication_style, strengths, challenges, support_needs)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id)
		DO UPDATE SET disabilities = EXCLUDED.disabilities,
			job_preferences = EXCLUDED.job_preferences,
			learning_style = EXCLUDED.learning_style,
			communication_style = EXCLUDED.communication_style,
			strengths = EXCLUDED.strengths,
			challenges = EXCLUDED.challenges,
			support_needs = EXCLUDED.support_needs,
			updated_at = NOW()
		RETURNING ` + assessmentColumns + `
	`
	return r.scanAssessment(r.db.QueryRow(ctx, query,
		userID,
		req.Disabilities,
		req.JobPreferences,
		req.LearningStyle,
		req.CommunicationStyle,
		req.Strengths,
		req.Challenges,
		req.SupportNeeds,
	))
}

func (r *AssessmentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE user_id = $1
	`
	return r.scanAssessment(r.db.QueryRow(ctx, query, userID))
}

func (r *AssessmentRepository) GetByID(ctx context.Context, assessmentID int64) (*models.Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE id = $1
	`
	return r.scanAssessment(r.db.QueryRow(ctx, query, assessmentID))
}

func (r *AssessmentRepository) AddSection(
	ctx context.Context,
	assessmentID int64,
	section models.AssessmentSection,
) (*models.Assessment, error) {
	encoded, err := json.Marshal(section)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE assessments
		SET sections = sections || jsonb_build_array($1::jsonb),
			updated_at = NOW()
		WHERE id = $2
		RETURNING ` + assessmentColumns + `
	`
	return r.scanAssessment(r.db.QueryRow(ctx, query, encoded, assessmentID))
}

func (r *AssessmentRepository) scanAssessment(row interface{ Scan(dest ...any) error }) (*models.Assessment, error) {
	var assessment models.Assessment
	var sections []byte
	err := row.Scan(
		&assessment.ID,
		&assessment.UserID,
		&assessment.Disabilities,
		&assessment.JobPreferences,
		&assessment.LearningStyle,
		&assessment.CommunicationStyle,
		&assessment.Strengths,
		&assessment.Challenges,
		&assessment.SupportNeeds,
		&sections,
		&assessment.CreatedAt,
		&assessment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &assessment.Sections); err != nil {
			return nil, err
		}
	}

	return &assessment, nil
}

package repository

import (
	"context"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type SeekerProfileRepository struct {
	db DBTX
}

func NewSeekerProfileRepository(db DBTX) *SeekerProfileRepository {
	return &SeekerProfileRepository{db: db}
}

type SeekerOnboardingInput struct {
	FullName            string   `json:"full_name"`
	Bio                 string   `json:"bio"`
	Location            string   `json:"location"`
	Phone               string   `json:"phone"`
	Disabilities        []string `json:"disabilities"`
	JobInterests        []string `json:"job_interests"`
	PreferredIndustries []string `json:"preferred_industries"`
	WorkArrangement     string   `json:"work_arrangement"`
	MaxHourlyRate       float64  `json:"max_hourly_rate"`
}

type UpdateSeekerProfileInput struct {
	FullName            *string   `json:"full_name"`
	AvatarURL           *string   `json:"avatar_url"`
	Bio                 *string   `json:"bio"`
	Location            *string   `json:"location"`
	Phone               *string   `json:"phone"`
	Disabilities        *[]string `json:"disabilities"`
	JobInterests        *[]string `json:"job_interests"`
	PreferredIndustries *[]string `json:"preferred_industries"`
	WorkArrangement     *string   `json:"work_arrangement"`
	MaxHourlyRate       *float64  `json:"max_hourly_rate"`
}

const seekerProfileColumns = `id, user_id, full_name, avatar_url, bio, location, phone,
	   disabilities, job_interests, preferred_industries, work_arrangement,
	   max_hourly_rate, onboarding_complete, created_at, updated_at`

func (r *SeekerProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO seeker_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *SeekerProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.SeekerProfile, error) {
	query := `
		SELECT ` + seekerProfileColumns + `
		FROM seeker_profiles
		WHERE user_id = $1
	`
	var profile models.SeekerProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Location,
		&profile.Phone,
		&profile.Disabilities,
		&profile.JobInterests,
		&profile.PreferredIndustries,
		&profile.WorkArrangement,
		&profile.MaxHourlyRate,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *SeekerProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req SeekerOnboardingInput) (*models.SeekerProfile, error) {
	query := `
		UPDATE seeker_profiles
		SET full_name = $1,
			bio = $2,
			location = $3,
			phone = $4,
			disabilities = $5,
			job_interests = $6,
			preferred_industries = $7,
			work_arrangement = $8,
			max_hourly_rate = $9,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $10
		RETURNING ` + seekerProfileColumns + `
	`
	var profile models.SeekerProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.Bio,
		req.Location,
		req.Phone,
		req.Disabilities,
		req.JobInterests,
		req.PreferredIndustries,
		req.WorkArrangement,
		req.MaxHourlyRate,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Location,
		&profile.Phone,
		&profile.Disabilities,
		&profile.JobInterests,
		&profile.PreferredIndustries,
		&profile.WorkArrangement,
		&profile.MaxHourlyRate,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *SeekerProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateSeekerProfileInput) (*models.SeekerProfile, error) {
	query := `
		UPDATE seeker_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			bio = COALESCE($3, bio),
			location = COALESCE($4, location),
			phone = COALESCE($5, phone),
			disabilities = COALESCE($6, disabilities),
			job_interests = COALESCE($7, job_interests),
			preferred_industries = COALESCE($8, preferred_industries),
			work_arrangement = COALESCE($9, work_arrangement),
			max_hourly_rate = COALESCE($10, max_hourly_rate),
			updated_at = NOW()
		WHERE user_id = $11
		RETURNING ` + seekerProfileColumns + `
	`
	var profile models.SeekerProfile
	err := r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.Bio,
		req.Location,
		req.Phone,
		req.Disabilities,
		req.JobInterests,
		req.PreferredIndustries,
		req.WorkArrangement,
		req.MaxHourlyRate,
		userID,
	).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Location,
		&profile.Phone,
		&profile.Disabilities,
		&profile.JobInterests,
		&profile.PreferredIndustries,
		&profile.WorkArrangement,
		&profile.MaxHourlyRate,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

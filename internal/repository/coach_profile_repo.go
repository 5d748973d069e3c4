package repository

import (
	"context"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type CoachProfileRepository struct {
	db DBTX
}

func NewCoachProfileRepository(db DBTX) *CoachProfileRepository {
	return &CoachProfileRepository{db: db}
}

type CoachOnboardingInput struct {
	FullName        string   `json:"full_name"`
	Bio             string   `json:"bio"`
	Expertise       []string `json:"expertise"`
	Specialties     []string `json:"specialties"`
	Industries      []string `json:"industries"`
	Availability    []string `json:"availability"`
	Languages       []string `json:"languages"`
	Certifications  []string `json:"certifications"`
	ExperienceYears int      `json:"experience_years"`
	HourlyRate      float64  `json:"hourly_rate"`
}

type UpdateCoachProfileInput struct {
	FullName        *string   `json:"full_name"`
	AvatarURL       *string   `json:"avatar_url"`
	Bio             *string   `json:"bio"`
	Expertise       *[]string `json:"expertise"`
	Specialties     *[]string `json:"specialties"`
	Industries      *[]string `json:"industries"`
	Availability    *[]string `json:"availability"`
	Languages       *[]string `json:"languages"`
	Certifications  *[]string `json:"certifications"`
	ExperienceYears *int      `json:"experience_years"`
	HourlyRate      *float64  `json:"hourly_rate"`
}

const coachProfileColumns = `id, user_id, full_name, avatar_url, bio, expertise, specialties,
	   industries, availability, languages, certifications, experience_years,
	   hourly_rate, rating, is_verified, onboarding_complete, created_at, updated_at`

func (r *CoachProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO coach_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CoachProfileRepository) scanProfile(row interface{ Scan(dest ...any) error }) (*models.CoachProfile, error) {
	var profile models.CoachProfile
	err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.Expertise,
		&profile.Specialties,
		&profile.Industries,
		&profile.Availability,
		&profile.Languages,
		&profile.Certifications,
		&profile.ExperienceYears,
		&profile.HourlyRate,
		&profile.Rating,
		&profile.IsVerified,
		&profile.OnboardingComplete,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *CoachProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.CoachProfile, error) {
	query := `
		SELECT ` + coachProfileColumns + `
		FROM coach_profiles
		WHERE user_id = $1
	`
	return r.scanProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *CoachProfileRepository) ListAll(ctx context.Context) ([]models.CoachProfile, error) {
	query := `
		SELECT ` + coachProfileColumns + `
		FROM coach_profiles
		WHERE onboarding_complete = TRUE
		ORDER BY rating DESC NULLS LAST, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]models.CoachProfile, 0)
	for rows.Next() {
		profile, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *CoachProfileRepository) UpdateOnboarding(ctx context.Context, userID int64, req CoachOnboardingInput) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET full_name = $1,
			bio = $2,
			expertise = $3,
			specialties = $4,
			industries = $5,
			availability = $6,
			languages = $7,
			certifications = $8,
			experience_years = $9,
			hourly_rate = $10,
			onboarding_complete = TRUE,
			updated_at = NOW()
		WHERE user_id = $11
		RETURNING ` + coachProfileColumns + `
	`
	return r.scanProfile(r.db.QueryRow(ctx, query,
		req.FullName,
		req.Bio,
		req.Expertise,
		req.Specialties,
		req.Industries,
		req.Availability,
		req.Languages,
		req.Certifications,
		req.ExperienceYears,
		req.HourlyRate,
		userID,
	))
}

func (r *CoachProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateCoachProfileInput) (*models.CoachProfile, error) {
	query := `
		UPDATE coach_profiles
		SET full_name = COALESCE($1, full_name),
			avatar_url = COALESCE($2, avatar_url),
			bio = COALESCE($3, bio),
			expertise = COALESCE($4, expertise),
			specialties = COALESCE($5, specialties),
			industries = COALESCE($6, industries),
			availability = COALESCE($7, availability),
			languages = COALESCE($8, languages),
			certifications = COALESCE($9, certifications),
			experience_years = COALESCE($10, experience_years),
			hourly_rate = COALESCE($11, hourly_rate),
			updated_at = NOW()
		WHERE user_id = $12
		RETURNING ` + coachProfileColumns + `
	`
	return r.scanProfile(r.db.QueryRow(ctx, query,
		req.FullName,
		req.AvatarURL,
		req.Bio,
		req.Expertise,
		req.Specialties,
		req.Industries,
		req.Availability,
		req.Languages,
		req.Certifications,
		req.ExperienceYears,
		req.HourlyRate,
		userID,
	))
}

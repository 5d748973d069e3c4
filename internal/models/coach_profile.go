package models

import "time"

type CoachProfile struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	FullName           *string   `json:"full_name"`
	AvatarURL          *string   `json:"avatar_url"`
	Bio                *string   `json:"bio"`
	Expertise          *[]string `json:"expertise"`
	Specialties        *[]string `json:"specialties"`
	Industries         *[]string `json:"industries"`
	Availability       *[]string `json:"availability"`
	Languages          *[]string `json:"languages"`
	Certifications     *[]string `json:"certifications"`
	ExperienceYears    *int      `json:"experience_years"`
	HourlyRate         *float64  `json:"hourly_rate"`
	Rating             *float64  `json:"rating"`
	IsVerified         *bool     `json:"is_verified"`
	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CoachWithScore struct {
	CoachProfile
	MatchScore int `json:"match_score"`
}

package models

import "time"

type SeekerProfile struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
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
	OnboardingComplete  bool      `json:"onboarding_complete"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

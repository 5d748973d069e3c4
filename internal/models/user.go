package models

import "time"

const (
	RoleSeeker = "seeker"
	RoleCoach  = "coach"
)

type User struct {
	ID                  int64     `json:"id"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	Role                string    `json:"role"`
	AssessmentCompleted bool      `json:"assessment_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

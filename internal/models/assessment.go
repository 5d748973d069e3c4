package models

import "time"

// Assessment is a seeker's self-reported profile, one active row per user.
// Coaches append structured sections (title/description plus question-answer
// pairs) which are stored as a JSONB array alongside the self-report fields.
type Assessment struct {
	ID                 int64               `json:"id"`
	UserID             int64               `json:"user_id"`
	Disabilities       *[]string           `json:"disabilities"`
	JobPreferences     *[]string           `json:"job_preferences"`
	LearningStyle      *string             `json:"learning_style"`
	CommunicationStyle *string             `json:"communication_style"`
	Strengths          *string             `json:"strengths"`
	Challenges         *string             `json:"challenges"`
	SupportNeeds       *string             `json:"support_needs"`
	Sections           []AssessmentSection `json:"sections"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type AssessmentSection struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	AuthorID    int64            `json:"author_id"`
	Questions   []QuestionAnswer `json:"questions"`
}

type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

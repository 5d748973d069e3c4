package models

import "time"

const (
	MatchStatusPending  = "pending"
	MatchStatusMatched  = "matched"
	MatchStatusDeclined = "declined"
)

// CoachMatch is a pairing proposal between a coach and a seeker. It starts
// pending and moves to exactly one of matched or declined; both are terminal.
type CoachMatch struct {
	ID          int64     `json:"id"`
	CoachID     int64     `json:"coach_id"`
	SeekerID    int64     `json:"seeker_id"`
	Status      string    `json:"status"`
	MatchScore  int       `json:"match_score"`
	MatchReason *string   `json:"match_reason"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *CoachMatch) IsParticipant(userID int64) bool {
	return userID == m.CoachID || userID == m.SeekerID
}

func (m *CoachMatch) OtherParticipant(userID int64) int64 {
	if userID == m.CoachID {
		return m.SeekerID
	}
	return m.CoachID
}

package models

import "time"

const (
	MessageTypeText          = "text"
	MessageTypeDocumentRef   = "document_ref"
	MessageTypeAssessmentRef = "assessment_ref"
	MessageTypeSystem        = "system"
)

type Conversation struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	SeekerID  int64     `json:"seeker_id"`
	MatchID   *int64    `json:"match_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Conversation) IsParticipant(userID int64) bool {
	return userID == c.CoachID || userID == c.SeekerID
}

func (c *Conversation) OtherParticipant(userID int64) int64 {
	if userID == c.CoachID {
		return c.SeekerID
	}
	return c.CoachID
}

// Message content is encrypted at rest; repositories hand back ciphertext and
// the chat service decrypts before anything leaves the process.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	ReceiverID     int64     `json:"receiver_id"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	DocumentID     *int64    `json:"document_id,omitempty"`
	AssessmentID   *int64    `json:"assessment_id,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConversationSummary struct {
	Conversation
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}

func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeDocumentRef, MessageTypeAssessmentRef, MessageTypeSystem:
		return true
	default:
		return false
	}
}

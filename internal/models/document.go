package models

import (
	"encoding/json"
	"time"
)

const (
	DocumentTypeResume      = "resume"
	DocumentTypeCoverLetter = "cover_letter"
	DocumentTypeOther       = "other"
)

const (
	AnalysisStatusPending   = "pending"
	AnalysisStatusAnalyzing = "analyzing"
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
)

type Document struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	Type            string          `json:"type"`
	FileName        string          `json:"file_name"`
	FileURL         string          `json:"file_url"`
	ContentType     string          `json:"content_type"`
	SizeBytes       int64           `json:"size_bytes"`
	AnalysisStatus  string          `json:"analysis_status"`
	AnalysisResults json.RawMessage `json:"analysis_results,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeResume, DocumentTypeCoverLetter, DocumentTypeOther:
		return true
	default:
		return false
	}
}

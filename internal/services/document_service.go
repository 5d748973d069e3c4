package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
	"github.com/BingoAIHelper/bingo-backend/internal/repository"
)

const maxDocumentSizeBytes = 10 << 20

type DocumentService struct {
	documentRepo *repository.DocumentRepository
	storage      StorageService
	extractor    TextExtractor
	ai           AIService
}

func NewDocumentService(
	documentRepo *repository.DocumentRepository,
	storage StorageService,
	extractor TextExtractor,
	ai AIService,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		storage:      storage,
		extractor:    extractor,
		ai:           ai,
	}
}

type UploadDocumentInput struct {
	UserID      int64
	Type        string
	FileName    string
	ContentType string
	Data        []byte
}

// Upload stores the file, records it as pending, and kicks off analysis in the
// background. The caller gets the pending record back immediately.
func (s *DocumentService) Upload(ctx context.Context, input UploadDocumentInput) (*models.Document, error) {
	if !models.ValidDocumentType(input.Type) {
		return nil, ErrInvalidInput
	}
	if len(input.Data) == 0 || input.FileName == "" {
		return nil, ErrInvalidInput
	}
	if len(input.Data) > maxDocumentSizeBytes {
		return nil, ErrInvalidInput
	}
	if s.storage == nil {
		return nil, errors.New("document storage is not configured")
	}

	key := fmt.Sprintf("documents/%d/%s%s", input.UserID, uuid.NewString(), filepath.Ext(input.FileName))
	fileURL, err := s.storage.UploadFile(ctx, key, input.Data, input.ContentType)
	if err != nil {
		return nil, err
	}

	document := &models.Document{
		UserID:         input.UserID,
		Type:           input.Type,
		FileName:       input.FileName,
		FileURL:        fileURL,
		ContentType:    input.ContentType,
		SizeBytes:      int64(len(input.Data)),
		AnalysisStatus: models.AnalysisStatusPending,
	}
	if err := s.documentRepo.Create(ctx, document); err != nil {
		// The record is the source of truth; an orphaned object is cheaper
		// than a record pointing at nothing.
		if deleteErr := s.storage.DeleteFile(ctx, fileURL); deleteErr != nil {
			log.Printf("cleanup after failed document insert: %v", deleteErr)
		}
		return nil, err
	}

	if s.ai != nil && s.extractor != nil {
		// Detached from the request context so an early client disconnect
		// does not abort the analysis.
		go s.analyze(context.Background(), document.ID, document.Type, input.ContentType, input.Data)
	}

	return document, nil
}

func (s *DocumentService) analyze(ctx context.Context, documentID int64, docType, contentType string, data []byte) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := s.documentRepo.UpdateAnalysisStatus(ctx, documentID, models.AnalysisStatusAnalyzing); err != nil {
		log.Printf("document %d: mark analyzing: %v", documentID, err)
		return
	}

	results, err := s.runAnalysis(ctx, docType, contentType, data)
	if err != nil {
		log.Printf("document %d: analysis failed: %v", documentID, err)
		if statusErr := s.documentRepo.UpdateAnalysisStatus(ctx, documentID, models.AnalysisStatusFailed); statusErr != nil {
			log.Printf("document %d: mark failed: %v", documentID, statusErr)
		}
		return
	}

	if err := s.documentRepo.SetAnalysisResults(ctx, documentID, models.AnalysisStatusCompleted, results); err != nil {
		log.Printf("document %d: store analysis: %v", documentID, err)
	}
}

// runAnalysis extracts text and fans out to the model. Resumes additionally
// get a set of practice interview questions; both calls run concurrently.
func (s *DocumentService) runAnalysis(ctx context.Context, docType, contentType string, data []byte) (json.RawMessage, error) {
	text, err := s.extractor.ExtractText(data, contentType)
	if err != nil {
		return nil, err
	}

	var (
		analysis  json.RawMessage
		questions []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		analysis, err = s.ai.AnalyzeDocument(gctx, text, docType)
		return err
	})
	if docType == models.DocumentTypeResume {
		g.Go(func() error {
			var err error
			questions, err = s.ai.GenerateInterviewQuestions(gctx, "roles matching this resume", truncateForPrompt(text))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return analysis, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(analysis, &merged); err != nil {
		// The analysis blob was a non-object; keep it under its own key.
		merged = map[string]json.RawMessage{"analysis": analysis}
	}
	encodedQuestions, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	merged["interview_questions"] = encodedQuestions

	return json.Marshal(merged)
}

func (s *DocumentService) List(ctx context.Context, userID int64, limit, offset int) ([]models.Document, int, error) {
	return s.documentRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *DocumentService) Get(ctx context.Context, documentID int64, actorID int64) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if document.UserID != actorID {
		return nil, ErrForbidden
	}
	return document, nil
}

func (s *DocumentService) DownloadURL(ctx context.Context, documentID int64, actorID int64) (string, error) {
	document, err := s.Get(ctx, documentID, actorID)
	if err != nil {
		return "", err
	}
	if s.storage == nil {
		return "", errors.New("document storage is not configured")
	}
	return s.storage.GetSignedURL(ctx, document.FileURL)
}

func (s *DocumentService) Delete(ctx context.Context, documentID int64, actorID int64) error {
	document, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if document.UserID != actorID {
		return ErrForbidden
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	if s.storage != nil {
		if err := s.storage.DeleteFile(ctx, document.FileURL); err != nil {
			log.Printf("document %d: delete stored file: %v", documentID, err)
		}
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type DocumentRepository struct {
	db DBTX
}

func NewDocumentRepository(db DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, user_id, type, file_name, file_url, content_type, size_bytes,
	   analysis_status, analysis_results, created_at, updated_at`

func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	query := `
		INSERT INTO documents (user_id, type, file_name, file_url, content_type, size_bytes, analysis_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		document.UserID,
		document.Type,
		document.FileName,
		document.FileURL,
		document.ContentType,
		document.SizeBytes,
		document.AnalysisStatus,
	).Scan(&document.ID, &document.CreatedAt, &document.UpdatedAt)
}

func (r *DocumentRepository) GetByID(ctx context.Context, documentID int64) (*models.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`
	return r.scanDocument(r.db.QueryRow(ctx, query, documentID))
}

func (r *DocumentRepository) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
	offset int,
) ([]models.Document, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM documents
		WHERE user_id = $1
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	documents := make([]models.Document, 0)
	for rows.Next() {
		document, err := r.scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		documents = append(documents, *document)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

func (r *DocumentRepository) UpdateAnalysisStatus(ctx context.Context, documentID int64, status string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE documents
		SET analysis_status = $1,
			updated_at = NOW()
		WHERE id = $2
	`, status, documentID)
	return err
}

func (r *DocumentRepository) SetAnalysisResults(
	ctx context.Context,
	documentID int64,
	status string,
	results json.RawMessage,
) error {
	_, err := r.db.Exec(ctx, `
		UPDATE documents
		SET analysis_status = $1,
			analysis_results = $2,
			updated_at = NOW()
		WHERE id = $3
	`, status, results, documentID)
	return err
}

func (r *DocumentRepository) Delete(ctx context.Context, documentID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	return err
}

func (r *DocumentRepository) scanDocument(row interface{ Scan(dest ...any) error }) (*models.Document, error) {
	var document models.Document
	err := row.Scan(
		&document.ID,
		&document.UserID,
		&document.Type,
		&document.FileName,
		&document.FileURL,
		&document.ContentType,
		&document.SizeBytes,
		&document.AnalysisStatus,
		&document.AnalysisResults,
		&document.CreatedAt,
		&document.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &document, nil
}

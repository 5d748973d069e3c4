package repository

import (
	"context"

	"github.com/BingoAIHelper/bingo-backend/internal/models"
)

type MatchRepository struct {
	db DBTX
}

func NewMatchRepository(db DBTX) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, coach_id, seeker_id, status, match_score, match_reason, created_at, updated_at`

func (r *MatchRepository) Create(ctx context.Context, match *models.CoachMatch) error {
	query := `
		INSERT INTO coach_matches (coach_id, seeker_id, status, match_score, match_reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		match.CoachID,
		match.SeekerID,
		match.Status,
		match.MatchScore,
		match.MatchReason,
	).Scan(&match.ID, &match.CreatedAt, &match.UpdatedAt)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID int64) (*models.CoachMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM coach_matches
		WHERE id = $1
	`
	var match models.CoachMatch
	err := r.db.QueryRow(ctx, query, matchID).Scan(
		&match.ID,
		&match.CoachID,
		&match.SeekerID,
		&match.Status,
		&match.MatchScore,
		&match.MatchReason,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// UpdateStatus resolves a pending match. Matched and declined are terminal, so
// the update only fires while the row is still pending; a resolved match comes
// back as no rows.
func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID int64, status string) (*models.CoachMatch, error) {
	query := `
		UPDATE coach_matches
		SET status = $1,
			updated_at = NOW()
		WHERE id = $2 AND status = 'pending'
		RETURNING ` + matchColumns + `
	`
	var match models.CoachMatch
	err := r.db.QueryRow(ctx, query, status, matchID).Scan(
		&match.ID,
		&match.CoachID,
		&match.SeekerID,
		&match.Status,
		&match.MatchScore,
		&match.MatchReason,
		&match.CreatedAt,
		&match.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *MatchRepository) ListForUser(ctx context.Context, userID int64) ([]models.CoachMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM coach_matches
		WHERE coach_id = $1 OR seeker_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.listMatches(ctx, query, userID)
}

func (r *MatchRepository) ListPendingForCoach(ctx context.Context, coachID int64) ([]models.CoachMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM coach_matches
		WHERE coach_id = $1 AND status = 'pending'
		ORDER BY created_at DESC, id DESC
	`
	return r.listMatches(ctx, query, coachID)
}

func (r *MatchRepository) ListPendingForSeeker(ctx context.Context, seekerID int64) ([]models.CoachMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM coach_matches
		WHERE seeker_id = $1 AND status = 'pending'
		ORDER BY created_at DESC, id DESC
	`
	return r.listMatches(ctx, query, seekerID)
}

// HasMatchedPair reports whether an accepted match exists between the two
// users, used for cross-user access checks.
func (r *MatchRepository) HasMatchedPair(ctx context.Context, coachID, seekerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM coach_matches
			WHERE coach_id = $1 AND seeker_id = $2 AND status = 'matched'
		)
	`, coachID, seekerID).Scan(&exists)
	return exists, err
}

func (r *MatchRepository) listMatches(ctx context.Context, query string, args ...any) ([]models.CoachMatch, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.CoachMatch, 0)
	for rows.Next() {
		var match models.CoachMatch
		if err := rows.Scan(
			&match.ID,
			&match.CoachID,
			&match.SeekerID,
			&match.Status,
			&match.MatchScore,
			&match.MatchReason,
			&match.CreatedAt,
			&match.UpdatedAt,
		); err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

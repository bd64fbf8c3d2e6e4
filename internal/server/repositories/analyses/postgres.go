package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/dbx"
	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements the decision ledger over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a. The caller assigns ID and AnalyzedAt. Exactly one row
// must be affected.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Analysis) error {
	query := `
		INSERT INTO claim_analyses (id, user_id, policy_file, claim_file, bills_file, doctor_notes_file,
			decision, reasoning, confidence_score, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.PolicyFile, a.ClaimFile, a.BillsFile, a.DoctorNotesFile,
		string(a.Decision), a.Reasoning, a.ConfidenceScore, a.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}

// ListByUser returns at most limit records of userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Analysis, error) {
	query := `SELECT id, user_id, policy_file, claim_file, bills_file, doctor_notes_file,
			decision, reasoning, confidence_score, analyzed_at
		FROM claim_analyses
		WHERE user_id = $1
		ORDER BY analyzed_at DESC
		LIMIT $2
		`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select analyses: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Analysis, 0)
	for rows.Next() {
		item, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByIDForUser returns the record id if it belongs to userID. Absent,
// foreign and malformed ids all yield common.ErrorNotFound.
func (r *PostgresRepository) GetByIDForUser(ctx context.Context, userID, id string) (*models.Analysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT id, user_id, policy_file, claim_file, bills_file, doctor_notes_file,
			decision, reasoning, confidence_score, analyzed_at
		FROM claim_analyses
		WHERE id = $1 AND user_id = $2
		`
	item, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner) (*models.Analysis, error) {
	var (
		a        models.Analysis
		decision string
	)
	if err := s.Scan(&a.ID, &a.UserID, &a.PolicyFile, &a.ClaimFile, &a.BillsFile, &a.DoctorNotesFile,
		&decision, &a.Reasoning, &a.ConfidenceScore, &a.AnalyzedAt); err != nil {
		return nil, err
	}
	a.Decision = models.Outcome(decision)
	a.AnalyzedAt = a.AnalyzedAt.UTC()
	return &a, nil
}

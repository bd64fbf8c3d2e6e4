package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/decision"
	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/claimcheck/internal/server/stage"
	"github.com/google/uuid"
)

// HistoryLimit is the default and maximum number of records History returns.
const HistoryLimit = 100

// Invoker sends a staged document set to the reasoning engine.
type Invoker interface {
	Invoke(ctx context.Context, set *stage.Set) (string, error)
}

// ClaimService runs the analysis pipeline and reads the decision ledger.
type ClaimService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	stager      stage.Stager
	invoker     Invoker
	logger      logging.Logger

	now   func() time.Time
	newID func() string
}

func NewClaimService(db *sql.DB, m repomanager.RepositoryManager, stager stage.Stager, invoker Invoker, logger logging.Logger) *ClaimService {
	return &ClaimService{
		db:          db,
		repomanager: m,
		stager:      stager,
		invoker:     invoker,
		logger:      logger.With("module", "claims"),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Analyze stages docs, asks the engine for a decision, parses it and records
// the result for userID. Any failure aborts without a record. The staged set
// is released on every path.
func (s *ClaimService) Analyze(ctx context.Context, userID string, docs []stage.Document) (*models.Analysis, error) {
	set, err := s.stager.Stage(ctx, docs)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := set.Release(ctx); err != nil {
			s.logger.Warn(ctx, "release staged documents", "error", err)
		}
	}()

	raw, err := s.invoker.Invoke(ctx, set)
	if err != nil {
		return nil, err
	}

	res := decision.Parse(raw)
	// postgres keeps microseconds
	analyzedAt := s.now().UTC().Truncate(time.Microsecond)
	a := &models.Analysis{
		ID:              s.newID(),
		UserID:          userID,
		PolicyFile:      filename(set, stage.KindPolicy),
		ClaimFile:       filename(set, stage.KindClaim),
		BillsFile:       filename(set, stage.KindBills),
		DoctorNotesFile: filename(set, stage.KindDoctorNotes),
		Decision:        res.Outcome,
		Reasoning:       res.Reasoning,
		ConfidenceScore: res.Confidence,
		AnalyzedAt:      analyzedAt,
	}

	if err := s.repomanager.Analyses(s.db).Create(ctx, a); err != nil {
		return nil, fmt.Errorf("record analysis: %w", err)
	}

	s.logger.Info(ctx, "claim analyzed", "analysis_id", a.ID, "decision", a.Decision)
	return a, nil
}

// History returns the newest records of userID. limit outside
// (0, HistoryLimit] means HistoryLimit.
func (s *ClaimService) History(ctx context.Context, userID string, limit int) ([]*models.Analysis, error) {
	if limit <= 0 || limit > HistoryLimit {
		limit = HistoryLimit
	}
	return s.repomanager.Analyses(s.db).ListByUser(ctx, userID, limit)
}

// Get returns one record of userID; records of other users are not found.
func (s *ClaimService) Get(ctx context.Context, userID, id string) (*models.Analysis, error) {
	return s.repomanager.Analyses(s.db).GetByIDForUser(ctx, userID, id)
}

func filename(set *stage.Set, kind stage.Kind) string {
	if a := set.Get(kind); a != nil {
		return a.Filename
	}
	return ""
}

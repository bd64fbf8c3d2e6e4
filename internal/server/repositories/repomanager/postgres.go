// Package repomanager binds the claimcheck repositories to PostgreSQL and
// applies the embedded schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/claimcheck/internal/dbx"
	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/migrations"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type migrator interface {
	Up(ctx context.Context) ([]*goose.MigrationResult, error)
}

// newMigrator is a test seam. The provider is scoped to one database and the
// embedded files, so it does not touch goose's package-level state.
var newMigrator = func(db *sql.DB) (migrator, error) {
	return goose.NewProvider(goose.DialectPostgres, db, migrations.Migrations)
}

type PostgresRepositoryManager struct {
	logger logging.Logger
}

func NewPostgresRepositoryManager(logger logging.Logger) RepositoryManager {
	return &PostgresRepositoryManager{logger: logger.With("module", "migrations")}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Analyses(db dbx.DBTX) analyses.Repository {
	return analyses.NewPostgresRepository(db)
}

// RunMigrations brings the users and claim_analyses schema up to date and
// logs every version it applied.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	p, err := newMigrator(db)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		m.logger.Info(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
	}
	if len(results) == 0 {
		m.logger.Debug(ctx, "schema up to date")
	}
	return nil
}

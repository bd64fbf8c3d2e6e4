package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/claimcheck/internal/dbx"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so the same code
// runs against the pool or inside dbx.WithTx. It also owns the schema.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Analyses(db dbx.DBTX) analyses.Repository
}

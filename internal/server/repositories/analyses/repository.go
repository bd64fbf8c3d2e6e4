package analyses

import (
	"context"

	"github.com/dmitrijs2005/claimcheck/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Analysis) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Analysis, error)
	GetByIDForUser(ctx context.Context, userID, id string) (*models.Analysis, error)
}

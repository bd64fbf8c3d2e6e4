// Package users stores accounts. Emails are expected already normalized by
// the caller; the unique index on users.email is the final word on duplicates.
package users

import (
	"context"

	"github.com/dmitrijs2005/claimcheck/internal/server/models"
)

// Repository persists users. Lookups that match nothing return
// common.ErrorNotFound, and Create reports a taken email as
// common.ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

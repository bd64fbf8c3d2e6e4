// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and resolving session tokens
// back to users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/common"
	"github.com/dmitrijs2005/claimcheck/internal/cryptox"
	"github.com/dmitrijs2005/claimcheck/internal/dbx"
	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/auth"
	"github.com/dmitrijs2005/claimcheck/internal/server/config"
	"github.com/dmitrijs2005/claimcheck/internal/server/models"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/repomanager"
)

// Session is a user together with a freshly issued access token.
type Session struct {
	User        *models.User
	AccessToken string
}

// UserService provides authentication-related operations:
// - Register: create users
// - Login: verify credentials and mint tokens
// - Authenticate: resolve a bearer token to its user
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
	logger                      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
		logger:                      logger.With("module", "users"),
	}
}

// NormalizeEmail trims and lowercases an address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and returns it with an access token. An address
// already in use yields common.ErrEmailTaken.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = NormalizeEmail(email)
	fullName = strings.TrimSpace(fullName)
	if email == "" || password == "" || fullName == "" {
		return nil, common.ErrMalformedRequest
	}

	hash, err := cryptox.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, dbx.ReadCommitted, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetUserByEmail(ctx, email)
		switch {
		case err == nil:
			return common.ErrEmailTaken
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		user, err = repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, FullName: fullName})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailTaken) || errors.Is(err, dbx.ErrUniqueViolation) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.newSession(user)
}

// Login verifies the password of the account with the given email. Unknown
// addresses and wrong passwords both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = NormalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.BurnCompare(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := cryptox.CheckPassword(user.PasswordHash, password); err != nil {
		if !errors.Is(err, cryptox.ErrMismatch) {
			s.logger.Error(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		}
		return nil, common.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Authenticate validates token and loads its subject. A valid token whose
// user no longer resolves yields common.ErrUserNotFound.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return user, nil
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{User: user, AccessToken: token}, nil
}

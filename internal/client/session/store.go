// Package session keeps the CLI's access token between invocations in a small
// SQLite database under the user's config directory.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/claimcheck/internal/client/migrations"
	"github.com/dmitrijs2005/claimcheck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/claimcheck/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const dbFile = "session.db"

const (
	keyToken = "access_token"
	keyEmail = "email"
)

// ErrNoSession is returned by Load when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// Session is what the CLI remembers after a login.
type Session struct {
	AccessToken string
	Email       string
}

type Store struct {
	db   *sql.DB
	meta metadata.Repository
}

// Open creates dir if needed, opens the session database inside it and
// applies migrations.
func Open(ctx context.Context, dir string) (*Store, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("state dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFile))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return &Store{db: db, meta: metadata.NewSQLiteRepository(db)}, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Save replaces the stored session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if err := s.meta.Set(ctx, keyToken, sess.AccessToken); err != nil {
		return err
	}
	return s.meta.Set(ctx, keyEmail, sess.Email)
}

// Load returns the stored session or ErrNoSession.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	token, ok, err := s.meta.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, ErrNoSession
	}
	email, _, err := s.meta.Get(ctx, keyEmail)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: token, Email: email}, nil
}

// Clear forgets the stored session.
func (s *Store) Clear(ctx context.Context) error {
	return s.meta.Delete(ctx, keyToken, keyEmail)
}

func (s *Store) Close() error {
	return s.db.Close()
}

package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesDirAndDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "claimcheck")

	s, err := Open(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = os.Stat(filepath.Join(dir, dbFile))
	assert.NoError(t, err)
}

func TestSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Save(ctx, Session{AccessToken: "tok-1", Email: "a@example.com"}))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Session{AccessToken: "tok-1", Email: "a@example.com"}, got)

	require.NoError(t, s.Save(ctx, Session{AccessToken: "tok-2", Email: "b@example.com"}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got.AccessToken)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, Session{AccessToken: "persisted", Email: "p@example.com"}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.AccessToken)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='metadata'`).Scan(&n))
	assert.Equal(t, 1, n)
}

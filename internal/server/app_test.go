package server

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/claimcheck/internal/dbx"
	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/config"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/users"
	"github.com/dmitrijs2005/claimcheck/internal/server/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	migrateErr error
	migrated   bool
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}
func (m *fakeManager) Users(dbx.DBTX) users.Repository       { return nil }
func (m *fakeManager) Analyses(dbx.DBTX) analyses.Repository { return nil }

// withSeams points the constructors at sqlmock and fm for the test duration.
func withSeams(t *testing.T, fm *fakeManager) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	oldOpen, oldManager, oldOut := openDB, newRepositoryManager, logOutput
	openDB = func(string) (*sql.DB, error) { return db, nil }
	newRepositoryManager = func(logging.Logger) repomanager.RepositoryManager { return fm }
	logOutput = io.Discard
	t.Cleanup(func() {
		openDB, newRepositoryManager, logOutput = oldOpen, oldManager, oldOut
	})
	return mock
}

func testConfig(t *testing.T) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.StageDir = t.TempDir()
	c.EngineAPIKey = "test-key"
	return c
}

func TestNewApp_Success(t *testing.T) {
	fm := &fakeManager{}
	withSeams(t, fm)

	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, app.server)
	assert.True(t, fm.migrated)
}

func TestNewApp_MigrationFailureClosesDB(t *testing.T) {
	fm := &fakeManager{migrateErr: errors.New("no such database")}
	mock := withSeams(t, fm)
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_MissingEngineKeyClosesDB(t *testing.T) {
	mock := withSeams(t, &fakeManager{})
	mock.ExpectClose()
	c := testConfig(t)
	c.EngineAPIKey = ""

	_, err := NewApp(context.Background(), c)
	require.ErrorContains(t, err, "engine init error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_OpenError(t *testing.T) {
	withSeams(t, &fakeManager{})
	openDB = func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	_, err := NewApp(context.Background(), testConfig(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_BadLogLevel(t *testing.T) {
	withSeams(t, &fakeManager{})
	c := testConfig(t)
	c.LogLevel = "loud"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_LogsAsJSON(t *testing.T) {
	withSeams(t, &fakeManager{})
	var buf bytes.Buffer
	logOutput = &buf

	c := testConfig(t)
	c.LogLevel = "debug"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	app.logger.Info(context.Background(), "hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestNewStager(t *testing.T) {
	c := testConfig(t)

	st, err := newStager(context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &stage.LocalStager{}, st)

	c.StageBackend = config.StageBackendS3
	st, err = newStager(context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, &stage.S3Stager{}, st)

	c.StageBackend = "ftp"
	_, err = newStager(context.Background(), c)
	assert.Error(t, err)
}

func TestRun_StopsOnCancelAndClosesDB(t *testing.T) {
	mock := withSeams(t, &fakeManager{})
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

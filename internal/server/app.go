// Package server wires the claimcheck services together and runs the HTTP API
// until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/config"
	"github.com/dmitrijs2005/claimcheck/internal/server/engine"
	"github.com/dmitrijs2005/claimcheck/internal/server/httpapi"
	"github.com/dmitrijs2005/claimcheck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/claimcheck/internal/server/services"
	"github.com/dmitrijs2005/claimcheck/internal/server/stage"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// seams for tests
var (
	openDB               = func(dsn string) (*sql.DB, error) { return sql.Open("pgx", dsn) }
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

var logOutput io.Writer = os.Stdout

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

// NewApp opens the database, applies migrations and builds every service.
// The returned App owns the database handle.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewJSON(logOutput, level)
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	rm := newRepositoryManager(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	stager, err := newStager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("stage init error: %w", err)
	}

	gemini, err := engine.NewGeminiClient(ctx, engine.GeminiOptions{
		BaseURL: c.EngineBaseURL,
		Model:   c.EngineModel,
		APIKey:  c.EngineAPIKey,
		Timeout: c.EngineTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("engine init error: %w", err)
	}
	invoker := engine.NewInvoker(gemini, logger)

	us := services.NewUserService(db, rm, c, logger)
	cs := services.NewClaimService(db, rm, stager, invoker, logger)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		server: httpapi.NewHTTPServer(c, logger, us, cs),
	}, nil
}

// newStager picks the document stage backend named in the config.
func newStager(ctx context.Context, c *config.Config) (stage.Stager, error) {
	switch c.StageBackend {
	case config.StageBackendS3:
		client, err := stage.NewS3Client(ctx, stage.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, err
		}
		return stage.NewS3Stager(client, c.S3Bucket, c.S3Prefix), nil
	case config.StageBackendLocal:
		return stage.NewLocalStager(c.StageDir)
	}
	return nil, fmt.Errorf("unknown stage backend %q", c.StageBackend)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the API until ctx is cancelled or a termination signal
// arrives, then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "stage", app.config.StageBackend, "model", app.config.EngineModel)
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
	}

	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(ctx, "closing database", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	return err
}

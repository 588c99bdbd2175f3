// Package commands implements the propctl subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/infrastructure/persistence"
)

// Globals is shared by every subcommand
type Globals struct {
	Version string
	Logger  *zap.Logger
	Out     io.Writer

	// loadConfig and openDB are replaced in tests
	loadConfig func() (*config.Config, error)
	openDB     func(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Database, error)

	db *persistence.Database
}

// NewGlobals builds the shared state for a CLI run
func NewGlobals(logLevel, version string) *Globals {
	cfg := logger.DefaultConfig()
	cfg.Level = logLevel
	cfg.Output = "stderr"
	return &Globals{
		Version:    version,
		Logger:     logger.New(cfg),
		Out:        os.Stdout,
		loadConfig: config.Load,
		openDB:     openDatabase,
	}
}

func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel))
	return persistence.NewDatabaseWithCustomLogger(ctx, &cfg.Database, gormLog, log)
}

// Config loads the application configuration
func (g *Globals) Config() (*config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// Database opens the database once per run
func (g *Globals) Database(ctx context.Context) (*persistence.Database, error) {
	if g.db != nil {
		return g.db, nil
	}
	cfg, err := g.Config()
	if err != nil {
		return nil, err
	}
	db, err := g.openDB(ctx, cfg, g.Logger)
	if err != nil {
		return nil, err
	}
	g.db = db
	return db, nil
}

// Close releases the database and flushes the logger
func (g *Globals) Close() {
	if g.db != nil {
		if err := g.db.Close(); err != nil {
			g.Logger.Warn("Error closing database", zap.Error(err))
		}
	}
	_ = g.Logger.Sync()
}

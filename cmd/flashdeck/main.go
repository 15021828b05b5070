// Command flashdeck serves and reviews a Leitner flashcard deck backed by SQLite.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lehmann314159/flashdeck/internal/config"
	"github.com/lehmann314159/flashdeck/internal/logger"
	"github.com/lehmann314159/flashdeck/internal/repository"
	"github.com/lehmann314159/flashdeck/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "flashdeck",
	Short: "A Leitner-box flashcard trainer",
	Long: `Flashdeck schedules flashcards with the Leitner system.
Cards in bucket n are due on days divisible by 2^n; correct answers
promote a card and wrong answers send it back to bucket 0.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP(config.FlagConfig, "c", "", "config file (default "+config.FileName+" if present)")
	flags.String(config.FlagDB, "", "SQLite database path")
	flags.String(config.FlagLogLevel, "", "log level (debug, info, warn, error)")
	flags.String(config.FlagLogFormat, "", "log format (console, json)")
}

// app bundles the resources a command needs
type app struct {
	cfg     config.Config
	log     *zap.Logger
	db      *sql.DB
	service *services.PracticeService
}

// setup resolves configuration, builds the logger and opens the store
func setup(ctx context.Context, cmd *cobra.Command) (*app, error) {
	configPath, err := cmd.Flags().GetString(config.FlagConfig)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(config.LoadInput{
		ConfigPath: configPath,
		Env:        config.Environ(),
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}

	log := logger.Initialize(cfg.LogLevel, cfg.LogFormat)
	if cfg.Source != "" {
		log.Debug("loaded config", zap.String("path", cfg.Source))
	}

	db, err := repository.OpenAndMigrate(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DatabasePath, err)
	}

	repo := repository.NewSQLiteRepository(db)
	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		service: services.NewPracticeService(repo, log.Named("practice")),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", zap.Error(err))
	}
	_ = a.log.Sync()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"reconciler/core/config"
	"reconciler/core/logger"
	"reconciler/core/storage"
	"reconciler/feature/job"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "reconciler",
	Short: "Sorted-merge data reconciliation",
	Long: `Reconciler compares two key-ordered sources of rows (database tables,
queries or CSV files) and reports rows missing on either side and rows whose
columns disagree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// configDir is where config.yaml and .env are looked up.
var configDir string

// errDifferences makes the process exit non-zero without logging an error.
var errDifferences = errors.New("differences found")

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if errors.Is(err, errDifferences) {
			os.Exit(2)
		}

		// We use "debug" level configuration to get ISO8601 timestamps (DevConfig) instead of Epoch (ProdConfig)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

// environment is what every command needs to run the configured job.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   storage.Client
	sources *job.Sources
	service *job.Service
}

// setup loads configuration and builds the comparison service.
func setup() (*environment, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	sources := job.NewSources(nil, store, cfg.Storage.Bucket, l)
	return &environment{
		cfg:     cfg,
		logger:  l,
		store:   store,
		sources: sources,
		service: job.NewService(cfg.Compare, sources, l),
	}, nil
}

// Close releases database connections and flushes the logger.
func (e *environment) Close() {
	if err := e.sources.Close(); err != nil {
		e.logger.Warn("Failed to close sources", zap.Error(err))
	}
	_ = e.logger.Sync()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding config.yaml and .env")
}

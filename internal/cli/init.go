// Package cli provides common initialization for the carlog command:
// env loading, logging, configuration, and store construction.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"carlog/internal/backend"
	"carlog/internal/config"
	"carlog/internal/log"
	"carlog/internal/store"
)

// LoadEnvFile loads the .env file for local development. Errors are ignored
// silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the given level and sets it
// as the process default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// ValidateConfig validates the configuration, exiting the process on
// failure.
func ValidateConfig(logger *log.Logger, cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
}

// InitStore builds the configured persistence backend, constructs the store
// over it, and loads persisted state (or the seed dataset). The returned
// cleanup drains the store's snapshot writer and releases the backend.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) (*store.Store, func() error) {
	result, err := backend.NewFactory(logger).Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	st := store.New(result.Snapshots, logger)
	st.Open(ctx)

	cleanup := func() error {
		err := st.Close()
		if result.Cleanup != nil {
			if cerr := result.Cleanup(); err == nil {
				err = cerr
			}
		}
		return err
	}
	return st, cleanup
}

// Package backend builds the persistence backend the store writes its
// snapshots to.
package backend

import (
	"fmt"

	"carlog/internal/config"
	"carlog/internal/log"
	"carlog/internal/storage"
	"carlog/internal/store"
	"carlog/internal/store/memory"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result contains the snapshot store and an optional cleanup function.
type Result struct {
	Snapshots store.SnapshotStore
	Cleanup   CleanupFunc
}

// Factory creates snapshot stores based on configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create builds the backend named by cfg.DataBackend.
func (f *Factory) Create(cfg *config.Config) (*Result, error) {
	switch cfg.DataBackend {
	case config.BackendSQLite:
		return f.createSQLite(cfg)
	case config.BackendMemory:
		return f.createMemory()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.DataBackend)
	}
}

func (f *Factory) createSQLite(cfg *config.Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", log.FieldDBPath, cfg.SQLiteDBPath)
	return &Result{
		Snapshots: repo,
		Cleanup:   repo.Close,
	}, nil
}

func (f *Factory) createMemory() (*Result, error) {
	f.logger.Info("Initialized memory backend")
	return &Result{
		Snapshots: memory.New(),
		Cleanup:   nil,
	}, nil
}

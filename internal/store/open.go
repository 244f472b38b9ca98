package store

import (
	"fmt"

	"mykhata/internal/config"
	"mykhata/internal/database"
	"mykhata/internal/logger"
)

// Stores bundles the ledger and credential stores of one backend.
type Stores struct {
	Ledger      LedgerStore
	Credentials CredentialStore

	manager *database.Manager
}

// Open builds the stores selected by cfg.StorageDriver. Database backends
// are migrated before returning.
func Open(cfg *config.Config) (*Stores, error) {
	log := logger.Get()

	if cfg.StorageDriver == config.DriverCSV {
		log.Infow("Using CSV storage", "ledger", cfg.LedgerPath(), "users", cfg.UsersPath())
		return &Stores{
			Ledger:      NewCSVLedger(cfg.LedgerPath()),
			Credentials: NewCSVCredentials(cfg.UsersPath()),
		}, nil
	}

	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Infow("Using database storage", "driver", cfg.StorageDriver)
	db := manager.DB()
	return &Stores{
		Ledger:      NewGormLedger(db),
		Credentials: NewGormCredentials(db),
		manager:     manager,
	}, nil
}

// Close releases the database connection, if any.
func (s *Stores) Close() error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Close()
}

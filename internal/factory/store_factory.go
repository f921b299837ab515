package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/email-reconciler/internal/adapters/store"
	"github.com/mikey/email-reconciler/internal/config"
	"go.uber.org/zap"
)

// StoreFactory opens the user directory and msg_emails database
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore opens the configured database
func (f *StoreFactory) CreateStore() (*store.SQLStore, error) {
	storeCfg := f.cfg.GetStore()
	if storeCfg.Driver == "sqlite3" && storeCfg.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(storeCfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
	}
	s, err := store.NewSQLStore(storeCfg.Driver, storeCfg.DSN, f.logger)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Store opened", zap.String("driver", storeCfg.Driver))
	return s, nil
}

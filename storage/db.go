package storage

import (
	"fmt"

	"estimator-backend/config"
)

// Open returns the store selected by cfg.Store.Driver. The postgres driver
// migrates its tables before returning.
func Open(cfg config.Config) (Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		db, err := InitGormDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return NewGormStore(db), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

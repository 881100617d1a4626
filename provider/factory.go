package provider

import (
	"fmt"

	"github.com/Digital-Creators-Team/stakes-engine/config"
	coreredis "github.com/Digital-Creators-Team/stakes-engine/db/redis"
	"github.com/Digital-Creators-Team/stakes-engine/db/sqlite"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/rs/zerolog"
)

// NewStateProvider builds the state provider selected by cfg.Store.Backend
func NewStateProvider(cfg *config.Config, logger zerolog.Logger) (providers.StateProvider, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return NewMemoryStateProvider(), nil
	case config.BackendFile:
		return NewFileStateProvider(cfg.Store.Path, logger), nil
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return NewSQLiteStateProvider(db, cfg.Store.Key, logger), nil
	case config.BackendRedis:
		client, err := coreredis.New(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStateProvider(client, cfg.Store.Key, logger), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

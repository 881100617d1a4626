package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Digital-Creators-Team/stakes-engine/db/sqlite"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/rs/zerolog"
)

// SQLiteStateProvider keeps the blob in a row of a local SQLite database
type SQLiteStateProvider struct {
	db     *sqlite.Client
	key    string
	logger zerolog.Logger
}

// NewSQLiteStateProvider creates a SQLite-backed state provider
func NewSQLiteStateProvider(db *sqlite.Client, key string, logger zerolog.Logger) *SQLiteStateProvider {
	return &SQLiteStateProvider{
		db:     db,
		key:    key,
		logger: logger.With().Str("component", "state_provider").Str("backend", "sqlite").Logger(),
	}
}

// Load reads the blob row
func (p *SQLiteStateProvider) Load(ctx context.Context) ([]byte, error) {
	data, err := p.db.Get(ctx, p.key)
	if errors.Is(err, sqlite.ErrBlobNotFound) {
		p.logger.Debug().Str("key", p.key).Msg("No existing state")
		return nil, providers.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return data, nil
}

// Save upserts the blob row
func (p *SQLiteStateProvider) Save(ctx context.Context, data []byte) error {
	if err := p.db.Put(ctx, p.key, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Close closes the database
func (p *SQLiteStateProvider) Close() error {
	return p.db.Close()
}

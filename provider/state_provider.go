package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreredis "github.com/Digital-Creators-Team/stakes-engine/db/redis"
	"github.com/Digital-Creators-Team/stakes-engine/pkg/providers"
	"github.com/rs/zerolog"
)

// kvStore is the subset of the redis client the state provider needs
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Close() error
}

// RedisStateProvider keeps the account store blob under one Redis key
type RedisStateProvider struct {
	redis  kvStore
	key    string
	logger zerolog.Logger
}

// NewRedisStateProvider creates a new Redis-backed state provider
func NewRedisStateProvider(redisClient *coreredis.Client, key string, logger zerolog.Logger) *RedisStateProvider {
	return newRedisStateProvider(redisClient, key, logger)
}

func newRedisStateProvider(kv kvStore, key string, logger zerolog.Logger) *RedisStateProvider {
	return &RedisStateProvider{
		redis:  kv,
		key:    key,
		logger: logger.With().Str("component", "state_provider").Str("backend", "redis").Logger(),
	}
}

// Load retrieves the blob from Redis
func (p *RedisStateProvider) Load(ctx context.Context) ([]byte, error) {
	data, err := p.redis.Get(ctx, p.key)
	if errors.Is(err, coreredis.ErrKeyNotFound) {
		p.logger.Debug().Str("key", p.key).Msg("No existing state")
		return nil, providers.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	return []byte(data), nil
}

// Save overwrites the blob in Redis. The key never expires.
func (p *RedisStateProvider) Save(ctx context.Context, data []byte) error {
	if err := p.redis.Set(ctx, p.key, data, 0); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (p *RedisStateProvider) Close() error {
	return p.redis.Close()
}

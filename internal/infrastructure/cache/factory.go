package cache

import (
	"context"
	"fmt"

	"github.com/hrms/backend/internal/application/dashboard"
	"github.com/hrms/backend/internal/domain/shared"
	"github.com/hrms/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the key-value stores the service needs
type Stores struct {
	// Events de-duplicates event handling
	Events shared.IdempotencyStore
	// Requests remembers Idempotency-Key headers of mutating requests
	Requests shared.IdempotencyStore
	// Versions holds dashboard version counters
	Versions dashboard.VersionStore
	// Redis is nil when the stores are in memory
	Redis *redis.Client
}

// Close releases the stores and the Redis connection
func (s *Stores) Close() error {
	_ = s.Events.Close()
	_ = s.Requests.Close()
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}

// Ping checks the Redis connection, if any
func (s *Stores) Ping(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Ping(ctx).Err()
}

// StoreFactory creates stores based on configuration
type StoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StoreFactoryOption is a functional option for configuring the factory
type StoreFactoryOption func(*StoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StoreFactoryOption {
	return func(f *StoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStoreFactory creates a new factory
func NewStoreFactory(cfg config.RedisConfig, opts ...StoreFactoryOption) *StoreFactory {
	f := &StoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// InMemory creates process-local stores, for single-instance deployments and tests
func (f *StoreFactory) InMemory() *Stores {
	return &Stores{
		Events:   NewInMemoryIdempotencyStore(),
		Requests: NewInMemoryIdempotencyStore(),
		Versions: NewInMemoryVersionStore(),
	}
}

// Create builds Redis-backed stores when Redis is enabled and reachable, and
// falls back to in-memory stores otherwise when fallback is allowed
func (f *StoreFactory) Create(ctx context.Context) (*Stores, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory stores")
		return f.InMemory(), nil
	}

	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Idempotency keys and dashboard versions will not be shared across instances.",
			zap.Error(err),
		)
		return f.InMemory(), nil
	}

	f.logger.Info("Using Redis stores", zap.String("addr", f.redisConfig.Addr()))
	return &Stores{
		Events:   NewRedisIdempotencyStore(client, EventKeyPrefix),
		Requests: NewRedisIdempotencyStore(client, RequestKeyPrefix),
		Versions: NewRedisVersionStore(client),
		Redis:    client,
	}, nil
}

package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/winroom/backend/internal/domain/shared"
	"github.com/winroom/backend/internal/infrastructure/config"
)

// IdempotencyStoreFactory builds the idempotency store used by event
// handlers. Redis is preferred so duplicate suppression holds across
// instances; single-instance deployments may fall back to the in-memory
// store when Redis is unreachable.
type IdempotencyStoreFactory struct {
	redisConfig   config.RedisConfig
	log           *zap.Logger
	allowFallback bool
}

// IdempotencyStoreFactoryOption configures the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(log *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.log = log
	}
}

// WithInMemoryFallback controls whether CreateStore may fall back to the
// in-memory store when Redis is unavailable. Defaults to true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a factory for the given Redis config
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:   cfg,
		log:           zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis-backed store, or the in-memory store when
// Redis is unreachable and fallback is allowed
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.log.Info("using Redis idempotency store")
		return store, nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.log.Warn("Redis unavailable, falling back to in-memory idempotency store; "+
		"duplicate events may be redelivered across instances",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

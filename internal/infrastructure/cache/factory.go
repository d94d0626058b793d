package cache

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/config"
)

// LockerFactory creates the scheduler lock based on configuration
type LockerFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// LockerFactoryOption is a functional option for configuring the factory
type LockerFactoryOption func(*LockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory lock
// when redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) LockerFactoryOption {
	return func(f *LockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewLockerFactory creates a new factory
func NewLockerFactory(cfg config.RedisConfig, opts ...LockerFactoryOption) *LockerFactory {
	f := &LockerFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLocker returns a redis locker when redis answers, otherwise the
// in-memory locker if fallback is allowed
func (f *LockerFactory) CreateLocker() (Locker, error) {
	if f.redisConfig.Host != "" {
		client, err := NewRedisClient(f.redisConfig)
		if err == nil {
			f.logger.Info("Using Redis scheduler lock", zap.String("addr", f.redisConfig.Addr()))
			l := NewRedisLocker(client, DefaultLockPrefix)
			l.ownClient = true
			return l, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required for scheduler lock but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory scheduler lock. "+
			"Concurrent instances may run the same job.",
			zap.Error(err),
		)
	} else if !f.allowInMemoryFallback {
		return nil, errors.New("redis required for scheduler lock but no host configured")
	}
	return NewInMemoryLocker(), nil
}

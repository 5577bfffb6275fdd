// Package cache provides the in-memory and Redis implementations of the
// domain cache repository.
package cache

import (
	"fmt"
	"io"

	"github.com/softwarescout/backend/config"
	"github.com/softwarescout/backend/internal/domain"
)

// Store is a cache repository that owns resources released by Close
type Store interface {
	domain.CacheRepository
	io.Closer
}

const redisKeyPrefix = "scout:"

// New builds the cache selected by cfg.Type
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryCache(), nil
	case "redis":
		return NewRedisCache(RedisConfig{
			Address:   cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: redisKeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
